// Package assistant turns chat instructions into engine operations. Intent
// classification is deliberately pattern-based keyword dispatch; anything it
// cannot place gets the capabilities message, never a bare failure.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pathcraft/internal/chunker"
	"pathcraft/internal/merge"
	"pathcraft/internal/pathway"
	"pathcraft/internal/refs"
	"pathcraft/internal/rewrite"
	"pathcraft/internal/search"
	"pathcraft/internal/session"
)

type Assistant struct {
	merger   *merge.Engine
	rewriter rewrite.Rewriter
	tc       chunker.TrainingContext
	log      *zap.SugaredLogger
}

func New(rewriter rewrite.Rewriter, tc chunker.TrainingContext, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		merger:   merge.New(logger),
		rewriter: rewriter,
		tc:       tc,
		log:      logger.Sugar(),
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Handle processes one instruction against the session state and returns the
// reply to render. The instruction and reply are both recorded on the
// transcript.
func (a *Assistant) Handle(ctx context.Context, instruction string, state *session.State) string {
	state.Record("user", instruction)
	reply := a.dispatch(ctx, instruction, state)
	state.Record("assistant", reply)
	return reply
}

func (a *Assistant) dispatch(ctx context.Context, instruction string, state *session.State) string {
	lower := strings.ToLower(instruction)
	a.log.Debugw("dispatching instruction", "instruction", instruction)

	switch {
	case containsAny(lower, "regenerate", "update", "change", "modify", "replace", "add"):
		return a.handleUpdate(ctx, instruction, state)
	case containsAny(lower, "search", "find", "look for"):
		return a.handleSearch(instruction, state)
	case containsAny(lower, "help", "what can you do", "how to"):
		return Help()
	case isQuestion(lower):
		return search.Answer(instruction, state.Pathways.Current)
	case containsAny(lower, "past", "previous", "history"):
		return a.handlePastPathways(state)
	case containsAny(lower, "ingest", "upload", "process file"):
		return "Upload files first, then tell me where the content should go. For example: \"update module 2 with the new file\" or \"add the new content to the safety section\"."
	case containsAny(lower, "tone", "style"):
		return a.handleToneChange(ctx, instruction, state)
	case containsAny(lower, "module", "section", "pathway"):
		return a.handleLookup(instruction, state)
	default:
		return capabilitiesMessage
	}
}

// handleUpdate applies staged content to a resolved target, or regenerates a
// module in place when there is nothing staged and the request is a rewrite.
func (a *Assistant) handleUpdate(ctx context.Context, instruction string, state *session.State) string {
	target := refs.Resolve(instruction)
	if target == nil {
		return "❌ I couldn't identify which module, section, or pathway you mean. Please refer to a target by number or name.\n\n" +
			pathway.ReferenceHelp(state.Pathways.Current)
	}

	lower := strings.ToLower(instruction)
	if pending := state.TakePending(); len(pending) > 0 {
		opts := merge.Options{Replace: strings.Contains(lower, "replace")}
		return a.merger.Apply(target, pending, state.Pathways, opts)
	}

	if strings.Contains(lower, "regenerate") || rewrite.ExtractTone(lower) != "" {
		return a.regenerateModule(ctx, instruction, target, state)
	}
	return "❌ No new content staged. Upload and process files first, then repeat the instruction — or ask me to regenerate a module with a different tone."
}

func (a *Assistant) regenerateModule(ctx context.Context, instruction string, target *refs.Target, state *session.State) string {
	if target.Kind != refs.KindModule {
		return "Please point me at a specific module to regenerate, e.g. \"regenerate module 2 with a professional tone\"."
	}

	idx := pathway.BuildIndex(state.Pathways.Current)
	var entry pathway.IndexEntry
	if n, ok := refs.ModuleNumber(target.Identifier); ok {
		e, found := idx.ByGlobalNumber[n]
		if !found {
			return fmt.Sprintf("❌ Module %d not found. Valid modules: 1 to %d.\n\n%s",
				n, len(idx.ByGlobalNumber), pathway.ReferenceHelp(state.Pathways.Current))
		}
		entry = e
	} else {
		matches := idx.FindByTitle(target.Identifier)
		if len(matches) != 1 {
			return fmt.Sprintf("❌ I couldn't pin down module %q. Please use its number.\n\n%s",
				target.Identifier, pathway.ReferenceHelp(state.Pathways.Current))
		}
		entry = matches[0]
	}

	tone := rewrite.ExtractTone(instruction)
	focus := rewrite.ExtractFocus(instruction)
	content, err := a.rewriter.Rewrite(ctx, rewrite.Request{
		Content: entry.Module.Content,
		Tone:    tone,
		Focus:   focus,
		Context: a.tc,
	})
	if err != nil {
		a.log.Warnw("rewrite failed", "module", entry.Module.Title, "error", err)
		return "❌ Failed to regenerate the module. Please try again."
	}
	entry.Module.Content = content

	if tone == "" {
		tone = "default"
	}
	if focus == "" {
		focus = "general"
	}
	return fmt.Sprintf("✅ Successfully regenerated %q with %s tone and %s focus.",
		entry.Module.Title, tone, focus)
}

// handleToneChange covers tone requests phrased without an update verb, like
// "make module 2 more professional in tone".
func (a *Assistant) handleToneChange(ctx context.Context, instruction string, state *session.State) string {
	target := refs.Resolve(instruction)
	if target == nil || target.Kind != refs.KindModule {
		return "Which module should I restyle? Try \"regenerate module 2 with a professional tone\"."
	}
	return a.regenerateModule(ctx, instruction, target, state)
}

func (a *Assistant) handleSearch(instruction string, state *session.State) string {
	query := stripSearchPrefix(instruction)
	if query == "" {
		return "What should I search for? Try \"search for safety procedures\"."
	}
	hits := search.Run(query, state.Pathways.Current)
	if len(hits) == 0 {
		return fmt.Sprintf("🔍 No modules match %q.\n\n%s", query, pathway.ReferenceHelp(state.Pathways.Current))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Found %d matching module(s) for %q:\n", len(hits), query)
	for i, h := range hits {
		fmt.Fprintf(&sb, "%d. %s — Module %d: %s (score %d)\n", i+1, h.Section, h.GlobalNumber, h.Module.Title, h.Score)
	}
	return sb.String()
}

var searchPrefixes = []string{"search for", "search", "look for", "find"}

func stripSearchPrefix(instruction string) string {
	q := strings.TrimSpace(instruction)
	lower := strings.ToLower(q)
	for _, prefix := range searchPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(q[len(prefix):])
		}
	}
	return q
}

func isQuestion(lower string) bool {
	if strings.HasSuffix(strings.TrimSpace(lower), "?") {
		return true
	}
	for _, w := range []string{"what ", "which ", "how ", "where "} {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}

func (a *Assistant) handlePastPathways(state *session.State) string {
	past := state.Pathways.Past
	if len(past) == 0 {
		return "There are no past pathways yet. Each new generation run moves the previous pathway into history."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "There are %d past pathway(s):\n", len(past))
	for i, p := range past {
		fmt.Fprintf(&sb, "- Past Pathway %d (pathway %d): %s, %d modules\n", i+1, i+2, p.Name, p.ModuleCount())
	}
	sb.WriteString("Address them like \"update pathway 2 section 1 with the new content\".")
	return sb.String()
}

// handleLookup answers "module 3" style mentions that carry no update verb by
// describing what the reference points at.
func (a *Assistant) handleLookup(instruction string, state *session.State) string {
	target := refs.Resolve(instruction)
	if target == nil {
		return "❌ I couldn't identify which module, section, or pathway you mean.\n\n" +
			pathway.ReferenceHelp(state.Pathways.Current)
	}
	idx := pathway.BuildIndex(state.Pathways.Current)

	switch target.Kind {
	case refs.KindModule:
		if n, ok := refs.ModuleNumber(target.Identifier); ok {
			if entry, found := idx.ByGlobalNumber[n]; found {
				return fmt.Sprintf("Module %d is %q in section %q. You can update it with new content, regenerate it with a different tone, or replace it.",
					n, entry.Module.Title, entry.Section)
			}
			return fmt.Sprintf("❌ Module %d not found. Valid modules: 1 to %d.", n, len(idx.ByGlobalNumber))
		}
		if matches := idx.FindByTitle(target.Identifier); len(matches) == 1 {
			m := matches[0]
			return fmt.Sprintf("I found Module %d (%q) in section %q. What would you like to do with it?",
				m.GlobalNumber, m.Module.Title, m.Section)
		}
		return fmt.Sprintf("❌ I couldn't find module %q.\n\n%s", target.Identifier, pathway.ReferenceHelp(state.Pathways.Current))
	case refs.KindSection, refs.KindPathwaySection, refs.KindPathway:
		return "I can add uploaded content there, or search within it. Upload files first, then say for example \"add the new content to " + target.String() + "\"."
	default:
		return capabilitiesMessage
	}
}
