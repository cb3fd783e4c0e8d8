// Package merge applies newly extracted modules to the target a resolved
// reference points at. Every outcome, success or failure, is a human-readable
// string the chat layer renders directly; out-of-range and ambiguous
// references come back with the valid alternatives spelled out.
package merge

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pathcraft/internal/pathway"
	"pathcraft/internal/refs"
)

// Options tweaks how content is applied to an existing module. Replace drops
// prior provenance instead of unioning source sets; it is only set when the
// user explicitly asked to replace.
type Options struct {
	Replace bool
}

// Engine mutates the session's pathway set. It is the only writer; the
// resolver, index builder, and search only ever read snapshots.
type Engine struct {
	log *zap.SugaredLogger
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger.Sugar()}
}

// Apply dispatches on the target kind and returns the outcome message. The
// pathway set is mutated in place; indices are derived projections and are
// rebuilt by readers, never patched.
func (e *Engine) Apply(target *refs.Target, mods []*pathway.Module, set *pathway.Set, opts Options) string {
	if set == nil || set.Current == nil {
		return "❌ No pathway available yet. Generate a pathway before adding content."
	}
	if target == nil {
		return "❌ I couldn't identify where to put the new content.\n\n" + pathway.ReferenceHelp(set.Current)
	}
	if len(mods) == 0 {
		return "❌ No new content to apply. Upload and process files first, then tell me where the content should go."
	}

	e.log.Debugw("applying modules", "target", target.String(), "modules", len(mods))

	switch target.Kind {
	case refs.KindPathwaySection:
		return e.applyPathwaySection(target, mods, set)
	case refs.KindModule:
		return e.applyModule(target, mods, set.Current, opts)
	case refs.KindSection:
		return e.applySection(target, mods, set.Current)
	case refs.KindPathway:
		return e.applyWholePathway(mods, set.Current)
	default:
		return fmt.Sprintf("❌ Unsupported target kind %q.", target.Kind)
	}
}

func (e *Engine) applyPathwaySection(target *refs.Target, mods []*pathway.Module, set *pathway.Set) string {
	p := set.PathwayAt(target.PathwayNum)
	if p == nil {
		return fmt.Sprintf("❌ Pathway %d not found. Available pathways: %s",
			target.PathwayNum, set.AvailablePathways())
	}
	sec := p.SectionAt(target.SectionNum)
	if sec == nil {
		return fmt.Sprintf("❌ Section %d not found in %s. Valid sections: 1 to %d.",
			target.SectionNum, pathway.PathwayLabel(target.PathwayNum), len(p.Sections))
	}
	sec.Modules = append(sec.Modules, mods...)
	return fmt.Sprintf("✅ Added %s to %s, Section %d (%q).",
		moduleCount(len(mods)), pathway.PathwayLabel(target.PathwayNum), target.SectionNum, sec.Title)
}

func (e *Engine) applyModule(target *refs.Target, mods []*pathway.Module, p *pathway.Pathway, opts Options) string {
	idx := pathway.BuildIndex(p)

	var entry pathway.IndexEntry
	if n, ok := refs.ModuleNumber(target.Identifier); ok {
		e, found := idx.ByGlobalNumber[n]
		if !found {
			return fmt.Sprintf("❌ Module %d not found. Valid modules: 1 to %d.\n\n%s",
				n, len(idx.ByGlobalNumber), pathway.ReferenceHelp(p))
		}
		entry = e
	} else {
		matches := idx.FindByTitle(target.Identifier)
		if len(matches) == 0 {
			matches = matchesBySectionKeyword(idx, target.Identifier)
		}
		switch len(matches) {
		case 0:
			return fmt.Sprintf("❌ Module %q not found.\n\n%s", target.Identifier, pathway.ReferenceHelp(p))
		case 1:
			entry = matches[0]
		default:
			return ambiguousModules(target.Identifier, matches)
		}
	}

	incoming := mods[0]
	entry.Module.Content = incoming.Content
	entry.Module.Description = incoming.Description
	if len(incoming.KeyPoints) > 0 {
		entry.Module.KeyPoints = incoming.KeyPoints
	}
	if opts.Replace {
		entry.Module.Sources = append([]string(nil), incoming.Sources...)
	} else {
		entry.Module.MergeSources(incoming.Sources)
	}

	// Extra candidates become siblings in the same section.
	if extra := mods[1:]; len(extra) > 0 {
		sec := sectionByTitle(p, entry.Section)
		if sec != nil {
			sec.Modules = append(sec.Modules, extra...)
		}
		return fmt.Sprintf("✅ Updated Module %d (%q) in section %q and added %s alongside it.",
			entry.GlobalNumber, entry.Module.Title, entry.Section, moduleCount(len(extra)))
	}
	verb := "Updated"
	if opts.Replace {
		verb = "Replaced"
	}
	return fmt.Sprintf("✅ %s Module %d (%q) in section %q.",
		verb, entry.GlobalNumber, entry.Module.Title, entry.Section)
}

func (e *Engine) applySection(target *refs.Target, mods []*pathway.Module, p *pathway.Pathway) string {
	var sec *pathway.Section
	var ordinal int

	if n, ok := refs.SectionNumber(target.Identifier); ok {
		sec = p.SectionAt(n)
		ordinal = n
		if sec == nil {
			return fmt.Sprintf("❌ Section %d not found. Valid sections: 1 to %d.", n, len(p.Sections))
		}
	} else {
		for i, candidate := range p.Sections {
			if strings.Contains(strings.ToLower(candidate.Title), strings.ToLower(target.Identifier)) {
				sec = candidate
				ordinal = i + 1
				break
			}
		}
		if sec == nil {
			// Sections are only created by the generation step; an unknown
			// name is an error, not an implicit create.
			return fmt.Sprintf("❌ Section %q not found. Available sections: %s.",
				target.Identifier, sectionTitles(p))
		}
	}

	sec.Modules = append(sec.Modules, mods...)
	return fmt.Sprintf("✅ Added %s to Section %d (%q).", moduleCount(len(mods)), ordinal, sec.Title)
}

func (e *Engine) applyWholePathway(mods []*pathway.Module, p *pathway.Pathway) string {
	if len(p.Sections) == 0 {
		p.Sections = append(p.Sections, &pathway.Section{Title: "Additional Training Modules"})
	}
	sec := p.Sections[len(p.Sections)-1]
	sec.Modules = append(sec.Modules, mods...)
	return fmt.Sprintf("✅ Added %s to the end of pathway %q (section %q).",
		moduleCount(len(mods)), p.Name, sec.Title)
}

func matchesBySectionKeyword(idx *pathway.ModuleIndex, identifier string) []pathway.IndexEntry {
	needle := strings.ToLower(identifier)
	var matches []pathway.IndexEntry
	for _, entry := range idx.Entries() {
		if strings.Contains(strings.ToLower(entry.Section), needle) {
			matches = append(matches, entry)
		}
	}
	return matches
}

func ambiguousModules(identifier string, matches []pathway.IndexEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "❌ Multiple modules match %q:\n", identifier)
	for _, m := range matches {
		fmt.Fprintf(&sb, "- Module %d: %s (section %q)\n", m.GlobalNumber, m.Module.Title, m.Section)
	}
	sb.WriteString("Please refer to the module by its number.")
	return sb.String()
}

func sectionByTitle(p *pathway.Pathway, title string) *pathway.Section {
	for _, sec := range p.Sections {
		if sec.Title == title {
			return sec
		}
	}
	return nil
}

func sectionTitles(p *pathway.Pathway) string {
	titles := make([]string, 0, len(p.Sections))
	for _, sec := range p.Sections {
		titles = append(titles, fmt.Sprintf("%q", sec.Title))
	}
	if len(titles) == 0 {
		return "(none)"
	}
	return strings.Join(titles, ", ")
}

func moduleCount(n int) string {
	if n == 1 {
		return "1 new module"
	}
	return fmt.Sprintf("%d new modules", n)
}
