// Package chunker turns raw extracted document text into clean, professional
// training module candidates. The input is whatever the upstream file parsing
// produced: meeting transcripts with timestamps and speaker labels, manuals,
// or plain notes.
package chunker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"pathcraft/internal/pathway"
)

const (
	// Chunks at or below this length carry too little signal to become a module.
	minChunkChars = 100
	// Sentences shorter than this are conversational fragments.
	minSentenceChars = 20
	// Conciseness cap per source document.
	maxSentences = 20
	// Key points kept per module.
	maxKeyPoints = 5
	// Fallback grouping targets at most this many modules per document.
	maxFallbackModules = 4
)

// TrainingContext is free-form metadata about the training program. It only
// fills the module template; it never steers control flow.
type TrainingContext struct {
	TrainingType   string
	TargetAudience string
	Industry       string
	PrimaryGoals   string
}

func (tc TrainingContext) trainingType() string {
	if tc.TrainingType == "" {
		return "Process Training"
	}
	return tc.TrainingType
}

func (tc TrainingContext) targetAudience() string {
	if tc.TargetAudience == "" {
		return "operators"
	}
	return tc.TargetAudience
}

func (tc TrainingContext) industry() string {
	if tc.Industry == "" {
		return "manufacturing"
	}
	return tc.Industry
}

var (
	// "1:03:04 - Mike Wright:" and "12:45 - Sarah:" transcript markers.
	timestampRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\s*-\s*[A-Za-z][A-Za-z .'-]*:?`)
	// Bare "Sarah:" speaker labels at the start of a line.
	speakerRe   = regexp.MustCompile(`(?m)^[A-Za-z][A-Za-z .'-]{0,30}:\s*`)
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// fillerRes removes conversational fillers on word boundaries. Multi-word
// phrases come first so their fragments are not left behind.
var fillerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byou know\b,?`),
	regexp.MustCompile(`(?i)\bi mean\b,?`),
	regexp.MustCompile(`(?i)\bkind of\b`),
	regexp.MustCompile(`(?i)\bsort of\b`),
	regexp.MustCompile(`(?i)\bum\b,?`),
	regexp.MustCompile(`(?i)\buh\b,?`),
	regexp.MustCompile(`(?i)\blike\b,?`),
	regexp.MustCompile(`(?i)\bbasically\b,?`),
}

// lowInfoOpeners drop whole sentences that start with conversational filler.
var lowInfoOpeners = []string{"so", "well", "yeah", "okay", "right", "anyway"}

// pronounRules rewrite first and second person into third-person role names to
// produce a professional register. Replacement strings never contain a match
// for any rule, which keeps the cleaning pass a fixed point.
var pronounRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bI\b`), "Personnel"},
	{regexp.MustCompile(`(?i)\bwe\b`), "personnel"},
	{regexp.MustCompile(`(?i)\bmy\b`), "the"},
	{regexp.MustCompile(`(?i)\bour\b`), "the team's"},
	{regexp.MustCompile(`(?i)\byour\b`), "operators'"},
	{regexp.MustCompile(`(?i)\byou\b`), "operators"},
}

// stripTranscript removes timestamp/speaker markers while preserving the
// blank-line structure the primary chunking strategy depends on.
func stripTranscript(raw string) string {
	out := timestampRe.ReplaceAllString(raw, "")
	out = speakerRe.ReplaceAllString(out, "")
	return out
}

// cleanSentence runs one sentence through the full cleaning pipeline. The
// second return is false when the sentence should be dropped entirely.
func cleanSentence(s string) (string, bool) {
	for _, re := range fillerRes {
		s = re.ReplaceAllString(s, "")
	}
	s = strings.Trim(spaceRe.ReplaceAllString(s, " "), " ,;")
	if len(s) < minSentenceChars {
		return "", false
	}
	first := strings.ToLower(strings.SplitN(s, " ", 2)[0])
	for _, opener := range lowInfoOpeners {
		if first == opener || first == opener+"," {
			return "", false
		}
	}
	for _, rule := range pronounRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	runes := []rune(s)
	if unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		s = string(runes)
	}
	return s, true
}

// CleanSentences splits text into sentences and cleans each one, keeping at
// most limit survivors. A limit <= 0 means no cap.
func CleanSentences(text string, limit int) []string {
	var out []string
	for _, raw := range sentenceRe.Split(stripTranscript(text), -1) {
		if limit > 0 && len(out) >= limit {
			break
		}
		s, ok := cleanSentence(raw)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Clean produces the professional rendering of a block of text. Running Clean
// on its own output changes nothing.
func Clean(text string) string {
	return joinSentences(CleanSentences(text, 0))
}

func joinSentences(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}

// Chunk splits raw document text into module candidates. Degenerate input
// yields an empty list, which callers treat as "nothing extractable" rather
// than an error.
func Chunk(filename, raw string, tc TrainingContext) []*pathway.Module {
	if len(strings.TrimSpace(raw)) < 50 {
		return nil
	}

	chunks := paragraphChunks(raw)
	if len(chunks) == 0 {
		chunks = groupedChunks(raw)
	}

	modules := make([]*pathway.Module, 0, len(chunks))
	for i, sentences := range chunks {
		title := fmt.Sprintf("Module %d: %s", i+1, cleanFileName(filename))
		points := sentences
		if len(points) > maxKeyPoints {
			points = points[:maxKeyPoints]
		}
		modules = append(modules, &pathway.Module{
			ID:           pathway.ModuleID(filename, title),
			Title:        title,
			Description:  fmt.Sprintf("Training content from %s", filename),
			Content:      formatModuleContent(joinSentences(sentences), tc),
			Sources:      []string{filename},
			KeyPoints:    append([]string(nil), points...),
			ContentTypes: []string{"text"},
		})
	}
	return modules
}

// paragraphChunks is the primary strategy: blank-line boundaries in the
// original text, each block cleaned independently under the shared sentence
// budget. Blocks whose cleaned text is too short are discarded.
func paragraphChunks(raw string) [][]string {
	var chunks [][]string
	budget := maxSentences
	for _, block := range blankLineRe.Split(raw, -1) {
		if budget <= 0 {
			break
		}
		sentences := CleanSentences(block, budget)
		if len(joinSentences(sentences)) <= minChunkChars {
			continue
		}
		budget -= len(sentences)
		chunks = append(chunks, sentences)
	}
	return chunks
}

// groupedChunks is the fallback when no paragraph clears the length floor:
// group the cleaned sentences into ceil(N/4)-sentence runs, targeting at most
// four modules per document.
func groupedChunks(raw string) [][]string {
	sentences := CleanSentences(raw, maxSentences)
	if len(sentences) == 0 {
		return nil
	}
	size := (len(sentences) + maxFallbackModules - 1) / maxFallbackModules
	var chunks [][]string
	for start := 0; start < len(sentences); start += size {
		end := start + size
		if end > len(sentences) {
			end = len(sentences)
		}
		group := sentences[start:end]
		if len(joinSentences(group)) <= minChunkChars {
			continue
		}
		chunks = append(chunks, group)
	}
	return chunks
}

func cleanFileName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}

func formatModuleContent(body string, tc TrainingContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Training Type: %s\n", tc.trainingType())
	fmt.Fprintf(&sb, "Target Audience: %s\n", tc.targetAudience())
	fmt.Fprintf(&sb, "Industry: %s\n\n", tc.industry())
	sb.WriteString(body)
	sb.WriteString("\n\nImplementation Guidelines:\n")
	sb.WriteString("- Apply these practices as part of standard daily operations.\n")
	sb.WriteString("- Supervisors verify adherence during routine checks.\n")
	sb.WriteString("- Escalate deviations through the documented reporting chain.\n")
	sb.WriteString("\nAssessment Criteria:\n")
	sb.WriteString("- Demonstrates understanding of the documented procedures.\n")
	sb.WriteString("- Executes each step in the correct sequence without prompting.\n")
	sb.WriteString("- Identifies and reports nonconformances correctly.\n")
	return sb.String()
}

// ContextFallback builds a single generic module purely from training context
// metadata, used when chunking every uploaded file produced nothing.
func ContextFallback(tc TrainingContext) *pathway.Module {
	topic := tc.trainingType()
	title := fmt.Sprintf("Module 1: %s Overview", topic)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is a core component of operations in %s.\n\n", topic, tc.industry())
	sb.WriteString("Learning Objectives:\n")
	fmt.Fprintf(&sb, "- Understand the fundamentals of %s.\n", strings.ToLower(topic))
	sb.WriteString("- Learn the documented procedures and best practices.\n")
	sb.WriteString("- Identify potential issues and the correct response to each.\n")
	fmt.Fprintf(&sb, "- Apply the material in day-to-day work as %s.\n", tc.targetAudience())
	return &pathway.Module{
		ID:           pathway.ModuleID("training-context", title),
		Title:        title,
		Description:  fmt.Sprintf("Generated from training context for %s", tc.targetAudience()),
		Content:      formatModuleContent(sb.String(), tc),
		KeyPoints:    []string{fmt.Sprintf("Overview of %s for %s", strings.ToLower(topic), tc.targetAudience())},
		ContentTypes: []string{"text"},
	}
}
