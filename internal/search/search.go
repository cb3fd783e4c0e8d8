// Package search ranks modules against a query string. Scoring is lexical and
// deterministic: a pure function of the query and a pathway snapshot, so the
// same search can be re-run at any time with identical results.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"pathcraft/internal/pathway"
)

// Weights for the scoring model. A full-query hit in the title dominates,
// per-token title hits outrank description hits, content hits are the floor.
const (
	weightTitleExact  = 10
	weightTitleToken  = 5
	weightDescription = 3
	weightContent     = 1
)

// Hit is one ranked search result.
type Hit struct {
	Section      string
	LocalNumber  int
	GlobalNumber int
	Module       *pathway.Module
	Score        int
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(query string) []string {
	return tokenRe.FindAllString(strings.ToLower(query), -1)
}

// Score computes the relevance of one module for a query. Scores are
// non-negative, zero for disjoint vocabularies, and never decrease when the
// query gains a token that matches more module text.
func Score(query string, m *pathway.Module) int {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return 0
	}
	title := strings.ToLower(m.Title)
	description := strings.ToLower(m.Description)
	content := strings.ToLower(m.Content)

	score := 0
	if strings.Contains(title, q) {
		score += weightTitleExact
	}
	for _, token := range tokenize(q) {
		if strings.Contains(title, token) {
			score += weightTitleToken
		}
		if strings.Contains(description, token) {
			score += weightDescription
		}
		if strings.Contains(content, token) {
			score += weightContent
		}
	}
	return score
}

// Run scores every module in the pathway and returns the hits in descending
// score order. Zero-score modules are excluded; ties break by global number so
// the ranking is stable across runs.
func Run(query string, p *pathway.Pathway) []Hit {
	idx := pathway.BuildIndex(p)
	var hits []Hit
	for _, entry := range idx.Entries() {
		score := Score(query, entry.Module)
		if score == 0 {
			continue
		}
		hits = append(hits, Hit{
			Section:      entry.Section,
			LocalNumber:  entry.LocalNumber,
			GlobalNumber: entry.GlobalNumber,
			Module:       entry.Module,
			Score:        score,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].GlobalNumber < hits[j].GlobalNumber
	})
	return hits
}

// Summary condenses a module's content for chat display: the first two
// sentences of the body, capped at 240 characters.
func Summary(m *pathway.Module) string {
	body := m.Content
	// Skip the template header block when present.
	if i := strings.Index(body, "\n\n"); i >= 0 && strings.HasPrefix(body, "Training Type:") {
		body = body[i+2:]
	}
	sentences := regexp.MustCompile(`[.!?]+`).Split(body, -1)
	var kept []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, s)
		if len(kept) == 2 {
			break
		}
	}
	summary := strings.Join(kept, ". ")
	if summary != "" {
		summary += "."
	}
	if len(summary) > 240 {
		summary = summary[:240] + "..."
	}
	return summary
}

// Answer serves "find/what is" style questions: it runs the query over the
// pathway and phrases the best hit as a reply, or says nothing matched.
func Answer(question string, p *pathway.Pathway) string {
	hits := Run(question, p)
	if len(hits) == 0 {
		return fmt.Sprintf("I couldn't find anything matching %q in the current pathway. Try different keywords, or ask for the module reference guide.", strings.TrimSpace(question))
	}
	best := hits[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "The closest match is Module %d (%q) in section %q.", best.GlobalNumber, best.Module.Title, best.Section)
	if summary := Summary(best.Module); summary != "" {
		fmt.Fprintf(&sb, " %s", summary)
	}
	if len(hits) > 1 {
		fmt.Fprintf(&sb, "\n\nOther matches:\n")
		for _, h := range hits[1:] {
			fmt.Fprintf(&sb, "- Module %d: %s (section %q)\n", h.GlobalNumber, h.Module.Title, h.Section)
		}
	}
	return sb.String()
}
