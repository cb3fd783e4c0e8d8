// Package rewrite regenerates module content on request ("regenerate module 2
// with a more professional tone"). Tone and focus are extracted from the
// instruction with fixed vocabularies; the rewrite itself goes through a
// provider-selected Rewriter so the LLM stays a thin external collaborator.
package rewrite

import (
	"context"
	"strings"

	"pathcraft/internal/chunker"
)

// Request carries everything a rewriter needs for one module.
type Request struct {
	Content string
	Tone    string
	Focus   string
	Changes string
	Context chunker.TrainingContext
}

// Rewriter produces a new rendering of module content.
type Rewriter interface {
	Rewrite(ctx context.Context, req Request) (string, error)
}

// tones maps a canonical tone to the words that select it.
var tones = []struct {
	name     string
	keywords []string
}{
	{"professional", []string{"professional", "formal", "business"}},
	{"casual", []string{"casual", "informal", "friendly"}},
	{"technical", []string{"technical", "detailed", "comprehensive"}},
	{"simple", []string{"simple", "basic", "easy"}},
	{"authoritative", []string{"authoritative", "commanding", "strict"}},
}

var focusAreas = []struct {
	name     string
	keywords []string
}{
	{"safety", []string{"safety", "ppe", "protective", "hazard"}},
	{"quality", []string{"quality", "inspection", "standard"}},
	{"procedure", []string{"procedure", "process", "workflow"}},
	{"equipment", []string{"equipment", "tool", "machine"}},
	{"maintenance", []string{"maintenance", "repair", "service"}},
}

// ExtractTone picks the requested tone out of an instruction, or "" when none
// is mentioned.
func ExtractTone(instruction string) string {
	lower := strings.ToLower(instruction)
	for _, t := range tones {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.name
			}
		}
	}
	return ""
}

// ExtractFocus picks the requested content focus out of an instruction.
func ExtractFocus(instruction string) string {
	lower := strings.ToLower(instruction)
	for _, f := range focusAreas {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.name
			}
		}
	}
	return ""
}

func (r Request) tone() string {
	if r.Tone == "" {
		return "professional"
	}
	return r.Tone
}

func (r Request) focus() string {
	if r.Focus == "" {
		return "general"
	}
	return r.Focus
}
