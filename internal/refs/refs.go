// Package refs classifies a free-text instruction into a structured target
// descriptor. Resolution is a fixed chain of pattern rules, most specific
// first; the first rule that matches wins.
package refs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the addressable entity a target points at.
type Kind string

const (
	KindModule         Kind = "module"
	KindSection        Kind = "section"
	KindPathway        Kind = "pathway"
	KindPathwaySection Kind = "pathway_section"
)

// Target is the structured result of resolving an instruction. Each kind
// carries exactly the fields it needs: pathway_section fills PathwayNum and
// SectionNum, the other kinds fill Identifier.
type Target struct {
	Kind       Kind
	Identifier string
	PathwayNum int
	SectionNum int
}

func (t *Target) String() string {
	if t == nil {
		return "<none>"
	}
	if t.Kind == KindPathwaySection {
		return fmt.Sprintf("pathway %d section %d", t.PathwayNum, t.SectionNum)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Identifier)
}

var (
	// "pathway 2 section 1", tolerant of intervening words
	// ("update pathway 2 with new files into section 1").
	pathwaySectionRe = regexp.MustCompile(`(?i)\bpathway\s+(\d+)\b.*?\bsection\s+(\d+)\b`)
	moduleRe         = regexp.MustCompile(`(?i)\bmodule\s+(\d+)\b`)
	sectionNumRe     = regexp.MustCompile(`(?i)\bsection\s+(\d+)\b`)
	pathwayWordRe    = regexp.MustCompile(`(?i)\bpathway\b`)
)

// SectionKeywords is the controlled vocabulary for naming sections without a
// number ("the safety section"). Order is priority order: when an instruction
// mentions several keywords the first declared one wins.
var SectionKeywords = []string{
	"safety",
	"quality",
	"process",
	"procedure",
	"equipment",
	"maintenance",
	"training",
	"onboarding",
}

type rule struct {
	name    string
	resolve func(instruction string) *Target
}

// rules run in order; pathway_section outranks the bare module and section
// patterns because it is the most specific addressable unit.
var rules = []rule{
	{"pathway_section", resolvePathwaySection},
	{"module", resolveModule},
	{"section", resolveSection},
	{"pathway", resolvePathway},
}

// Resolve classifies an instruction, returning nil when no pattern matches.
// Callers must answer a nil target with the reference guide, not an error.
func Resolve(instruction string) *Target {
	for _, r := range rules {
		if t := r.resolve(instruction); t != nil {
			return t
		}
	}
	return nil
}

func resolvePathwaySection(instruction string) *Target {
	m := pathwaySectionRe.FindStringSubmatch(instruction)
	if m == nil {
		return nil
	}
	pathwayNum, err1 := strconv.Atoi(m[1])
	sectionNum, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || pathwayNum < 1 || sectionNum < 1 {
		return nil
	}
	return &Target{
		Kind:       KindPathwaySection,
		Identifier: fmt.Sprintf("pathway_%d_section_%d", pathwayNum, sectionNum),
		PathwayNum: pathwayNum,
		SectionNum: sectionNum,
	}
}

func resolveModule(instruction string) *Target {
	m := moduleRe.FindStringSubmatch(instruction)
	if m == nil {
		return nil
	}
	return &Target{Kind: KindModule, Identifier: "module_" + m[1]}
}

func resolveSection(instruction string) *Target {
	if m := sectionNumRe.FindStringSubmatch(instruction); m != nil {
		return &Target{Kind: KindSection, Identifier: "section_" + m[1]}
	}
	lower := strings.ToLower(instruction)
	for _, keyword := range SectionKeywords {
		if containsWord(lower, keyword) {
			return &Target{Kind: KindSection, Identifier: keyword}
		}
	}
	return nil
}

func resolvePathway(instruction string) *Target {
	if !pathwayWordRe.MatchString(instruction) {
		return nil
	}
	return &Target{Kind: KindPathway, Identifier: "entire"}
}

func containsWord(lower, word string) bool {
	idx := strings.Index(lower, word)
	for idx >= 0 {
		before := idx == 0 || !isWordByte(lower[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(lower) || !isWordByte(lower[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(lower[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// ModuleNumber extracts N from a "module_N" identifier.
func ModuleNumber(identifier string) (int, bool) {
	rest, ok := strings.CutPrefix(identifier, "module_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SectionNumber extracts N from a "section_N" identifier.
func SectionNumber(identifier string) (int, bool) {
	rest, ok := strings.CutPrefix(identifier, "section_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
