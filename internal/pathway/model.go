package pathway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Module is a single unit of training content. Sources records the filenames
// the content was extracted from and only grows on merge; an explicit replace
// is the one operation allowed to reset it.
type Module struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	Sources      []string `json:"source,omitempty"`
	KeyPoints    []string `json:"key_points,omitempty"`
	ContentTypes []string `json:"content_types,omitempty"`
}

// Section groups modules inside a pathway. The title is the only identifier a
// section has; uniqueness is not enforced.
type Section struct {
	Title   string    `json:"title"`
	Modules []*Module `json:"modules"`
}

// Pathway is a named training program holding ordered sections.
type Pathway struct {
	Name     string     `json:"pathway_name"`
	Sections []*Section `json:"sections"`
}

// Set is the session's pathway state: the active pathway plus the history of
// pathways produced by earlier generation runs, most recent first.
type Set struct {
	Current *Pathway   `json:"current"`
	Past    []*Pathway `json:"past"`
}

// ModuleID derives a stable identifier from a module's provenance and title so
// re-chunking the same file yields the same IDs.
func ModuleID(source, title string) string {
	hash := sha256.Sum256([]byte(source + ":" + title))
	return hex.EncodeToString(hash[:])
}

// MergeSources unions extra into the module's source set, preserving the order
// sources were first seen.
func (m *Module) MergeSources(extra []string) {
	seen := make(map[string]bool, len(m.Sources))
	for _, s := range m.Sources {
		seen[s] = true
	}
	for _, s := range extra {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		m.Sources = append(m.Sources, s)
	}
}

// ModuleCount returns the number of modules across all sections.
func (p *Pathway) ModuleCount() int {
	n := 0
	for _, sec := range p.Sections {
		n += len(sec.Modules)
	}
	return n
}

// SectionAt returns the 1-based section ordinal, or nil when out of range.
func (p *Pathway) SectionAt(ordinal int) *Section {
	if ordinal < 1 || ordinal > len(p.Sections) {
		return nil
	}
	return p.Sections[ordinal-1]
}

// PathwayAt maps a 1-based pathway ordinal onto the set: 1 is the current
// pathway, N >= 2 is the (N-1)-th most recent past pathway.
func (s *Set) PathwayAt(ordinal int) *Pathway {
	if ordinal == 1 {
		return s.Current
	}
	idx := ordinal - 2
	if idx < 0 || idx >= len(s.Past) {
		return nil
	}
	return s.Past[idx]
}

// PathwayLabel names a pathway ordinal the way users see it in messages.
func PathwayLabel(ordinal int) string {
	if ordinal == 1 {
		return "Current Pathway"
	}
	return fmt.Sprintf("Past Pathway %d", ordinal-1)
}

// AvailablePathways enumerates every addressable pathway reference in the set.
func (s *Set) AvailablePathways() string {
	refs := []string{"Current Pathway (pathway 1)"}
	for i := range s.Past {
		refs = append(refs, fmt.Sprintf("Past Pathway %d (pathway %d)", i+1, i+2))
	}
	return strings.Join(refs, ", ")
}

// Normalize repairs structural gaps after an import: nil slices become empty,
// missing module IDs are re-derived, and empty pathway names get a default.
func (s *Set) Normalize() {
	if s.Current == nil {
		s.Current = &Pathway{Name: "Training Pathway"}
	}
	normalizePathway(s.Current)
	for _, p := range s.Past {
		normalizePathway(p)
	}
}

func normalizePathway(p *Pathway) {
	if p.Name == "" {
		p.Name = "Training Pathway"
	}
	if p.Sections == nil {
		p.Sections = []*Section{}
	}
	for _, sec := range p.Sections {
		if sec.Modules == nil {
			sec.Modules = []*Module{}
		}
		for _, m := range sec.Modules {
			if m.ID == "" {
				src := ""
				if len(m.Sources) > 0 {
					src = m.Sources[0]
				}
				m.ID = ModuleID(src, m.Title)
			}
		}
	}
}
