package pathway

import (
	"fmt"
	"strings"
)

// IndexEntry locates one module inside a pathway snapshot.
type IndexEntry struct {
	Section      string
	LocalNumber  int
	GlobalNumber int
	Module       *Module
}

// ModuleIndex is a derived projection over a pathway snapshot. It is rebuilt
// on demand after every structural mutation and never stored alongside the
// hierarchy, so numbering cannot go stale.
type ModuleIndex struct {
	ByGlobalNumber     map[int]IndexEntry
	BySectionAndNumber map[string]map[int]IndexEntry
	ByTitle            map[string]IndexEntry
}

// BuildIndex walks sections in order, modules in order, assigning an
// incrementing global counter and a per-section local counter. Duplicate
// lower-cased titles follow last-write-wins.
func BuildIndex(p *Pathway) *ModuleIndex {
	idx := &ModuleIndex{
		ByGlobalNumber:     make(map[int]IndexEntry),
		BySectionAndNumber: make(map[string]map[int]IndexEntry),
		ByTitle:            make(map[string]IndexEntry),
	}
	if p == nil {
		return idx
	}

	global := 0
	for _, sec := range p.Sections {
		for local, m := range sec.Modules {
			global++
			entry := IndexEntry{
				Section:      sec.Title,
				LocalNumber:  local + 1,
				GlobalNumber: global,
				Module:       m,
			}
			idx.ByGlobalNumber[global] = entry
			if idx.BySectionAndNumber[sec.Title] == nil {
				idx.BySectionAndNumber[sec.Title] = make(map[int]IndexEntry)
			}
			idx.BySectionAndNumber[sec.Title][local+1] = entry
			idx.ByTitle[strings.ToLower(m.Title)] = entry
		}
	}
	return idx
}

// Entries returns all entries in global order.
func (idx *ModuleIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(idx.ByGlobalNumber))
	for n := 1; n <= len(idx.ByGlobalNumber); n++ {
		out = append(out, idx.ByGlobalNumber[n])
	}
	return out
}

// FindByTitle matches modules whose title contains the query,
// case-insensitively. An exact title match short-circuits to a single result.
func (idx *ModuleIndex) FindByTitle(query string) []IndexEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if entry, ok := idx.ByTitle[q]; ok {
		return []IndexEntry{entry}
	}
	var matches []IndexEntry
	for _, entry := range idx.Entries() {
		if strings.Contains(strings.ToLower(entry.Module.Title), q) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// ReferenceHelp renders the addressable structure of a pathway as a guide the
// assistant shows whenever a reference cannot be resolved.
func ReferenceHelp(p *Pathway) string {
	var sb strings.Builder
	sb.WriteString("Module Reference Guide:\n\n")
	if p == nil || len(p.Sections) == 0 {
		sb.WriteString("No modules available yet.\n")
		return sb.String()
	}
	sectionNum := 0
	for _, sec := range p.Sections {
		sectionNum++
		fmt.Fprintf(&sb, "%s (section %d):\n", sec.Title, sectionNum)
		for i, m := range sec.Modules {
			fmt.Fprintf(&sb, "  - Module %d.%d: %s\n", sectionNum, i+1, m.Title)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
