package pathway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPathway() *Pathway {
	return &Pathway{
		Name: "Manufacturing Training Program",
		Sections: []*Section{
			{
				Title: "Safety Procedures",
				Modules: []*Module{
					{Title: "PPE Requirements", Description: "Personal protective equipment", Content: "Safety content 1"},
					{Title: "Equipment Safety", Description: "Equipment safety procedures", Content: "Safety content 2"},
					{Title: "Emergency Procedures", Description: "Emergency response", Content: "Safety content 3"},
				},
			},
			{
				Title: "Quality Control",
				Modules: []*Module{
					{Title: "Inspection Procedures", Description: "Quality inspection steps", Content: "Quality content 1"},
					{Title: "Documentation", Description: "Quality documentation", Content: "Quality content 2"},
				},
			},
			{
				Title: "Process Training",
				Modules: []*Module{
					{Title: "Standard Operating Procedures", Description: "SOP training", Content: "Process content 1"},
					{Title: "Workflow Management", Description: "Workflow procedures", Content: "Process content 2"},
					{Title: "Team Coordination", Description: "Team coordination", Content: "Process content 3"},
					{Title: "Communication Protocols", Description: "Communication procedures", Content: "Process content 4"},
				},
			},
		},
	}
}

func TestBuildIndex_GlobalAndLocalNumbering(t *testing.T) {
	idx := BuildIndex(testPathway())

	require.Len(t, idx.ByGlobalNumber, 9)

	safety1 := idx.BySectionAndNumber["Safety Procedures"][1]
	assert.Equal(t, 1, safety1.LocalNumber)
	assert.Equal(t, 1, safety1.GlobalNumber)
	assert.Equal(t, "PPE Requirements", safety1.Module.Title)

	// Quality's first module comes after the three safety modules.
	quality1 := idx.BySectionAndNumber["Quality Control"][1]
	assert.Equal(t, 1, quality1.LocalNumber)
	assert.Equal(t, 4, quality1.GlobalNumber)

	// Process's second module comes after safety and quality.
	process2 := idx.BySectionAndNumber["Process Training"][2]
	assert.Equal(t, 2, process2.LocalNumber)
	assert.Equal(t, 7, process2.GlobalNumber)

	global3 := idx.ByGlobalNumber[3]
	assert.Equal(t, "Safety Procedures", global3.Section)
	assert.Equal(t, 3, global3.LocalNumber)
	assert.Equal(t, "Emergency Procedures", global3.Module.Title)
}

func TestBuildIndex_NumberingInvariant(t *testing.T) {
	p := testPathway()
	idx := BuildIndex(p)

	preceding := 0
	global := 0
	for _, sec := range p.Sections {
		for local := range sec.Modules {
			global++
			entry := idx.ByGlobalNumber[global]
			assert.Equal(t, preceding+local+1, entry.GlobalNumber)
			assert.Equal(t, local+1, entry.LocalNumber)
		}
		preceding += len(sec.Modules)
	}
}

func TestBuildIndex_Deterministic(t *testing.T) {
	p := testPathway()
	first := BuildIndex(p)
	second := BuildIndex(p)

	require.Equal(t, len(first.ByGlobalNumber), len(second.ByGlobalNumber))
	for n, entry := range first.ByGlobalNumber {
		other := second.ByGlobalNumber[n]
		assert.Equal(t, entry.Section, other.Section)
		assert.Equal(t, entry.LocalNumber, other.LocalNumber)
		assert.Same(t, entry.Module, other.Module)
	}
}

func TestBuildIndex_ByTitleLowercasedLastWriteWins(t *testing.T) {
	p := &Pathway{
		Sections: []*Section{
			{Title: "A", Modules: []*Module{{Title: "Duplicate"}}},
			{Title: "B", Modules: []*Module{{Title: "duplicate"}}},
		},
	}
	idx := BuildIndex(p)

	entry, ok := idx.ByTitle["duplicate"]
	require.True(t, ok)
	assert.Equal(t, "B", entry.Section)
}

func TestBuildIndex_RebuildReflectsMutation(t *testing.T) {
	p := testPathway()
	before := BuildIndex(p)
	require.Equal(t, 4, before.BySectionAndNumber["Quality Control"][1].GlobalNumber)

	// Insert a module into the first section and rebuild: everything after it
	// shifts by one.
	p.Sections[0].Modules = append(p.Sections[0].Modules, &Module{Title: "Hazard Communication"})
	after := BuildIndex(p)
	assert.Equal(t, 5, after.BySectionAndNumber["Quality Control"][1].GlobalNumber)
}

func TestFindByTitle(t *testing.T) {
	idx := BuildIndex(testPathway())

	exact := idx.FindByTitle("ppe requirements")
	require.Len(t, exact, 1)
	assert.Equal(t, "PPE Requirements", exact[0].Module.Title)

	// Substring matching is case-insensitive and can return several entries.
	procs := idx.FindByTitle("procedures")
	assert.Greater(t, len(procs), 1)

	assert.Empty(t, idx.FindByTitle("welding"))
}

func TestReferenceHelp(t *testing.T) {
	help := ReferenceHelp(testPathway())
	assert.Contains(t, help, "Safety Procedures (section 1):")
	assert.Contains(t, help, "Module 1.1: PPE Requirements")
	assert.Contains(t, help, "Module 3.4: Communication Protocols")

	assert.Contains(t, ReferenceHelp(nil), "No modules available yet.")
}

func TestMergeSources_AppendOnlyUnion(t *testing.T) {
	m := &Module{Sources: []string{"a.txt"}}
	m.MergeSources([]string{"b.txt", "a.txt", ""})
	assert.Equal(t, []string{"a.txt", "b.txt"}, m.Sources)
}

func TestSetPathwayAt(t *testing.T) {
	set := &Set{
		Current: &Pathway{Name: "Current"},
		Past:    []*Pathway{{Name: "Old 1"}, {Name: "Old 2"}},
	}

	assert.Equal(t, "Current", set.PathwayAt(1).Name)
	assert.Equal(t, "Old 1", set.PathwayAt(2).Name)
	assert.Equal(t, "Old 2", set.PathwayAt(3).Name)
	assert.Nil(t, set.PathwayAt(4))
	assert.Nil(t, set.PathwayAt(0))

	assert.Equal(t, "Current Pathway (pathway 1), Past Pathway 1 (pathway 2), Past Pathway 2 (pathway 3)",
		set.AvailablePathways())
}
