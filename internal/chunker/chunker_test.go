package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcriptSample = `1:03:04 - Mike Wright: So this part gets thrown away first. The filter inspection must be logged in the maintenance system every single day. Replacement cartridges are stored in the supply room next to the loading dock.

Sarah: Quality checks happen at the end of every production run without exception. Operators record the batch number and the inspection result on the daily sheet.`

func TestClean_StripsTranscriptMarkers(t *testing.T) {
	cleaned := Clean(transcriptSample)
	assert.NotContains(t, cleaned, "Mike Wright")
	assert.NotContains(t, cleaned, "Sarah:")
	assert.NotContains(t, cleaned, "1:03:04")
	assert.Contains(t, cleaned, "The filter inspection must be logged")
}

func TestClean_IsAFixedPoint(t *testing.T) {
	inputs := []string{
		transcriptSample,
		"you know, I think we should basically check your gauges before my shift ends today.",
		"The torque wrench calibration is verified monthly by the maintenance team.",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input: %q", in)
	}
}

func TestClean_RemovesFillerWords(t *testing.T) {
	cleaned := Clean("You know, the conveyor belt speed must basically stay below the posted limit at all times.")
	assert.Equal(t, "The conveyor belt speed must stay below the posted limit at all times.", cleaned)
}

func TestClean_DropsLowInformationSentences(t *testing.T) {
	// Opener-led sentences and short fragments disappear; real content stays.
	cleaned := Clean("So that covers the morning part. Yeah. The pressure gauge reading is recorded before every startup.")
	assert.Equal(t, "The pressure gauge reading is recorded before every startup.", cleaned)
}

func TestClean_NormalizesPronouns(t *testing.T) {
	cleaned := Clean("you must wear the assigned protective equipment at all times inside the production area.")
	assert.Equal(t, "Operators must wear the assigned protective equipment at all times inside the production area.", cleaned)

	cleaned = Clean("I verify the calibration records before approving the finished batch.")
	assert.Equal(t, "Personnel verify the calibration records before approving the finished batch.", cleaned)
}

func TestCleanSentences_Limit(t *testing.T) {
	text := "Machine guards must remain in place while the equipment is running. Emergency stop buttons are tested at the start of every shift. Forklift checks are documented before every single use of the truck."
	assert.Len(t, CleanSentences(text, 2), 2)
	assert.Len(t, CleanSentences(text, 0), 3)
}

func TestChunk_ParagraphsBecomeModules(t *testing.T) {
	raw := `The filter inspection must be logged in the maintenance system every single day. Replacement cartridges are stored in the supply room next to the loading dock.

Quality checks happen at the end of every production run without exception. Inspectors record the batch number and the result on the daily sheet.`

	mods := Chunk("shift_notes.txt", raw, TrainingContext{})
	require.Len(t, mods, 2)

	assert.Equal(t, "Module 1: shift notes", mods[0].Title)
	assert.Equal(t, "Module 2: shift notes", mods[1].Title)
	assert.Equal(t, "Training content from shift_notes.txt", mods[0].Description)
	assert.Equal(t, []string{"shift_notes.txt"}, mods[0].Sources)
	assert.Equal(t, []string{"text"}, mods[0].ContentTypes)
	assert.NotEmpty(t, mods[0].ID)
	assert.NotEqual(t, mods[0].ID, mods[1].ID)

	assert.Contains(t, mods[0].Content, "The filter inspection must be logged")
	assert.Contains(t, mods[1].Content, "Quality checks happen")
	assert.NotContains(t, mods[0].Content, "Quality checks")
}

func TestChunk_ContentTemplate(t *testing.T) {
	raw := `The filter inspection must be logged in the maintenance system every single day. Replacement cartridges are stored in the supply room next to the loading dock.`

	tc := TrainingContext{TrainingType: "Safety Training", TargetAudience: "new hires", Industry: "food processing"}
	mods := Chunk("induction.md", raw, tc)
	require.Len(t, mods, 1)

	content := mods[0].Content
	assert.True(t, strings.HasPrefix(content, "Training Type: Safety Training\n"))
	assert.Contains(t, content, "Target Audience: new hires")
	assert.Contains(t, content, "Industry: food processing")
	assert.Contains(t, content, "Implementation Guidelines:")
	assert.Contains(t, content, "Assessment Criteria:")
}

func TestChunk_DefaultsFillEmptyContext(t *testing.T) {
	raw := `The filter inspection must be logged in the maintenance system every single day. Replacement cartridges are stored in the supply room next to the loading dock.`

	mods := Chunk("notes.txt", raw, TrainingContext{})
	require.Len(t, mods, 1)
	assert.Contains(t, mods[0].Content, "Training Type: Process Training")
	assert.Contains(t, mods[0].Content, "Target Audience: operators")
	assert.Contains(t, mods[0].Content, "Industry: manufacturing")
}

func TestChunk_DegenerateInput(t *testing.T) {
	assert.Nil(t, Chunk("empty.txt", "", TrainingContext{}))
	assert.Nil(t, Chunk("short.txt", "Too short to matter.", TrainingContext{}))
	assert.Nil(t, Chunk("spaces.txt", strings.Repeat(" \n", 60), TrainingContext{}))
}

func TestChunk_FallbackGroupsSentences(t *testing.T) {
	// Every paragraph is a single short sentence, so the blank-line strategy
	// finds nothing and the sentences are regrouped instead.
	raw := `Machine guards must remain in place while the equipment is running.

Emergency stop buttons are tested at the start of every shift.

Forklift operators complete a documented walkaround before use.

Spill kits are inspected weekly and restocked after every use.

Hearing protection is required in all marked high noise zones.

Hot work permits are issued only by the shift supervisor on duty.`

	mods := Chunk("toolbox-talk.txt", raw, TrainingContext{})
	require.NotEmpty(t, mods)
	assert.LessOrEqual(t, len(mods), maxFallbackModules)
	assert.Equal(t, "Module 1: toolbox talk", mods[0].Title)

	var seen []string
	for _, m := range mods {
		seen = append(seen, m.Content)
		assert.LessOrEqual(t, len(m.KeyPoints), maxKeyPoints)
	}
	joined := strings.Join(seen, "\n")
	assert.Contains(t, joined, "Machine guards must remain in place")
	assert.Contains(t, joined, "Hot work permits are issued")
}

func TestChunk_SentenceBudgetIsShared(t *testing.T) {
	sentence := "The packaging line settings are confirmed against the work order before each run begins."
	var sb strings.Builder
	for i := 0; i < 3; i++ {
		for j := 0; j < 10; j++ {
			sb.WriteString(sentence)
			sb.WriteString(" ")
		}
		sb.WriteString("\n\n")
	}

	mods := Chunk("long.txt", sb.String(), TrainingContext{})
	total := 0
	for _, m := range mods {
		total += strings.Count(m.Content, sentence)
	}
	assert.LessOrEqual(t, total, maxSentences)
	assert.LessOrEqual(t, len(mods), 2)
}

func TestContextFallback(t *testing.T) {
	m := ContextFallback(TrainingContext{})
	assert.Equal(t, "Module 1: Process Training Overview", m.Title)
	assert.Contains(t, m.Content, "Process Training is a core component of operations in manufacturing.")
	assert.Contains(t, m.Content, "Learning Objectives:")
	assert.NotEmpty(t, m.ID)

	m = ContextFallback(TrainingContext{TrainingType: "Quality Training", TargetAudience: "inspectors"})
	assert.Equal(t, "Module 1: Quality Training Overview", m.Title)
	assert.Contains(t, m.Description, "inspectors")
}
