// Package session holds the single-user session state: the current pathway
// set, modules chunked but not yet merged, and the chat transcript. The state
// is owned by one session at a time; only the merge engine mutates the
// hierarchy inside it.
package session

import (
	"time"

	"github.com/google/uuid"

	"pathcraft/internal/pathway"
)

// Message is one chat turn, kept so a CLI session reads back as a transcript.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// State is everything a session carries between instructions.
type State struct {
	ID         string            `json:"id"`
	Pathways   *pathway.Set      `json:"pathways"`
	Pending    []*pathway.Module `json:"pending"`
	Transcript []Message         `json:"transcript"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewState creates an empty session with a fresh identifier.
func NewState() *State {
	return &State{
		ID: uuid.NewString(),
		Pathways: &pathway.Set{
			Current: &pathway.Pathway{Name: "Training Pathway"},
		},
	}
}

// Record appends a chat turn to the transcript.
func (s *State) Record(role, content string) {
	s.Transcript = append(s.Transcript, Message{
		Role:    role,
		Content: content,
		At:      time.Now().UTC(),
	})
}

// TakePending hands over the staged modules and clears the staging area.
func (s *State) TakePending() []*pathway.Module {
	mods := s.Pending
	s.Pending = nil
	return mods
}
