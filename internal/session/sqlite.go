package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pathcraft/internal/pathway"
)

// Store persists session state in a local SQLite database so a CLI session
// survives between invocations. This is a convenience snapshot, not a
// durability contract.
type Store struct {
	db *sql.DB
}

// NewStore creates or opens the session database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			state JSON,
			updated_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts the session state as a JSON blob keyed by session id.
func (s *Store) Save(ctx context.Context, state *State) error {
	state.UpdatedAt = time.Now().UTC()
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state=excluded.state,
			updated_at=excluded.updated_at
	`, state.ID, blob, state.UpdatedAt.Format(time.RFC3339))
	return err
}

// Load retrieves a session by id.
func (s *Store) Load(ctx context.Context, id string) (*State, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&blob)
	if err != nil {
		return nil, err
	}
	return decodeState(blob)
}

// LoadLatest retrieves the most recently saved session, or a fresh one when
// the database is empty.
func (s *Store) LoadLatest(ctx context.Context) (*State, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM sessions ORDER BY updated_at DESC LIMIT 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return NewState(), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState(blob)
}

func decodeState(blob []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	if state.Pathways == nil {
		state.Pathways = &pathway.Set{}
	}
	state.Pathways.Normalize()
	return &state, nil
}
