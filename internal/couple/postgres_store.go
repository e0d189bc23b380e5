package couple

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the couple document as a single jsonb row. The
// row lock taken by SELECT ... FOR UPDATE serializes concurrent mutations
// across processes, which the file store's mutex cannot.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed store and ensures its schema.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	const schema = `CREATE TABLE IF NOT EXISTS couple_state (
        id smallint PRIMARY KEY CHECK (id = 1),
        doc jsonb NOT NULL
    )`
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure couple_state schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Load returns the current document; a missing row is a fresh empty state.
func (s *PostgresStore) Load(ctx context.Context) (State, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT doc FROM couple_state WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	return decodeState(doc)
}

// Update applies one mutation inside a transaction holding the row lock.
func (s *PostgresStore) Update(ctx context.Context, apply func(*State) error) (State, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return State{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Seed the singleton row so FOR UPDATE always has something to lock.
	if _, err := tx.Exec(ctx, `INSERT INTO couple_state (id, doc) VALUES (1, '{}'::jsonb)
        ON CONFLICT (id) DO NOTHING`); err != nil {
		return State{}, err
	}

	var doc []byte
	if err := tx.QueryRow(ctx, `SELECT doc FROM couple_state WHERE id = 1 FOR UPDATE`).Scan(&doc); err != nil {
		return State{}, err
	}

	state, err := decodeState(doc)
	if err != nil {
		return State{}, err
	}
	if err := apply(&state); err != nil {
		return State{}, err
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return State{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE couple_state SET doc = $1 WHERE id = 1`, encoded); err != nil {
		return State{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return State{}, err
	}
	return state, nil
}

func decodeState(doc []byte) (State, error) {
	if len(doc) == 0 {
		return State{}, nil
	}
	var state State
	if err := json.Unmarshal(doc, &state); err != nil {
		return State{}, fmt.Errorf("decode couple document: %w", err)
	}
	return state, nil
}
