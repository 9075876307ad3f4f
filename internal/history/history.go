// Package history records code execution outcomes in Postgres for audit.
// The store is optional: a nil *Store is a valid no-op.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS execution_history (
	id           SERIAL PRIMARY KEY,
	room_id      TEXT NOT NULL,
	language     TEXT NOT NULL,
	ok           BOOLEAN NOT NULL,
	result_bytes INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store appends execution outcomes to Postgres.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the history table exists.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	log.Println("[History] PostgreSQL connection established")
	return &Store{db: db}, nil
}

// Record appends one execution outcome. Failures are logged and swallowed;
// history must never surface errors to the room.
func (s *Store) Record(ctx context.Context, roomID, language string, ok bool, resultBytes int) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO execution_history (room_id, language, ok, result_bytes) VALUES ($1, $2, $3, $4)`,
		roomID, language, ok, resultBytes)
	if err != nil {
		log.Printf("[History] Failed to record execution for room %s: %v", roomID, err)
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
