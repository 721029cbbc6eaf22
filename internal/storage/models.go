package storage

import (
	"encoding/json"
	"time"
)

// Entry is one key-value pair owned by a plugin namespace
type Entry struct {
	Namespace string          `db:"namespace" json:"namespace"`
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"-" json:"value"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Run records one plugin execution
type Run struct {
	ID         int64     `db:"id" json:"id"`
	Plugin     string    `db:"plugin" json:"plugin"`
	Action     string    `db:"action" json:"action"`
	Success    bool      `db:"success" json:"success"`
	Message    string    `db:"message" json:"message"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// Usage is the execution count of one plugin
type Usage struct {
	Plugin  string    `db:"plugin" json:"plugin"`
	Count   int       `db:"count" json:"count"`
	LastRun time.Time `db:"last_run" json:"last_run"`
}

// entryRow is the scanned form of Entry
type entryRow struct {
	Namespace string    `db:"namespace"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r entryRow) entry() Entry {
	return Entry{
		Namespace: r.Namespace,
		Key:       r.Key,
		Value:     json.RawMessage(r.Value),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
