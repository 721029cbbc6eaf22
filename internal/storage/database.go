package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ilikebug/oTools/internal/logger"
)

// ErrClosed is returned for writes after Close
var ErrClosed = errors.New("storage is closed")

// Storage handles database operations
type Storage struct {
	db            *sqlx.DB
	writeBuffer   chan Run
	bufferSize    int
	flushInterval time.Duration
	mu            sync.RWMutex
	stopCh        chan struct{}
	wg            sync.WaitGroup
	closed        bool
	closedMu      sync.RWMutex
}

// NewStorage creates a new storage instance. Plugin runs are buffered and
// written in batches every flushInterval.
func NewStorage(dbPath string, bufferSize int, flushInterval time.Duration) (*Storage, error) {
	// Enable WAL mode for better concurrent writes
	db, err := sqlx.Connect("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection in WAL mode
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	s := &Storage{
		db:            db,
		writeBuffer:   make(chan Run, bufferSize),
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
	}

	s.wg.Add(1)
	go s.flushLoop()

	return s, nil
}

// Close flushes buffered runs and closes the database
func (s *Storage) Close() error {
	s.closedMu.Lock()
	if s.closed {
		s.closedMu.Unlock()
		return nil
	}
	s.closed = true
	s.closedMu.Unlock()

	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		logger.Log.Debug().Msg("flushLoop still running after 500ms, proceeding with database close")
	}

	return s.db.Close()
}

func (s *Storage) isClosed() bool {
	s.closedMu.RLock()
	defer s.closedMu.RUnlock()
	return s.closed
}

// flushLoop periodically flushes the write buffer
func (s *Storage) flushLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			s.flushBuffer()
			return
		case <-ticker.C:
			s.flushBuffer()
		}
	}
}

// flushBuffer writes all buffered runs in one batch
func (s *Storage) flushBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := make([]Run, 0, s.bufferSize)
drain:
	for {
		select {
		case run := <-s.writeBuffer:
			runs = append(runs, run)
		default:
			break drain
		}
	}
	if len(runs) == 0 {
		return
	}

	query := `INSERT INTO plugin_runs (plugin, action, success, message, duration_ms, timestamp)
	          VALUES (:plugin, :action, :success, :message, :duration_ms, :timestamp)`
	if _, err := s.db.NamedExec(query, runs); err != nil {
		logger.Log.Error().Err(err).Int("count", len(runs)).Msg("Error flushing plugin runs")
	}
}

// RecordRun queues a plugin run for batch insertion
func (s *Storage) RecordRun(run Run) error {
	if s.isClosed() {
		return ErrClosed
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	select {
	case s.writeBuffer <- run:
		return nil
	default:
		// Buffer full, write directly
		return s.RecordRunSync(run)
	}
}

// RecordRunSync writes a plugin run immediately
func (s *Storage) RecordRunSync(run Run) error {
	if s.isClosed() {
		return ErrClosed
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.NamedExec(
		`INSERT INTO plugin_runs (plugin, action, success, message, duration_ms, timestamp)
		 VALUES (:plugin, :action, :success, :message, :duration_ms, :timestamp)`, run)
	if err != nil {
		return fmt.Errorf("failed to record plugin run: %w", err)
	}
	return nil
}

// Flush writes buffered runs now
func (s *Storage) Flush() {
	if !s.isClosed() {
		s.flushBuffer()
	}
}

// RecentRuns returns the latest runs, newest first
func (s *Storage) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.Select(&runs,
		`SELECT id, plugin, action, success, message, duration_ms, timestamp
		 FROM plugin_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	return runs, nil
}

// UsageCounts returns per-plugin execution counts, most used first
func (s *Storage) UsageCounts() ([]Usage, error) {
	rows, err := s.db.Query(
		`SELECT plugin, COUNT(*), MAX(timestamp) FROM plugin_runs
		 WHERE success = 1 GROUP BY plugin ORDER BY COUNT(*) DESC, plugin ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage counts: %w", err)
	}
	defer rows.Close()

	var usage []Usage
	for rows.Next() {
		var u Usage
		var last sql.NullString
		if err := rows.Scan(&u.Plugin, &u.Count, &last); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		if last.Valid {
			u.LastRun = parseTimestamp(last.String)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// parseTimestamp reads the text form the sqlite driver stores for time.Time
func parseTimestamp(v string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetValue returns the value stored under namespace/key
func (s *Storage) GetValue(namespace, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM kv_entries WHERE namespace = ? AND key = ?", namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get value: %w", err)
	}
	return json.RawMessage(value), true, nil
}

// SetValue stores a JSON value under namespace/key
func (s *Storage) SetValue(namespace, key string, value json.RawMessage) error {
	if s.isClosed() {
		return ErrClosed
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	_, err := s.db.Exec(
		`INSERT INTO kv_entries (namespace, key, value, created_at, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		namespace, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// DeleteValue removes namespace/key, reporting whether it existed
func (s *Storage) DeleteValue(namespace, key string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM kv_entries WHERE namespace = ? AND key = ?", namespace, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete value: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Entries returns every entry of a namespace ordered by key
func (s *Storage) Entries(namespace string) ([]Entry, error) {
	var rows []entryRow
	err := s.db.Select(&rows,
		"SELECT namespace, key, value, created_at, updated_at FROM kv_entries WHERE namespace = ? ORDER BY key", namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// DeleteNamespace removes every entry of a namespace
func (s *Storage) DeleteNamespace(namespace string) error {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("failed to delete namespace: %w", err)
	}
	return nil
}
