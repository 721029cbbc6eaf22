package storage

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "otools.db"), 16, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyValueRoundTrip(t *testing.T) {
	s := newStorage(t)

	_, ok, err := s.GetValue("clock", "tz")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetValue("clock", "tz", json.RawMessage(`"UTC"`)))
	require.NoError(t, s.SetValue("clock", "tz", json.RawMessage(`{"zone":"Asia/Shanghai"}`)))
	require.NoError(t, s.SetValue("notes", "tz", json.RawMessage(`1`)))

	v, ok, err := s.GetValue("clock", "tz")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"zone":"Asia/Shanghai"}`, string(v))

	entries, err := s.Entries("clock")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tz", entries[0].Key)

	deleted, err := s.DeleteValue("clock", "tz")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteValue("clock", "tz")
	require.NoError(t, err)
	assert.False(t, deleted)

	v, ok, err = s.GetValue("notes", "tz")
	require.NoError(t, err)
	require.True(t, ok, "namespaces are isolated")
	assert.Equal(t, "1", string(v))
}

func TestSetValueRejectsInvalidJSON(t *testing.T) {
	s := newStorage(t)
	assert.Error(t, s.SetValue("clock", "k", json.RawMessage(`{oops`)))
}

func TestDeleteNamespace(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, s.SetValue("clock", "a", json.RawMessage(`1`)))
	require.NoError(t, s.SetValue("clock", "b", json.RawMessage(`2`)))

	require.NoError(t, s.DeleteNamespace("clock"))
	entries, err := s.Entries("clock")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunsAreBufferedAndCounted(t *testing.T) {
	s := newStorage(t)
	base := time.Now().Add(-time.Minute)

	require.NoError(t, s.RecordRun(Run{Plugin: "clock", Action: "default", Success: true, Timestamp: base}))
	require.NoError(t, s.RecordRun(Run{Plugin: "clock", Action: "default", Success: true, Timestamp: base.Add(time.Second)}))
	require.NoError(t, s.RecordRun(Run{Plugin: "notes", Action: "open", Success: true, Timestamp: base.Add(2 * time.Second)}))
	require.NoError(t, s.RecordRun(Run{Plugin: "notes", Action: "open", Success: false, Message: "boom"}))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs, "runs stay buffered until flushed")

	s.Flush()
	runs, err = s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, "boom", runs[0].Message)

	usage, err := s.UsageCounts()
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "clock", usage[0].Plugin)
	assert.Equal(t, 2, usage[0].Count)
	assert.Equal(t, 1, usage[1].Count)
}

func TestCloseFlushesAndRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otools.db")
	s, err := NewStorage(path, 16, time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.RecordRun(Run{Plugin: "clock", Success: true}))
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.RecordRun(Run{Plugin: "clock"}), ErrClosed)
	require.NoError(t, s.Close())

	reopened, err := NewStorage(path, 16, time.Hour)
	require.NoError(t, err)
	defer reopened.Close()
	runs, err := reopened.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, Migrate(s.db))
}
