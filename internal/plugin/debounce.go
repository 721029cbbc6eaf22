package plugin

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers per key and flushes each key once
// after it has been quiet for the configured delay
type Debouncer struct {
	delay   time.Duration
	flush   func(key string)
	pending map[string]*debounceEntry
	stopped bool
	mu      sync.Mutex
}

type debounceEntry struct {
	timer *time.Timer
}

// NewDebouncer creates a debouncer that calls flush on its own goroutine
func NewDebouncer(delay time.Duration, flush func(key string)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		flush:   flush,
		pending: make(map[string]*debounceEntry),
	}
}

// Trigger records activity for key and restarts its quiet interval
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	entry := &debounceEntry{}
	entry.timer = time.AfterFunc(d.delay, func() { d.fire(key, entry) })
	d.pending[key] = entry
}

func (d *Debouncer) fire(key string, entry *debounceEntry) {
	d.mu.Lock()
	// A timer that lost the race with a newer Trigger is stale
	if d.stopped || d.pending[key] != entry {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	d.flush(key)
}

// Pending returns the number of keys waiting to flush
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all pending flushes
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, entry := range d.pending {
		entry.timer.Stop()
		delete(d.pending, key)
	}
}
