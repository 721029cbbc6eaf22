package plugin

import (
	"sync"
	"time"
)

// Status tells whether a live context has a call in flight
type Status string

const (
	StatusIdle Status = "idle"
	StatusBusy Status = "busy"
)

// Process is one live plugin window owned by the Manager
type Process struct {
	name      string
	meta      Manifest
	window    Window
	state     WindowState
	inFlight  int
	createdAt time.Time
	mu        sync.Mutex
}

func newProcess(rec *Record) *Process {
	return &Process{name: rec.Name, meta: rec.Manifest, state: StateAbsent}
}

// Name returns the plugin name
func (p *Process) Name() string {
	return p.name
}

// Meta returns the manifest snapshot the window was created from
func (p *Process) Meta() Manifest {
	return p.meta
}

// Window returns the window handle
func (p *Process) Window() Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// CreatedAt returns when the window finished loading
func (p *Process) CreatedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createdAt
}

// State returns the lifecycle state
func (p *Process) State() WindowState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Status returns busy while any call is in flight
func (p *Process) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight > 0 {
		return StatusBusy
	}
	return StatusIdle
}

// Visible reports whether the window is shown
func (p *Process) Visible() bool {
	return p.State() == StateVisible
}

// Destroyed reports whether the window is gone
func (p *Process) Destroyed() bool {
	return p.State() == StateDestroyed
}

// apply runs a lifecycle transition and returns the previous state
func (p *Process) apply(t Transition) (WindowState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.state
	next, err := Next(prev, t, p.meta.StartupMode)
	if err != nil {
		return prev, err
	}
	p.state = next
	return prev, nil
}

// attach binds the loaded window and marks the context busy for its creator
func (p *Process) attach(w Window) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := Next(p.state, TransitionCreate, p.meta.StartupMode)
	if err != nil {
		return ErrWindowClosed
	}
	p.state = next
	p.window = w
	p.createdAt = time.Now()
	p.inFlight = 1
	return nil
}

func (p *Process) acquire() {
	p.mu.Lock()
	p.inFlight++
	p.mu.Unlock()
}

func (p *Process) release() {
	p.mu.Lock()
	if p.inFlight > 0 {
		p.inFlight--
	}
	p.mu.Unlock()
}
