package plugin

import "sync"

// nameLock serializes operations per plugin name
type nameLock struct {
	locks map[string]*refMutex
	mu    sync.Mutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newNameLock() *nameLock {
	return &nameLock{locks: make(map[string]*refMutex)}
}

// Lock acquires the lock for name and returns its release func
func (l *nameLock) Lock(name string) func() {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &refMutex{}
		l.locks[name] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, name)
		}
		l.mu.Unlock()
	}
}
