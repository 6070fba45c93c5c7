package locks

import (
	"context"
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

// Manager hands out one mutual-exclusion guard per logical path key. Locks
// are created on first touch and never removed; the table grows with the
// number of distinct keys touched over the manager's lifetime.
type Manager struct {
	master sync.Mutex
	locks  map[string]chan struct{}
}

// Guard represents a held lock. Release is idempotent.
type Guard struct {
	ch       chan struct{}
	released bool
	mu       sync.Mutex
}

// Release returns the lock. Safe to call more than once.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return
	}
	g.released = true
	<-g.ch
}

// New creates an empty lock manager.
func New() *Manager {
	return &Manager{locks: make(map[string]chan struct{})}
}

func (m *Manager) lockFor(key string) chan struct{} {
	m.master.Lock()
	defer m.master.Unlock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

// Acquire blocks until the key's lock is held or ctx is done. There is no
// acquisition timeout beyond the context; a holder that never releases
// starves all later callers on the key.
func (m *Manager) Acquire(ctx context.Context, key string) (*Guard, error) {
	ch := m.lockFor(key)
	select {
	case ch <- struct{}{}:
		return &Guard{ch: ch}, nil
	case <-ctx.Done():
		return nil, fserr.NewLock("lock acquisition canceled: "+ctx.Err().Error(), key)
	}
}

// AcquireTwo takes both keys' locks in lexicographic order so concurrent
// two-path operations referencing the same pair in opposite order cannot
// deadlock. Equal keys are acquired once.
func (m *Manager) AcquireTwo(ctx context.Context, a, b string) (*Guard, *Guard, error) {
	if a == b {
		g, err := m.Acquire(ctx, a)
		return g, nil, err
	}
	keys := []string{a, b}
	sort.Strings(keys)
	first, err := m.Acquire(ctx, keys[0])
	if err != nil {
		return nil, nil, err
	}
	second, err := m.Acquire(ctx, keys[1])
	if err != nil {
		first.Release()
		return nil, nil, err
	}
	return first, second, nil
}

// Len reports the number of distinct keys ever locked.
func (m *Manager) Len() int {
	m.master.Lock()
	defer m.master.Unlock()
	return len(m.locks)
}
