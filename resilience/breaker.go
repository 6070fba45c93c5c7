package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrOpen is returned while the breaker is refusing calls.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrProbeLimit is returned when the half-open probe budget is spent.
	ErrProbeLimit = errors.New("circuit breaker probe limit reached")
)

// State is the breaker's admission mode.
type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Counts holds call statistics for the current window or probe phase.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Settings tunes a Breaker.
type Settings struct {
	// Probes is the number of trial calls admitted while half-open.
	Probes uint32
	// Window is how long closed-state counts accumulate before resetting.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
	// Trip decides, after a failure in the closed state, whether to open.
	Trip func(Counts) bool
	// OnChange observes state transitions.
	OnChange func(name string, from, to State)
}

// Breaker fails fast against a collaborator that has been failing, then
// probes for recovery after a cooldown.
type Breaker struct {
	name string
	cfg  Settings

	mu     sync.Mutex
	state  State
	counts Counts
	expiry time.Time
}

// New creates a breaker. Zero settings get conservative defaults.
func New(name string, cfg Settings) *Breaker {
	if cfg.Probes == 0 {
		cfg.Probes = 1
	}
	if cfg.Window == 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.Trip == nil {
		cfg.Trip = func(c Counts) bool {
			return c.ConsecutiveFailures > 5
		}
	}
	return &Breaker{
		name:   name,
		cfg:    cfg,
		state:  Closed,
		expiry: time.Now().Add(cfg.Window),
	}
}

func (b *Breaker) Name() string {
	return b.name
}

// State reports the current admission mode, advancing open to half-open
// when the cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, _ := b.current(time.Now())
	return state
}

// Counts returns a snapshot of the call statistics.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counts
}

// Do runs fn if the breaker admits the call and records its outcome.
// A refused call returns ErrOpen or ErrProbeLimit without running fn.
func (b *Breaker) Do(fn func() error) error {
	gen, err := b.admit()
	if err != nil {
		return err
	}
	err = fn()
	b.settle(gen, err == nil)
	return err
}

// admit decides whether a call may proceed, returning the generation the
// decision was made in.
func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, gen := b.current(now)

	if state == Open {
		return gen, ErrOpen
	}
	if state == HalfOpen && b.counts.Requests >= b.cfg.Probes {
		return gen, ErrProbeLimit
	}
	b.counts.Requests++
	return gen, nil
}

// settle records a call outcome, ignoring it if the breaker has moved to a
// new generation since the call was admitted.
func (b *Breaker) settle(gen uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, current := b.current(now)
	if current != gen {
		return
	}
	if ok {
		b.onSuccess(state, now)
	} else {
		b.onFailure(state, now)
	}
}

func (b *Breaker) onSuccess(state State, now time.Time) {
	switch state {
	case Closed:
		b.counts.TotalSuccesses++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
	case HalfOpen:
		b.counts.TotalSuccesses++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if b.counts.ConsecutiveSuccesses >= b.cfg.Probes {
			b.transition(Closed, now)
		}
	}
}

func (b *Breaker) onFailure(state State, now time.Time) {
	switch state {
	case Closed:
		b.counts.TotalFailures++
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if b.cfg.Trip(b.counts) {
			b.transition(Open, now)
		}
	case HalfOpen:
		b.transition(Open, now)
	}
}

// current advances time-based transitions and returns the state plus a
// generation token derived from the phase expiry.
func (b *Breaker) current(now time.Time) (State, uint64) {
	switch b.state {
	case Closed:
		if !b.expiry.IsZero() && b.expiry.Before(now) {
			b.counts = Counts{}
			b.expiry = now.Add(b.cfg.Window)
		}
	case Open:
		if b.expiry.Before(now) {
			b.transition(HalfOpen, now)
		}
	}
	return b.state, uint64(b.expiry.UnixNano())
}

func (b *Breaker) transition(state State, now time.Time) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.counts = Counts{}

	switch state {
	case Closed:
		b.expiry = now.Add(b.cfg.Window)
	case Open:
		b.expiry = now.Add(b.cfg.Cooldown)
	case HalfOpen:
		b.expiry = time.Time{}
	}

	if b.cfg.OnChange != nil {
		b.cfg.OnChange(b.name, prev, state)
	}
}
