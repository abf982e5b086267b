package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/blackcheck/black-check-api/internal/adapter"
)

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Lookups go upstream
	StateOpen                  // Lookups are short-circuited
	StateHalfOpen              // One trial lookup decides whether to close again
)

// Breaker counts consecutive not-found results. Once Threshold of them happen
// with no gap longer than Cooldown, it opens for Cooldown.
type Breaker struct {
	mu            sync.Mutex
	clock         adapter.Clock
	state         State
	notFoundCount int
	threshold     int
	cooldown      time.Duration
	lastNotFound  time.Time
	openedAt      time.Time
	trialInFlight bool
	trialStarted  time.Time
	onStateChange func(from, to State)
}

// Config configures a circuit breaker.
type Config struct {
	Threshold     int           // consecutive not-found results before opening (default: 10)
	Cooldown      time.Duration // counting window and open duration (default: 1m)
	OnStateChange func(from, to State)
}

func New(cfg Config, clock adapter.Clock) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 10
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	if clock == nil {
		clock = adapter.NewClock()
	}
	return &Breaker{
		clock:         clock,
		state:         StateClosed,
		threshold:     cfg.Threshold,
		cooldown:      cfg.Cooldown,
		onStateChange: cfg.OnStateChange,
	}
}

// Allow returns ErrCircuitOpen while the breaker is open. In half-open only one
// caller at a time is let through; the others are rejected until that trial
// reports back or a cooldown passes without a report.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expire()
	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.trialInFlight && b.clock.Since(b.trialStarted) < b.cooldown {
			return ErrCircuitOpen
		}
		b.trialInFlight = true
		b.trialStarted = b.clock.Now()
	}
	return nil
}

// RecordInconclusive releases the half-open trial without changing state.
// Used when the upstream failed and the result says nothing about the token.
func (b *Breaker) RecordInconclusive() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialInFlight = false
}

// RecordFound resets the not-found streak.
func (b *Breaker) RecordFound() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notFoundCount = 0
	b.trialInFlight = false
	if b.state == StateHalfOpen {
		b.setState(StateClosed)
	}
}

// RecordNotFound extends the not-found streak and opens the breaker at the threshold.
func (b *Breaker) RecordNotFound() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	if !b.lastNotFound.IsZero() && now.Sub(b.lastNotFound) > b.cooldown {
		b.notFoundCount = 0
	}
	b.notFoundCount++
	b.lastNotFound = now
	b.trialInFlight = false

	switch b.state {
	case StateHalfOpen:
		b.open(now)
	case StateClosed:
		if b.notFoundCount >= b.threshold {
			b.open(now)
		}
	}
}

// GetState returns the current state.
func (b *Breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expire()
	return b.state
}

// Reset closes the breaker and clears the streak.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notFoundCount = 0
	b.lastNotFound = time.Time{}
	b.trialInFlight = false
	b.setState(StateClosed)
}

func (b *Breaker) open(now time.Time) {
	b.openedAt = now
	b.setState(StateOpen)
}

func (b *Breaker) expire() {
	if b.state == StateOpen && b.clock.Since(b.openedAt) >= b.cooldown {
		b.setState(StateHalfOpen)
	}
}

func (b *Breaker) setState(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to == StateClosed {
		b.notFoundCount = 0
	}
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
