package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// Defaults for the admission window.
const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Minute
)

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed bool
	// Remaining is the number of admissions left in the current window.
	Remaining int
	// RetryAfter is how long until the window resets. Only meaningful on
	// denial.
	RetryAfter time.Duration
}

// RetryAfterMinutes returns the denial hint as whole minutes, rounded up
// with a floor of one minute, for user-facing messaging.
func (d Decision) RetryAfterMinutes() int {
	if d.Allowed {
		return 0
	}
	minutes := int((d.RetryAfter + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// record tracks one identity's consumption of the current window.
type record struct {
	count         int
	windowResetAt time.Time
}

// Limiter admits requests per identity within a rolling window. It is safe
// for concurrent use; admissions for one identity are evaluated atomically.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	records map[string]*record
}

// Option configures a Limiter.
type Option func(*Limiter) error

// WithLimit overrides the default per-window admission limit.
func WithLimit(limit int) Option {
	return func(l *Limiter) error {
		if limit < 1 {
			limit = DefaultLimit
		}
		l.limit = limit
		return nil
	}
}

// WithWindow overrides the default window duration.
func WithWindow(window time.Duration) Option {
	return func(l *Limiter) error {
		if window <= 0 {
			window = DefaultWindow
		}
		l.window = window
		return nil
	}
}

// WithClock injects the time source, used by tests to step through windows.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) error {
		if now == nil {
			now = time.Now
		}
		l.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLimiter creates a limiter with the default limit and window.
func NewLimiter(opts ...Option) (*Limiter, error) {
	l := &Limiter{
		limit:   DefaultLimit,
		window:  DefaultWindow,
		now:     time.Now,
		logger:  slog.Default(),
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Admit evaluates one request for the identity and mutates its record in
// the same critical section. A fresh or expired window starts counting at
// this request; a denial leaves the count at the limit and reports when the
// window resets.
func (l *Limiter) Admit(identity string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[identity]
	if !ok || !now.Before(rec.windowResetAt) {
		// Fresh identity, or the previous window has elapsed: reset.
		rec = &record{windowResetAt: now.Add(l.window)}
		l.records[identity] = rec
	}

	if rec.count >= l.limit {
		retryAfter := rec.windowResetAt.Sub(now)
		l.logger.Debug("request denied by rate limit",
			"count", rec.count, "retryAfter", retryAfter)
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	rec.count++
	return Decision{Allowed: true, Remaining: l.limit - rec.count}
}
