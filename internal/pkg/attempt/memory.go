package attempt

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/errs"
)

type entry struct {
	failures     []time.Time
	blockedUntil time.Time
}

// MemoryLimiter keeps state for at most capacity identifiers; the least
// recently touched identifier is evicted first. State is local to the process.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *entry]
	clock   clock.Clock
}

func NewMemoryLimiter(capacity int, clk clock.Clock) (*MemoryLimiter, error) {
	cache, err := lru.New[string, *entry](capacity)
	if err != nil {
		return nil, errs.Wrap(err, "create attempt cache")
	}
	return &MemoryLimiter{entries: cache, clock: clk}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, identifier string, policy Policy) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.Get(identifier)
	if !ok {
		return true, nil
	}

	now := l.clock.Now()
	if now.Before(e.blockedUntil) {
		return false, nil
	}
	e.blockedUntil = time.Time{}

	e.failures = pruneBefore(e.failures, now.Add(-policy.Window))
	if len(e.failures) >= policy.MaxAttempts {
		e.blockedUntil = now.Add(policy.Window)
		return false, nil
	}
	if len(e.failures) == 0 {
		l.entries.Remove(identifier)
	}
	return true, nil
}

func (l *MemoryLimiter) RecordFailure(_ context.Context, identifier string, policy Policy) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	e, ok := l.entries.Get(identifier)
	if !ok {
		e = &entry{}
		l.entries.Add(identifier, e)
	}
	e.failures = append(pruneBefore(e.failures, now.Add(-policy.Window)), now)
	return nil
}

// Len is the number of identifiers currently tracked.
func (l *MemoryLimiter) Len() int {
	return l.entries.Len()
}

// failures are appended in clock order, so the kept part is a suffix.
func pruneBefore(failures []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(failures) && !failures[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return failures
	}
	return append(failures[:0], failures[i:]...)
}
