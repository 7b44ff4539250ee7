// Package attempt throttles repeated failed attempts per identifier.
//
// A failure counts for one window. Reaching the limit inside a window blocks
// the identifier for a further full window starting at the moment the limit
// was detected, regardless of when the oldest failure happened.
package attempt

import (
	"context"
	"time"

	"bookstore-backoffice/internal/pkg/errs"
)

var ErrBlocked = errs.Mark(errs.New("too many failed attempts, try again later"), errs.ErrRateLimited)

// Policy bounds failures for one kind of attempt (login, registration, ...).
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

type Limiter interface {
	// Allow reports whether identifier may attempt again under policy.
	Allow(ctx context.Context, identifier string, policy Policy) (bool, error)
	// RecordFailure counts one failed attempt for identifier.
	RecordFailure(ctx context.Context, identifier string, policy Policy) error
}
