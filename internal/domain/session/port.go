package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Store owns session state. Put is a whole-value replace.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	// Touch creates an empty session stamped with now when id is unknown.
	Touch(ctx context.Context, id string, now time.Time) error
	// Sweep stamps sessions missing a timestamp and removes those older than maxAge.
	Sweep(ctx context.Context, now time.Time, maxAge time.Duration) ([]string, error)
}
