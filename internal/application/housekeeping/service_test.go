package housekeeping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/ux-critique/internal/domain/session"
	"github.com/bryanwahyu/ux-critique/internal/infra/sessionstore"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeSweeper struct {
	removed int
	err     error
	maxAge  time.Duration
}

func (f *fakeSweeper) CleanupOlderThan(_ time.Time, maxAge time.Duration) (int, error) {
	f.maxAge = maxAge
	return f.removed, f.err
}

type fakePruner struct{ calls int }

func (f *fakePruner) Prune(time.Time, time.Duration) int {
	f.calls++
	return 0
}

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestCleanupOldSessions_RetentionBoundary(t *testing.T) {
	ctx := context.Background()
	store := sessionstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, &session.Session{ID: "old", CreatedAt: now.Add(-3601 * time.Second)}))
	require.NoError(t, store.Put(ctx, &session.Session{ID: "young", CreatedAt: now.Add(-3599 * time.Second)}))
	pruner := &fakePruner{}

	svc := &Service{Sessions: store, Tasks: pruner, Clock: fakeClock{now}, Logger: zaptest.NewLogger(t)}

	assert.Equal(t, 1, svc.CleanupOldSessions(ctx))
	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "young")
	assert.NoError(t, err)
	assert.Equal(t, 1, pruner.calls)

	assert.Zero(t, svc.CleanupOldSessions(ctx))
}

func TestCleanupOldFiles(t *testing.T) {
	sweeper := &fakeSweeper{removed: 2}
	svc := &Service{Uploads: sweeper, Clock: fakeClock{now}, Logger: zaptest.NewLogger(t)}

	assert.Equal(t, 2, svc.CleanupOldFiles(context.Background()))
	assert.Equal(t, DefaultRetention, sweeper.maxAge)
}

func TestCleanupOldFiles_ErrorSwallowed(t *testing.T) {
	sweeper := &fakeSweeper{removed: 1, err: errors.New("permission denied")}
	svc := &Service{Uploads: sweeper, Clock: fakeClock{now}, Retention: time.Minute, Logger: zaptest.NewLogger(t)}

	assert.Equal(t, 1, svc.CleanupOldFiles(context.Background()))
	assert.Equal(t, time.Minute, sweeper.maxAge)
}

func TestStart_SweepsOnTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := sessionstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, &session.Session{ID: "old", CreatedAt: now.Add(-2 * time.Hour)}))

	svc := &Service{Sessions: store, Clock: fakeClock{now}, Logger: zap.NewNop()}
	svc.Start(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}
