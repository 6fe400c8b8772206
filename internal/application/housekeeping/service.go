package housekeeping

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/application"
	"github.com/bryanwahyu/ux-critique/internal/domain/session"
)

// DefaultRetention is how long uploads and sessions are kept.
const DefaultRetention = time.Hour

// FileSweeper deletes stored uploads older than maxAge.
type FileSweeper interface {
	CleanupOlderThan(now time.Time, maxAge time.Duration) (removed int, err error)
}

// TaskPruner forgets finished background tasks.
type TaskPruner interface {
	Prune(now time.Time, maxAge time.Duration) int
}

// Service evicts uploads and sessions past the retention window. Failures
// are logged and swallowed.
type Service struct {
	Uploads   FileSweeper
	Sessions  session.Store
	Tasks     TaskPruner // optional
	Clock     application.Clock
	Retention time.Duration
	Logger    *zap.Logger

	startOnce sync.Once
}

func (s *Service) retention() time.Duration {
	if s.Retention <= 0 {
		return DefaultRetention
	}
	return s.Retention
}

// CleanupOldFiles removes uploads whose mtime is past the retention window.
func (s *Service) CleanupOldFiles(ctx context.Context) int {
	if s.Uploads == nil {
		return 0
	}
	n, err := s.Uploads.CleanupOlderThan(s.Clock.Now(), s.retention())
	if err != nil {
		s.Logger.Warn("upload cleanup incomplete", zap.Error(err))
	}
	if n > 0 {
		s.Logger.Info("old uploads removed", zap.Int("count", n))
	}
	return n
}

// CleanupOldSessions removes sessions past the retention window.
func (s *Service) CleanupOldSessions(ctx context.Context) int {
	now := s.Clock.Now()
	removed, err := s.Sessions.Sweep(ctx, now, s.retention())
	if err != nil {
		s.Logger.Warn("session cleanup failed", zap.Error(err))
	}
	if s.Tasks != nil {
		s.Tasks.Prune(now, s.retention())
	}
	if len(removed) > 0 {
		s.Logger.Info("expired sessions removed", zap.Int("count", len(removed)))
	}
	return len(removed)
}

// Sweep runs both cleanups.
func (s *Service) Sweep(ctx context.Context) {
	s.CleanupOldFiles(ctx)
	s.CleanupOldSessions(ctx)
}

// Start sweeps every interval until ctx is done. It is a no-op when
// interval is not positive or the loop already runs.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.startOnce.Do(func() {
		ticker := time.NewTicker(interval)
		go func() {
			defer ticker.Stop()
			s.Logger.Info("housekeeping started",
				zap.Duration("interval", interval),
				zap.Duration("retention", s.retention()))
			for {
				select {
				case <-ticker.C:
					s.Sweep(ctx)
				case <-ctx.Done():
					s.Logger.Info("housekeeping stopped", zap.Error(ctx.Err()))
					return
				}
			}
		}()
	})
}
