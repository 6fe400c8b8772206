package session

import (
	"time"

	"github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

// Session is the client-scoped container for the latest upload and its analysis.
type Session struct {
	ID        string          `json:"session_id"`
	ImagePath string          `json:"image_path,omitempty"`
	Analysis  analysis.Result `json:"analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Expired reports whether s is strictly older than maxAge at now.
func (s *Session) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.CreatedAt) > maxAge
}
