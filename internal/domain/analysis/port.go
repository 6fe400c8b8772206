package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
)

// ErrNoRepository is returned by history queries when no database is configured.
var ErrNoRepository = errors.New("analysis history is not configured")

// Record is a completed analysis kept for later retrieval.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ImageName string    `json:"image_name"`
	Result    string    `json:"result"` // JSON encoded Result
	CreatedAt time.Time `json:"created_at"`
}

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, sessionID string, page, pageSize int) ([]*Record, error)
}

// ImageCodec port (decode and downscale uploads)
type ImageCodec interface {
	Load(path string) (ai.Image, error)
	Resize(path string, maxWidth, maxHeight int) error
}

// ArtifactStore port (archive uploads to object storage)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
