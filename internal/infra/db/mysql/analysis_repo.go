package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

const schema = `
CREATE TABLE IF NOT EXISTS ux_analyses (
  id          VARCHAR(36)  NOT NULL PRIMARY KEY,
  session_id  VARCHAR(64)  NOT NULL,
  image_name  VARCHAR(255) NOT NULL,
  result_json JSON         NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  INDEX idx_ux_analyses_session (session_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// EnsureSchema creates the history table if it does not exist yet.
func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO ux_analyses
  (id, session_id, image_name, result_json, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  session_id=VALUES(session_id), image_name=VALUES(image_name), result_json=VALUES(result_json);
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		stringOrDash(a.SessionID),
		stringOrDash(a.ImageName),
		jsonOrEmpty(a.Result),
		nowIfZero(a.CreatedAt),
	)
	return err
}

// Paginate returns a page of a session's analyses, newest first
func (r *AnalysisRepository) Paginate(ctx context.Context, sessionID string, page, pageSize int) ([]*domain.Record, error) {
	limit, offset := pageBounds(page, pageSize)

	const q = `
SELECT id, session_id, image_name, result_json, created_at
FROM ux_analyses
WHERE session_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		var a domain.Record
		var created time.Time
		if err := rows.Scan(&a.ID, &a.SessionID, &a.ImageName, &a.Result, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}
