package analysis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
	"github.com/bryanwahyu/ux-critique/internal/domain/session"
)

type fakeClient struct {
	respond func(prompt string) (string, error)
	calls   atomic.Int32
}

func (f *fakeClient) Generate(_ context.Context, prompt string, _ ai.Image, _ *ai.Generation) (string, error) {
	f.calls.Add(1)
	return f.respond(prompt)
}

type fakeCodec struct {
	loadErr error
	mu      sync.Mutex
	resized []string
}

func (f *fakeCodec) Load(path string) (ai.Image, error) {
	if f.loadErr != nil {
		return ai.Image{}, f.loadErr
	}
	return ai.Image{Data: []byte(path), MIMEType: "image/png"}, nil
}

func (f *fakeCodec) Resize(path string, _, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resized = append(f.resized, path)
	return nil
}

type fixedGate bool

func (g fixedGate) IsUIImage(context.Context, string) bool { return bool(g) }

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

// mapStore is a minimal session.Store for orchestration tests.
type mapStore struct {
	mu   sync.Mutex
	data map[string]session.Session
}

func newMapStore() *mapStore { return &mapStore{data: map[string]session.Session{}} }

func (m *mapStore) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &s, nil
}

func (m *mapStore) Put(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *mapStore) Touch(_ context.Context, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		m.data[id] = session.Session{ID: id, CreatedAt: now}
	}
	return nil
}

func (m *mapStore) Sweep(context.Context, time.Time, time.Duration) ([]string, error) {
	return nil, nil
}

type fakeRepo struct {
	mu      sync.Mutex
	records []*domain.Record
}

func (r *fakeRepo) Save(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepo) Paginate(_ context.Context, sessionID string, _, _ int) ([]*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Record
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

var errModel = errors.New("model unavailable")
