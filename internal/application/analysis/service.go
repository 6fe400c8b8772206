package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/application"
	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
	"github.com/bryanwahyu/ux-critique/internal/domain/session"
	"github.com/bryanwahyu/ux-critique/internal/infra/ai/prompt"
)

const (
	DefaultMaxWidth  = 800
	DefaultMaxHeight = 800
)

// Recorder receives analysis counters. middleware.Metrics implements it.
type Recorder interface {
	AnalysisStarted()
	AnalysisFinished(failed bool)
	CategoryDegraded()
	NonUIRejected()
}

// Service orchestrates the analysis of uploaded images.
// Service is safe for concurrent use; per-session state lives in Sessions.
type Service struct {
	Sessions  session.Store
	Codec     domain.ImageCodec
	Gate      Classifier
	Analyzer  CategoryAnalyzer
	Pool      *Pool
	Prompts   map[domain.Category]string
	Repo      domain.Repository    // optional
	Artifacts domain.ArtifactStore // optional
	Metrics   Recorder             // optional
	Clock     application.Clock
	Logger    *zap.Logger

	MaxWidth  int
	MaxHeight int
}

// AnalyzeImage runs the full pipeline for one uploaded image and stores the
// outcome under sessionID. It always returns a result: failures become
// placeholder entries instead of errors.
func (s *Service) AnalyzeImage(ctx context.Context, imagePath, sessionID string) (result domain.Result) {
	log := s.Logger.With(zap.String("session_id", sessionID), zap.String("image", filepath.Base(imagePath)))
	started := s.Clock.Now()
	s.put(ctx, log, &session.Session{ID: sessionID, ImagePath: imagePath, CreatedAt: started})
	s.recorder().AnalysisStarted()

	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", zap.Any("panic", r))
			result = FailedResult(fmt.Errorf("%v", r))
			s.put(ctx, log, &session.Session{ID: sessionID, ImagePath: imagePath, Analysis: result, CreatedAt: started})
		}
		s.recorder().AnalysisFinished(IsErrorResult(result))
		log.Info("analysis finished",
			zap.Int("results", len(result)),
			zap.Duration("took", s.Clock.Now().Sub(started)))
	}()

	if err := s.Codec.Resize(imagePath, s.maxWidth(), s.maxHeight()); err != nil {
		log.Warn("resize failed, analyzing original", zap.Error(err))
	}

	if !s.Gate.IsUIImage(ctx, imagePath) {
		s.recorder().NonUIRejected()
		result = NonUIResult()
		s.finish(ctx, log, sessionID, imagePath, started, result)
		return result
	}

	img, err := s.Codec.Load(imagePath)
	if err != nil {
		log.Error("load image failed", zap.Error(err))
		result = FailedResult(err)
		s.finish(ctx, log, sessionID, imagePath, started, result)
		return result
	}

	result = s.fanOut(ctx, log, img)
	s.finish(ctx, log, sessionID, imagePath, started, result)
	s.archive(ctx, log, sessionID, imagePath)
	return result
}

// fanOut runs every category on the shared pool and collects results in
// completion order, then fills gaps and sorts.
func (s *Service) fanOut(ctx context.Context, log *zap.Logger, img ai.Image) domain.Result {
	prompts := s.prompts()
	categories := make([]domain.Category, 0, len(prompts))
	for c := range prompts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	results := make(chan domain.CategoryResult, len(categories))
	var wg sync.WaitGroup
	for _, c := range categories {
		wg.Add(1)
		go func(c domain.Category, p string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("category worker panicked", zap.String("category", string(c)), zap.Any("panic", r))
					results <- processingError(c, r)
				}
			}()
			err := s.Pool.Do(ctx, func() {
				results <- s.Analyzer.Analyze(ctx, c, p, img)
			})
			if err != nil {
				log.Warn("category not dispatched", zap.String("category", string(c)), zap.Error(err))
			}
		}(c, prompts[c])
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(domain.Result, 0, len(categories))
	for r := range results {
		log.Debug("category result collected", zap.String("category", string(r.Category)))
		out = append(out, r)
	}

	seen := out.Categories()
	for _, c := range categories {
		if !seen[c] {
			out = append(out, unavailable(c))
		}
	}
	for _, r := range out {
		if r.Confidence == domain.ConfidenceLow {
			s.recorder().CategoryDegraded()
		}
	}
	out.Sort()
	return out
}

// IsUIImage exposes the gate for callers that only need the pre-check.
func (s *Service) IsUIImage(ctx context.Context, imagePath string) bool {
	return s.Gate.IsUIImage(ctx, imagePath)
}

// Latest returns the session's stored analysis. When an image is known but
// no analysis exists yet, it is computed now.
func (s *Service) Latest(ctx context.Context, sessionID string) (domain.Result, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return domain.Result{}, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.ImagePath == "" {
		return domain.Result{}, nil
	}
	if len(sess.Analysis) == 0 {
		return s.AnalyzeImage(ctx, sess.ImagePath, sessionID), nil
	}
	return sess.Analysis, nil
}

// ListAnalyses pages through the session's persisted analyses.
func (s *Service) ListAnalyses(ctx context.Context, sessionID string, page, pageSize int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrNoRepository
	}
	return s.Repo.Paginate(ctx, sessionID, page, pageSize)
}

func (s *Service) finish(ctx context.Context, log *zap.Logger, sessionID, imagePath string, started time.Time, result domain.Result) {
	s.put(ctx, log, &session.Session{ID: sessionID, ImagePath: imagePath, Analysis: result, CreatedAt: started})
	s.persist(ctx, log, sessionID, imagePath, result)
}

func (s *Service) put(ctx context.Context, log *zap.Logger, sess *session.Session) {
	if err := s.Sessions.Put(ctx, sess); err != nil {
		log.Error("store session failed", zap.Error(err))
	}
}

func (s *Service) persist(ctx context.Context, log *zap.Logger, sessionID, imagePath string, result domain.Result) {
	if s.Repo == nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		log.Error("encode analysis failed", zap.Error(err))
		return
	}
	rec := &domain.Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ImageName: filepath.Base(imagePath),
		Result:    string(b),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		log.Error("save analysis failed", zap.Error(err))
	}
}

func (s *Service) archive(ctx context.Context, log *zap.Logger, sessionID, imagePath string) {
	if s.Artifacts == nil {
		return
	}
	key := fmt.Sprintf("%s/%s", sessionID, filepath.Base(imagePath))
	url, err := s.Artifacts.Upload(ctx, imagePath, key)
	if err != nil {
		log.Warn("archive upload failed", zap.Error(err))
		return
	}
	log.Debug("upload archived", zap.String("url", url))
}

func (s *Service) prompts() map[domain.Category]string {
	if len(s.Prompts) == 0 {
		return prompt.Categories()
	}
	return s.Prompts
}

func (s *Service) maxWidth() int {
	if s.MaxWidth <= 0 {
		return DefaultMaxWidth
	}
	return s.MaxWidth
}

func (s *Service) maxHeight() int {
	if s.MaxHeight <= 0 {
		return DefaultMaxHeight
	}
	return s.MaxHeight
}

func (s *Service) recorder() Recorder {
	if s.Metrics == nil {
		return nopRecorder{}
	}
	return s.Metrics
}

type nopRecorder struct{}

func (nopRecorder) AnalysisStarted()      {}
func (nopRecorder) AnalysisFinished(bool) {}
func (nopRecorder) CategoryDegraded()     {}
func (nopRecorder) NonUIRejected()        {}
