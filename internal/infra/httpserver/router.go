package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/application"
	appanalysis "github.com/bryanwahyu/ux-critique/internal/application/analysis"
	"github.com/bryanwahyu/ux-critique/internal/application/housekeeping"
	"github.com/bryanwahyu/ux-critique/internal/application/tasks"
	domai "github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
	"github.com/bryanwahyu/ux-critique/internal/domain/session"
	"github.com/bryanwahyu/ux-critique/internal/middleware"
)

// ErrTaskNotFound is returned for unknown or foreign task ids.
var ErrTaskNotFound = errors.New("task not found")

const defaultMaxUploadBytes = 16 << 20

// Analyzer is the slice of the analysis service the router uses.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imagePath, sessionID string) domain.Result
	IsUIImage(ctx context.Context, imagePath string) bool
	Latest(ctx context.Context, sessionID string) (domain.Result, error)
	ListAnalyses(ctx context.Context, sessionID string, page, pageSize int) ([]*domain.Record, error)
}

// UploadStore persists an uploaded file and returns its path.
type UploadStore interface {
	Save(name string, r io.Reader) (string, error)
}

// Deps are the collaborators behind the HTTP routes. Housekeeping, Metrics
// and Checkers are optional.
type Deps struct {
	Analysis       Analyzer
	Tasks          *tasks.Runner
	Housekeeping   *housekeeping.Service
	Sessions       session.Store
	Uploads        UploadStore
	Metrics        *middleware.Metrics
	Checkers       map[string]middleware.HealthChecker
	Clock          application.Clock
	Logger         *zap.Logger
	AllowedOrigins []string
	MaxUploadBytes int64
}

type Router struct {
	Deps
}

var _ Analyzer = (*appanalysis.Service)(nil)

func NewRouter(d Deps) http.Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUploadBytes
	}
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}
	r := &Router{Deps: d}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(d.Logger))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
		mux.Get("/metrics", d.Metrics.Handler)
	}

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler)

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.Session)
		rt.Get("/", r.wrap(r.handleHome))
		rt.Post("/preprocess", r.wrap(r.handlePreprocess))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyze", r.wrap(r.handleLatest))
		rt.Get("/tasks/{id}", r.wrap(r.handleTask))
		rt.Get("/analyses", r.wrap(r.handleHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, ErrTaskNotFound), errors.Is(err, session.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.As(err, &tooLarge):
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, context.Canceled):
			r.Logger.Debug("client went away", zap.String("path", req.URL.Path))
		default:
			r.Logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// GET /
// Landing page; runs both housekeeping sweeps and registers the session.
func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	if r.Housekeeping != nil {
		r.Housekeeping.Sweep(ctx)
	}
	sid := middleware.SessionIDFromContext(ctx)
	if err := r.Sessions.Touch(ctx, sid, r.Clock.Now()); err != nil {
		r.Logger.Warn("register session failed", zap.String("session_id", sid), zap.Error(err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := io.WriteString(w, landingPage)
	return err
}

// POST /preprocess (multipart "image")
// Starts the analysis in the background and returns a task id.
func (r *Router) handlePreprocess(w http.ResponseWriter, req *http.Request) error {
	sid := middleware.SessionIDFromContext(req.Context())
	path, msg, err := r.saveUpload(w, req)
	if err != nil {
		return err
	}
	if msg != "" {
		return writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": msg})
	}

	if !r.Analysis.IsUIImage(req.Context(), path) {
		return writeJSON(w, http.StatusOK, map[string]string{
			"status":  "warning",
			"message": "The uploaded image does not appear to be UI-related. Analysis may not be relevant.",
		})
	}

	task := r.Tasks.Submit(sid, func(ctx context.Context) error {
		result := r.Analysis.AnalyzeImage(ctx, path, sid)
		r.Logger.Info("background analysis complete",
			zap.String("session_id", sid),
			zap.Int("results", len(result)))
		return nil
	})

	return writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Preprocessing started",
		"task_id": task.ID,
	})
}

// POST /analyze (multipart "image")
// Runs the full analysis and returns it.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sid := middleware.SessionIDFromContext(req.Context())
	path, msg, err := r.saveUpload(w, req)
	if err != nil {
		return err
	}
	if msg != "" {
		return writeJSON(w, http.StatusBadRequest, []map[string]string{
			{"label": "Error", "confidence": "N/A", "response": msg},
		})
	}

	// model calls run to completion even if the client disconnects
	result := r.Analysis.AnalyzeImage(context.WithoutCancel(req.Context()), path, sid)
	return writeJSON(w, http.StatusOK, result)
}

// GET /analyze
// Returns the session's latest analysis, waiting for a pending background run.
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	sid := middleware.SessionIDFromContext(ctx)
	if t := r.Tasks.ForKey(sid); t != nil {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	result, err := r.Analysis.Latest(context.WithoutCancel(ctx), sid)
	if err != nil {
		return err
	}
	if result == nil {
		result = domain.Result{}
	}
	return writeJSON(w, http.StatusOK, result)
}

// GET /tasks/{id}
func (r *Router) handleTask(w http.ResponseWriter, req *http.Request) error {
	sid := middleware.SessionIDFromContext(req.Context())
	t := r.Tasks.Get(chi.URLParam(req, "id"))
	if t == nil || t.Key != sid {
		return ErrTaskNotFound
	}
	return writeJSON(w, http.StatusOK, t.Snapshot())
}

// GET /analyses?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	sid := middleware.SessionIDFromContext(req.Context())
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.Analysis.ListAnalyses(req.Context(), sid,
		middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if errors.Is(err, domain.ErrNoRepository) {
		list = []*domain.Record{}
	} else if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// saveUpload stores the "image" part. A non-empty msg is a client error to
// report in the route's own format.
func (r *Router) saveUpload(w http.ResponseWriter, req *http.Request) (path, msg string, err error) {
	req.Body = http.MaxBytesReader(w, req.Body, r.MaxUploadBytes)
	file, header, err := req.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", err
		}
		return "", "No file uploaded", nil
	}
	defer file.Close()

	if err := middleware.ValidateFileName(header.Filename); err != nil {
		return "", "Empty file", nil
	}
	path, err = r.Uploads.Save(header.Filename, file)
	if err != nil {
		return "", "", err
	}
	r.Logger.Debug("upload saved", zap.String("path", path), zap.Int64("size", header.Size))
	return path, "", nil
}
