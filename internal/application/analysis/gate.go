package analysis

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
	"github.com/bryanwahyu/ux-critique/internal/infra/ai/prompt"
)

// Classifier decides whether an image is worth a full analysis.
type Classifier interface {
	IsUIImage(ctx context.Context, imagePath string) bool
}

// GateCache stores classification verdicts keyed by image path.
type GateCache interface {
	Get(path string) (bool, bool)
	Set(path string, isUI bool)
}

// Gate asks the model whether an image shows a user interface.
type Gate struct {
	Client ai.Client
	Codec  domain.ImageCodec
	Cache  GateCache
	Prompt string
	Logger *zap.Logger
}

func NewGate(client ai.Client, codec domain.ImageCodec, cache GateCache, logger *zap.Logger) *Gate {
	return &Gate{Client: client, Codec: codec, Cache: cache, Prompt: prompt.UIDetection, Logger: logger}
}

// IsUIImage fails closed: any error while classifying counts as "not a UI".
// Errors are not cached so a later upload of the same path is retried.
func (g *Gate) IsUIImage(ctx context.Context, imagePath string) bool {
	log := g.Logger.With(zap.String("image", filepath.Base(imagePath)))
	if g.Cache != nil {
		if v, ok := g.Cache.Get(imagePath); ok {
			log.Debug("ui detection cache hit", zap.Bool("is_ui", v))
			return v
		}
	}

	img, err := g.Codec.Load(imagePath)
	if err != nil {
		log.Warn("ui detection failed to load image", zap.Error(err))
		return false
	}
	p := g.Prompt
	if p == "" {
		p = prompt.UIDetection
	}
	text, err := g.Client.Generate(ctx, p, img, nil)
	if err != nil {
		log.Warn("ui detection model call failed", zap.Error(err))
		return false
	}

	isUI := strings.Contains(strings.ToUpper(text), "YES")
	if g.Cache != nil {
		g.Cache.Set(imagePath, isUI)
	}
	log.Info("ui detection", zap.Bool("is_ui", isUI))
	return isUI
}
