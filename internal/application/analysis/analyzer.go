package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
)

// CategoryAnalyzer produces the result of one category. Implementations must
// not fail: errors are reported inside the returned result.
type CategoryAnalyzer interface {
	Analyze(ctx context.Context, category domain.Category, prompt string, image ai.Image) domain.CategoryResult
}

// Analyzer queries the model for one category and normalizes the answer.
type Analyzer struct {
	Client     ai.Client
	Generation *ai.Generation
	Logger     *zap.Logger
}

func NewAnalyzer(client ai.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{Client: client, Generation: ai.DefaultGeneration(), Logger: logger}
}

func (a *Analyzer) Analyze(ctx context.Context, category domain.Category, prompt string, image ai.Image) (res domain.CategoryResult) {
	log := a.Logger.With(zap.String("category", string(category)))
	defer func() {
		if r := recover(); r != nil {
			log.Error("category analysis panicked", zap.Any("panic", r))
			res = analysisError(category, fmt.Errorf("%v", r))
		}
	}()

	log.Debug("processing category")
	text, err := a.Client.Generate(ctx, prompt, image, a.Generation)
	if err != nil {
		log.Warn("model call failed", zap.Error(err))
		return analysisError(category, err)
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("empty model response")
		return analysisError(category, ai.ErrEmptyResponse)
	}

	res = Format(category, Normalize(text))
	log.Info("category processed",
		zap.Int("items", len(res.Items)),
		zap.String("confidence", string(res.Confidence)))
	return res
}
