package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
)

const defaultModel = "gemini-1.5-flash"

// Client implements ai.Client on top of the Gemini API.
type Client struct {
	client *genai.Client
	Model  string
}

// NewClient creates a Gemini-backed client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{client: cli, Model: model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, image ai.Image, gen *ai.Generation) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image.Data, image.MIMEType),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.Model, contents, generationConfig(gen))
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", ai.ErrEmptyResponse
	}
	return resp.Text(), nil
}

func generationConfig(gen *ai.Generation) *genai.GenerateContentConfig {
	if gen == nil {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	if gen.Temperature > 0 {
		cfg.Temperature = genai.Ptr(gen.Temperature)
	}
	if gen.TopP > 0 {
		cfg.TopP = genai.Ptr(gen.TopP)
	}
	if gen.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(gen.TopK))
	}
	if gen.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = gen.MaxOutputTokens
	}
	return cfg
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
