package ai

import "context"

// Image is an encoded picture ready to be sent to a multimodal model.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generation tunes a single model call. Zero values leave the provider default.
type Generation struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultGeneration keeps output deterministic and bounded so the JSON the
// prompts ask for fits in one response.
func DefaultGeneration() *Generation {
	return &Generation{
		Temperature:     0.2,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}

// Client is the multimodal capability: given a prompt and an image, produce text.
type Client interface {
	Generate(ctx context.Context, prompt string, image Image, gen *Generation) (string, error)
}
