package openai

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
)

func TestBuildRequestCarriesImageAndSampling(t *testing.T) {
	img := ai.Image{Data: []byte{0x89, 0x50}, MIMEType: "image/jpeg"}
	req := buildRequest("gpt-4o-mini", "describe", img, ai.DefaultGeneration())

	require.Len(t, req.Messages, 1)
	parts := req.Messages[0].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, "describe", parts[0].Text)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[1].Type)
	assert.Equal(t, "data:image/jpeg;base64,iVA=", parts[1].ImageURL.URL)

	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
	assert.InDelta(t, 0.8, req.TopP, 1e-6)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.Zero(t, req.MaxCompletionTokens)
}

func TestBuildRequestReasoningModel(t *testing.T) {
	req := buildRequest("o3-mini", "p", ai.Image{}, ai.DefaultGeneration())
	assert.Equal(t, 2048, req.MaxCompletionTokens)
	assert.Zero(t, req.MaxTokens)
	assert.Zero(t, req.Temperature)
	assert.Contains(t, req.Messages[0].MultiContent[1].ImageURL.URL, "data:image/png;base64,")
}
