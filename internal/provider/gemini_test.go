package provider

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiParts_PromptOnly(t *testing.T) {
	parts := geminiParts(&models.GenerationRequest{Prompt: "Say hi"})
	assert.Equal(t, []genai.Part{genai.Text("Say hi")}, parts)
}

func TestGeminiParts_PromptThenBlob(t *testing.T) {
	parts := geminiParts(&models.GenerationRequest{
		Prompt:  "describe",
		Payload: &models.InlinePayload{MimeType: "audio/ogg", Data: []byte{1, 2, 3}},
	})

	require.Len(t, parts, 2)
	assert.Equal(t, genai.Text("describe"), parts[0])
	assert.Equal(t, genai.Blob{MIMEType: "audio/ogg", Data: []byte{1, 2, 3}}, parts[1])
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("Hi "), genai.Blob{MIMEType: "image/png"}, genai.Text("there")},
			},
		}},
	}

	text, err := geminiText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestGeminiText_Empty(t *testing.T) {
	_, err := geminiText(&genai.GenerateContentResponse{})
	assert.EqualError(t, err, "gemini: empty response")

	_, err = geminiText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.Error(t, err)
}
