package provider

import (
	"testing"

	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cases := []struct {
		provider string
		want     string
	}{
		{provider: "", want: NameGemini},
		{provider: "gemini", want: NameGemini},
		{provider: "OpenAI", want: NameOpenAI},
		{provider: "anthropic", want: NameAnthropic},
		{provider: "ollama", want: NameOllama},
		{provider: "stub", want: NameStub},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			client, err := New(config.ModelConfig{
				Provider: tc.provider,
				Ollama:   config.OllamaConfig{Host: "http://localhost:11434"},
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.Name())
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(config.ModelConfig{Provider: "palm"})
	assert.ErrorContains(t, err, `unknown model provider "palm"`)
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", mediaType("IMAGE/PNG"))
	assert.Equal(t, "text/plain", mediaType("text/plain; charset=utf-8"))
	assert.Equal(t, "garbage", mediaType(" garbage "))
	assert.True(t, isImage("image/webp"))
	assert.False(t, isImage("application/pdf"))
}
