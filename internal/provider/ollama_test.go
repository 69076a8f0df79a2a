package provider

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Generate(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/x-ndjson")
		io.WriteString(w, `{"model":"llava","response":"a cat","done":true}`+"\n")
	}))
	defer srv.Close()

	o, err := NewOllama(config.OllamaConfig{Host: srv.URL, Model: "llava"})
	require.NoError(t, err)

	out, err := o.Generate(t.Context(), &models.GenerationRequest{
		Prompt:  "what is it",
		Payload: &models.InlinePayload{MimeType: "image/jpeg", Data: []byte("img")},
	})
	require.NoError(t, err)
	assert.Equal(t, "a cat", out)
	assert.Contains(t, body, `"images":["aW1n"]`)
}

func TestOllama_RejectsNonImage(t *testing.T) {
	o, err := NewOllama(config.OllamaConfig{Host: "http://127.0.0.1:1", Model: "llava"})
	require.NoError(t, err)

	_, err = o.Generate(t.Context(), &models.GenerationRequest{
		Prompt:  "summarize",
		Payload: &models.InlinePayload{MimeType: "audio/mpeg", Data: []byte("x")},
	})
	assert.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestNewOllama_BadHost(t *testing.T) {
	_, err := NewOllama(config.OllamaConfig{Host: "://bad"})
	assert.Error(t, err)
}
