package provider

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
)

const (
	NameGemini    = "gemini"
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
	NameOllama    = "ollama"
	NameStub      = "stub"
)

// ErrUnsupportedPayload is returned when a backend cannot take the payload's
// mime type.
var ErrUnsupportedPayload = errors.New("unsupported payload mime type")

// Client is implemented by every backend.
type Client interface {
	Name() string
	Generate(ctx context.Context, req *models.GenerationRequest) (string, error)
}

// New builds the backend selected by cfg.Provider.
func New(cfg config.ModelConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case NameGemini, "":
		return NewGemini(cfg.Gemini), nil
	case NameOpenAI:
		return NewOpenAI(cfg.OpenAI), nil
	case NameAnthropic:
		return NewAnthropic(cfg.Anthropic), nil
	case NameOllama:
		return NewOllama(cfg.Ollama)
	case NameStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func unsupported(provider, mimeType string) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrUnsupportedPayload, mimeType)
}

// mediaType strips parameters and lowercases a mime type.
func mediaType(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mt
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(mediaType(mimeType), "image/")
}
