package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
	ollama "github.com/ollama/ollama/api"
)

// Ollama runs against a local Ollama server. Only image payloads are
// supported by its generate API.
type Ollama struct {
	client    *ollama.Client
	modelName string
}

func NewOllama(cfg config.OllamaConfig) (*Ollama, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", cfg.Host, err)
	}
	return &Ollama{
		client:    ollama.NewClient(u, http.DefaultClient),
		modelName: cfg.Model,
	}, nil
}

func (o *Ollama) Name() string {
	return NameOllama
}

func (o *Ollama) Generate(ctx context.Context, req *models.GenerationRequest) (string, error) {
	stream := false
	genReq := &ollama.GenerateRequest{
		Model:  o.modelName,
		Prompt: req.Prompt,
		Stream: &stream,
	}

	if p := req.Payload; p != nil {
		if !isImage(p.MimeType) {
			return "", unsupported(NameOllama, p.MimeType)
		}
		genReq.Images = []ollama.ImageData{p.Data}
	}

	var text strings.Builder
	err := o.client.Generate(ctx, genReq, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text.String(), nil
}
