package provider

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"google.golang.org/api/option"
)

// Gemini calls the Google generative language API. The SDK client is created
// on first use so that a missing key only fails the request that needs it.
type Gemini struct {
	apiKey    string
	modelName string

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(cfg config.GeminiConfig) *Gemini {
	return &Gemini{
		apiKey:    cfg.APIKey,
		modelName: cfg.Model,
	}
}

func (g *Gemini) Name() string {
	return NameGemini
}

func (g *Gemini) Generate(ctx context.Context, req *models.GenerationRequest) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.GenerativeModel(g.modelName).GenerateContent(ctx, geminiParts(req)...)
	if err != nil {
		return "", err
	}
	return geminiText(resp)
}

func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

func geminiParts(req *models.GenerationRequest) []genai.Part {
	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Payload != nil {
		// the SDK base64-encodes blob data on the wire
		parts = append(parts, genai.Blob{
			MIMEType: req.Payload.MimeType,
			Data:     req.Payload.Data,
		})
	}
	return parts
}

// geminiText joins the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}
