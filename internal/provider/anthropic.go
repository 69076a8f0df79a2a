package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
)

// Anthropic uses the Messages API. Images, PDFs and plain text documents
// are accepted; anything else is rejected before the call.
type Anthropic struct {
	client    anthropic.Client
	modelName string
	maxTokens int64
}

func NewAnthropic(cfg config.AnthropicConfig, opts ...anthropicopt.RequestOption) *Anthropic {
	opts = append([]anthropicopt.RequestOption{anthropicopt.WithAPIKey(cfg.APIKey)}, opts...)
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		modelName: cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (a *Anthropic) Name() string {
	return NameAnthropic
}

func (a *Anthropic) Generate(ctx context.Context, req *models.GenerationRequest) (string, error) {
	blocks, err := anthropicBlocks(req)
	if err != nil {
		return "", err
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

func anthropicBlocks(req *models.GenerationRequest) ([]anthropic.ContentBlockParamUnion, error) {
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.Prompt)}

	p := req.Payload
	if p == nil {
		return blocks, nil
	}

	switch mt := mediaType(p.MimeType); {
	case isImage(mt):
		blocks = append(blocks, anthropic.NewImageBlockBase64(mt, p.Base64()))
	case mt == pdfMimeType:
		blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: p.Base64()}))
	case strings.HasPrefix(mt, "text/"):
		blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.PlainTextSourceParam{Data: string(p.Data)}))
	default:
		return nil, unsupported(NameAnthropic, p.MimeType)
	}
	return blocks, nil
}
