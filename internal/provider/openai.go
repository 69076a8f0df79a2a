package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const defaultFileName = "upload"

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client      openai.Client
	modelName   string
	renderPDF   bool
	pdfMaxPages int
}

func NewOpenAI(cfg config.OpenAIConfig, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}, opts...)

	return &OpenAI{
		client:      openai.NewClient(opts...),
		modelName:   cfg.Model,
		renderPDF:   cfg.RenderPDF,
		pdfMaxPages: cfg.PDFMaxPages,
	}
}

func (o *OpenAI) Name() string {
	return NameOpenAI
}

func (o *OpenAI) Generate(ctx context.Context, req *models.GenerationRequest) (string, error) {
	parts, err := o.contentParts(req)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) contentParts(req *models.GenerationRequest) ([]openai.ChatCompletionContentPartUnionParam, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
	}

	p := req.Payload
	if p == nil {
		return parts, nil
	}

	switch mt := mediaType(p.MimeType); {
	case isImage(mt):
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: p.DataURL(),
		}))
	case mt == "audio/wav" || mt == "audio/x-wav" || mt == "audio/wave":
		parts = append(parts, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
			Data:   p.Base64(),
			Format: "wav",
		}))
	case mt == "audio/mpeg" || mt == "audio/mp3":
		parts = append(parts, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
			Data:   p.Base64(),
			Format: "mp3",
		}))
	case mt == pdfMimeType && o.renderPDF:
		pages, err := renderPDFPages(p.Data, o.pdfMaxPages)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		for _, page := range pages {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: page.DataURL(),
			}))
		}
	default:
		name := p.Name
		if name == "" {
			name = defaultFileName
		}
		parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(p.DataURL()),
			Filename: openai.String(name),
		}))
	}
	return parts, nil
}
