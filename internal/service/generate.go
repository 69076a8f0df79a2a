package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/kdduha/multimodal-gateway/internal/cache"
	"github.com/kdduha/multimodal-gateway/internal/metrics"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"github.com/kdduha/multimodal-gateway/internal/upload"
)

type Generator interface {
	Name() string
	Generate(ctx context.Context, req *models.GenerationRequest) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

type GenerateService struct {
	logger    log.Interface
	generator Generator
	cache     Cache
}

func NewGenerateService(logger log.Interface, generator Generator) *GenerateService {
	return &GenerateService{
		logger:    logger,
		generator: generator,
	}
}

func (s *GenerateService) SetCacheClient(cache Cache) {
	s.cache = cache
}

func (s *GenerateService) Provider() string {
	return s.generator.Name()
}

func (s *GenerateService) GenerateText(ctx context.Context, prompt string) (*models.GenerateResponse, error) {
	return s.generate(ctx, EndpointText, &models.GenerationRequest{Prompt: prompt})
}

func (s *GenerateService) GenerateFromImage(ctx context.Context, prompt string, file *upload.File) (*models.GenerateResponse, error) {
	payload, err := s.payload(file, imageMimeType)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, EndpointImage, &models.GenerationRequest{Prompt: prompt, Payload: payload})
}

func (s *GenerateService) GenerateFromDocument(ctx context.Context, file *upload.File) (*models.GenerateResponse, error) {
	payload, err := s.payload(file, file.MimeType)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, EndpointDocument, &models.GenerationRequest{Prompt: documentInstruction, Payload: payload})
}

func (s *GenerateService) GenerateFromAudio(ctx context.Context, file *upload.File) (*models.GenerateResponse, error) {
	payload, err := s.payload(file, file.MimeType)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, EndpointAudio, &models.GenerationRequest{Prompt: audioInstruction, Payload: payload})
}

func (s *GenerateService) payload(file *upload.File, mimeType string) (*models.InlinePayload, error) {
	payload, err := file.Payload(mimeType)
	if err != nil {
		metrics.PayloadEncoded(metrics.StatusError, mimeType, 0)
		return nil, fmt.Errorf("read upload: %w", err)
	}
	metrics.PayloadEncoded(metrics.StatusOK, mimeType, len(payload.Data))
	return payload, nil
}

// generate returns provider errors unwrapped so callers see the upstream
// message as is.
func (s *GenerateService) generate(ctx context.Context, endpoint string, req *models.GenerationRequest) (*models.GenerateResponse, error) {
	logger := s.logger.WithFields(log.Fields{
		"endpoint": endpoint,
		"provider": s.generator.Name(),
	})
	if req.Payload != nil {
		logger = logger.WithFields(log.Fields{
			"mime_type": req.Payload.MimeType,
			"size":      len(req.Payload.Data),
		})
	}

	key := cacheKey(endpoint, s.generator.Name(), req)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.CacheLookup(metrics.CacheError)
			logger.WithError(err).Warn("cache get error")
		case found:
			metrics.CacheLookup(metrics.CacheHit)
			logger.Debug("served from cache")
			return &models.GenerateResponse{Output: cached}, nil
		default:
			metrics.CacheLookup(metrics.CacheMiss)
		}
	}

	start := time.Now()
	output, err := s.generator.Generate(ctx, req)
	if err != nil {
		metrics.Generation(endpoint, s.generator.Name(), metrics.StatusError, time.Since(start))
		logger.WithError(err).Error("generation failed")
		return nil, err
	}
	metrics.Generation(endpoint, s.generator.Name(), metrics.StatusOK, time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, output); err != nil {
			logger.WithError(err).Warn("failed to set cache")
		}
	}
	return &models.GenerateResponse{Output: output}, nil
}

func cacheKey(endpoint, provider string, req *models.GenerationRequest) string {
	parts := [][]byte{[]byte(endpoint), []byte(provider), []byte(req.Prompt)}
	if req.Payload != nil {
		parts = append(parts, []byte(req.Payload.MimeType), req.Payload.Data)
	}
	return cache.Key(parts...)
}
