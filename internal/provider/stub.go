package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kdduha/multimodal-gateway/internal/models"
)

// Stub is a deterministic, no-network backend for local runs and CI. The
// output echoes the prompt and describes the payload.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return NameStub }

func (s *Stub) Generate(_ context.Context, req *models.GenerationRequest) (string, error) {
	if req.Payload == nil {
		return fmt.Sprintf("Stub response: %s", req.Prompt), nil
	}

	sum := sha256.Sum256(req.Payload.Data)
	return fmt.Sprintf("Stub response: %s [%s, %d bytes, %s]",
		req.Prompt,
		req.Payload.MimeType,
		len(req.Payload.Data),
		hex.EncodeToString(sum[:8]),
	), nil
}
