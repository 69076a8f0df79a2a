package models

import "encoding/base64"

// TextRequest represents request for the text generation endpoint
type TextRequest struct {
	Prompt string `json:"prompt" validate:"required" example:"Say hi"`
}

// GenerateResponse wraps the model output
type GenerateResponse struct {
	Output string `json:"output" example:"Hi there"`
}

// ErrorResponse wraps a client or upstream failure
type ErrorResponse struct {
	Error string `json:"error" example:"No prompt provided"`
}

// InlinePayload is a file sent to the model next to the prompt.
// Name is the client-side file name and may be empty.
type InlinePayload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Base64 returns the standard base64 encoding of the payload bytes.
func (p *InlinePayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DataURL returns the payload as a data: URL.
func (p *InlinePayload) DataURL() string {
	return "data:" + p.MimeType + ";base64," + p.Base64()
}

// GenerationRequest is a single call to the model: the prompt and at most
// one inline payload, in that order.
type GenerationRequest struct {
	Prompt  string
	Payload *InlinePayload
}
