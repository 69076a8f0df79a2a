package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/kdduha/multimodal-gateway/internal/models"
	"github.com/kdduha/multimodal-gateway/internal/upload"
)

const (
	fieldImage    = "image"
	fieldDocument = "document"
	fieldAudio    = "audio"
	fieldPrompt   = "prompt"
)

const (
	msgNoPrompt   = "No prompt provided"
	msgNoImage    = "No image file uploaded"
	msgNoDocument = "No document file uploaded"
	msgNoAudio    = "No audio file uploaded"
)

type generateService interface {
	Provider() string
	GenerateText(ctx context.Context, prompt string) (*models.GenerateResponse, error)
	GenerateFromImage(ctx context.Context, prompt string, file *upload.File) (*models.GenerateResponse, error)
	GenerateFromDocument(ctx context.Context, file *upload.File) (*models.GenerateResponse, error)
	GenerateFromAudio(ctx context.Context, file *upload.File) (*models.GenerateResponse, error)
}

type uploadStore interface {
	Receive(r *http.Request, field string) (*upload.Form, error)
}

type GenerateHandler struct {
	logger  log.Interface
	service generateService
	uploads uploadStore
}

func NewGenerateHandler(logger log.Interface, service generateService, uploads uploadStore) *GenerateHandler {
	return &GenerateHandler{
		logger:  logger,
		service: service,
		uploads: uploads,
	}
}

// GenerateText godoc
// @Summary Generate text
// @Description Forward a prompt to the model and return its text.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body models.TextRequest true "Prompt"
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate-text [post]
func (h *GenerateHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, msgNoPrompt)
		return
	}

	resp, err := h.service.GenerateText(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateImage godoc
// @Summary Generate from image
// @Description Send a prompt and an image to the model. The image is always tagged image/jpeg.
// @Tags generate
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param prompt formData string true "Prompt"
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate-image [post]
func (h *GenerateHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	form, ok := h.receive(w, r, fieldImage, msgNoImage)
	if !ok {
		return
	}
	defer h.release(form)

	prompt := form.Values.Get(fieldPrompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, msgNoPrompt)
		return
	}

	resp, err := h.service.GenerateFromImage(r.Context(), prompt, form.File)
	h.respond(w, resp, err)
}

// GenerateFromDocument godoc
// @Summary Summarize document
// @Description Ask the model to summarize an uploaded document. The reported mime type is forwarded.
// @Tags generate
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Document file"
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate-from-document [post]
func (h *GenerateHandler) GenerateFromDocument(w http.ResponseWriter, r *http.Request) {
	form, ok := h.receive(w, r, fieldDocument, msgNoDocument)
	if !ok {
		return
	}
	defer h.release(form)

	resp, err := h.service.GenerateFromDocument(r.Context(), form.File)
	h.respond(w, resp, err)
}

// GenerateFromAudio godoc
// @Summary Summarize audio
// @Description Ask the model to summarize an uploaded audio file. The reported mime type is forwarded.
// @Tags generate
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file"
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate-from-audio [post]
func (h *GenerateHandler) GenerateFromAudio(w http.ResponseWriter, r *http.Request) {
	form, ok := h.receive(w, r, fieldAudio, msgNoAudio)
	if !ok {
		return
	}
	defer h.release(form)

	resp, err := h.service.GenerateFromAudio(r.Context(), form.File)
	h.respond(w, resp, err)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (h *GenerateHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Provider: h.service.Provider()})
}

// receive parses the multipart body and writes the client error itself when
// the form is malformed or the file field is missing.
func (h *GenerateHandler) receive(w http.ResponseWriter, r *http.Request, field, missing string) (*upload.Form, bool) {
	form, err := h.uploads.Receive(r, field)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %s", err))
		return nil, false
	}
	if form.File == nil {
		writeError(w, http.StatusBadRequest, missing)
		return nil, false
	}
	return form, true
}

func (h *GenerateHandler) release(form *upload.Form) {
	if err := form.Remove(); err != nil {
		h.logger.WithError(err).WithField("path", form.File.Path).Warn("failed to remove upload")
	}
}

func (h *GenerateHandler) respond(w http.ResponseWriter, resp *models.GenerateResponse, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register mounts the generation routes on r.
func (h *GenerateHandler) Register(r chi.Router) {
	r.Post("/generate-text", h.GenerateText)
	r.Post("/generate-image", h.GenerateImage)
	r.Post("/generate-from-document", h.GenerateFromDocument)
	r.Post("/generate-from-audio", h.GenerateFromAudio)
	r.Get("/healthz", h.Health)
}
