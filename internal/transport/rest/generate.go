package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/domain"
	"github.com/lumis-app/lumis-backend/internal/service/generation"
	"github.com/lumis-app/lumis-backend/pkg/ctxutil"
)

// generationService defines the minimal interface needed by GenerationHandler.
type generationService interface {
	GenerateArticle(ctx context.Context, userID uuid.UUID, in generation.ArticleInput) (*generation.Result, error)
	GenerateImage(ctx context.Context, userID uuid.UUID, in generation.ImageInput) (*generation.Result, error)
	RemoveBackground(ctx context.Context, userID uuid.UUID, in generation.BackgroundRemovalInput) (*generation.Result, error)
	AnalyzeResume(ctx context.Context, userID uuid.UUID, in generation.ResumeInput) (*generation.Result, error)
	History(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error)
}

// GenerationHandler serves the generation REST endpoints.
type GenerationHandler struct {
	svc generationService
	log *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(svc generationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{svc: svc, log: logger.With("handler", "generation")}
}

type articleRequest struct {
	Prompt string `json:"prompt"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type backgroundRemovalRequest struct {
	Image string `json:"image"`
}

type resumeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type generationResponse struct {
	ID          string     `json:"id,omitempty"`
	Feature     string     `json:"feature"`
	Text        string     `json:"text,omitempty"`
	ImageBase64 string     `json:"imageBase64,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// GenerateArticle handles POST /api/v1/generate/article.
func (h *GenerationHandler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	result, err := h.svc.GenerateArticle(r.Context(), userID, generation.ArticleInput{Prompt: req.Prompt})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(domain.FeatureArticleGenerator, result))
}

// GenerateImage handles POST /api/v1/generate/image.
func (h *GenerationHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	result, err := h.svc.GenerateImage(r.Context(), userID, generation.ImageInput{Prompt: req.Prompt})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(domain.FeatureImageGenerator, result))
}

// RemoveBackground handles POST /api/v1/generate/background-removal.
func (h *GenerationHandler) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req backgroundRemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	result, err := h.svc.RemoveBackground(r.Context(), userID, generation.BackgroundRemovalInput{Image: req.Image})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(domain.FeatureBackgroundRemover, result))
}

// AnalyzeResume handles POST /api/v1/generate/resume-analysis.
func (h *GenerationHandler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	result, err := h.svc.AnalyzeResume(r.Context(), userID, generation.ResumeInput{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(domain.FeatureResumeAnalyzer, result))
}

func (h *GenerationHandler) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func toGenerationResponse(feature domain.Feature, result *generation.Result) generationResponse {
	resp := generationResponse{
		Feature:     feature.String(),
		Text:        result.Output.Text,
		ImageBase64: result.Output.ImageBase64,
	}
	if result.Record != nil {
		resp.ID = result.Record.ID.String()
		created := result.Record.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
