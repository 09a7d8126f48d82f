// Package generation orchestrates a single generation request: input
// validation, quota admission, the provider fallback chain, response
// normalization, and history recording.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/domain"
	"github.com/lumis-app/lumis-backend/internal/provider"
)

// TextGenerator produces text for a prompt (articles, resume analysis).
type TextGenerator interface {
	GenerateText(ctx context.Context, model, system, prompt string) (provider.Payload, error)
}

// ImageGenerator produces an image for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt string) (provider.Payload, error)
}

// BackgroundRemover produces a foreground mask for an image.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, model string, image []byte) (provider.Payload, error)
}

// Providers maps config provider identifiers to concrete adapters, per call
// kind. A candidate whose provider is missing from the relevant map fails
// that attempt fatally (it is a wiring bug, not a transient condition).
type Providers struct {
	Text    map[string]TextGenerator
	Image   map[string]ImageGenerator
	Segment map[string]BackgroundRemover
}

// quotaAdmitter defines the quota service interface needed here.
type quotaAdmitter interface {
	CheckAndAdmit(ctx context.Context, userID uuid.UUID, feature domain.Feature) error
}

// generationRepo defines the history repository interface needed here.
type generationRepo interface {
	Create(ctx context.Context, rec *domain.GenerationRecord) (*domain.GenerationRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error)
}

// Result is a completed generation. Record is nil when the history write
// failed after the provider succeeded; the output is still delivered.
type Result struct {
	Output Output
	Record *domain.GenerationRecord
}

// Service implements the request orchestration core.
type Service struct {
	log        *slog.Logger
	quota      quotaAdmitter
	records    generationRepo
	providers  Providers
	candidates config.ProvidersConfig
}

// NewService creates a new generation service instance.
func NewService(
	logger *slog.Logger,
	quota quotaAdmitter,
	records generationRepo,
	providers Providers,
	candidates config.ProvidersConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "generation"),
		quota:      quota,
		records:    records,
		providers:  providers,
		candidates: candidates,
	}
}

const articleSystemPrompt = "You are a professional writer. Write a well-structured, engaging article " +
	"for the user's topic. Use clear headings and plain language. Output only the article text."

// GenerateArticle runs the article-generator feature.
func (s *Service) GenerateArticle(ctx context.Context, userID uuid.UUID, in ArticleInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, cand config.Candidate) (provider.Payload, error) {
		gen, ok := s.providers.Text[cand.Provider]
		if !ok {
			return nil, fmt.Errorf("no text adapter for provider %q", cand.Provider)
		}
		return gen.GenerateText(ctx, cand.Model, articleSystemPrompt, in.Prompt)
	}

	return s.run(ctx, userID, domain.FeatureArticleGenerator, map[string]any{"prompt": in.Prompt}, call, normalizeText)
}

// GenerateImage runs the image-generator feature.
func (s *Service) GenerateImage(ctx context.Context, userID uuid.UUID, in ImageInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, cand config.Candidate) (provider.Payload, error) {
		gen, ok := s.providers.Image[cand.Provider]
		if !ok {
			return nil, fmt.Errorf("no image adapter for provider %q", cand.Provider)
		}
		return gen.GenerateImage(ctx, cand.Model, in.Prompt)
	}

	return s.run(ctx, userID, domain.FeatureImageGenerator, map[string]any{"prompt": in.Prompt}, call, normalizeImage)
}

// RemoveBackground runs the background-remover feature: the provider
// returns a mask, which is composited onto the (bounded, aspect-preserved)
// original as its alpha channel.
func (s *Service) RemoveBackground(ctx context.Context, userID uuid.UUID, in BackgroundRemovalInput) (*Result, error) {
	original, err := in.Decode()
	if err != nil {
		return nil, err
	}

	call := func(ctx context.Context, cand config.Candidate) (provider.Payload, error) {
		seg, ok := s.providers.Segment[cand.Provider]
		if !ok {
			return nil, fmt.Errorf("no segmentation adapter for provider %q", cand.Provider)
		}
		return seg.RemoveBackground(ctx, cand.Model, original)
	}

	normalize := func(p provider.Payload) (Output, error) {
		maskOut, err := normalizeImage(p)
		if err != nil {
			return Output{}, err
		}
		mask, err := decodeImageBase64(maskOut.ImageBase64)
		if err != nil {
			return Output{}, err
		}
		composed, err := compositeWithMask(original, mask)
		if err != nil {
			return Output{}, &NormalizationError{Reason: err.Error()}
		}
		return normalizeImage(composed)
	}

	// The original is stored as metadata only (size), not the full bytes.
	input := map[string]any{"image_bytes": len(original)}

	return s.run(ctx, userID, domain.FeatureBackgroundRemover, input, call, normalize)
}

const resumeSystemPrompt = "You are an experienced technical recruiter. Analyze the resume the user " +
	"provides: strengths, weaknesses, missing keywords, and concrete improvement suggestions. " +
	"If a job description is given, assess the match against it. Output plain text."

// AnalyzeResume runs the resume-analyzer feature.
func (s *Service) AnalyzeResume(ctx context.Context, userID uuid.UUID, in ResumeInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	prompt := "Resume:\n" + in.ResumeText
	if in.JobDescription != "" {
		prompt += "\n\nJob description:\n" + in.JobDescription
	}

	call := func(ctx context.Context, cand config.Candidate) (provider.Payload, error) {
		gen, ok := s.providers.Text[cand.Provider]
		if !ok {
			return nil, fmt.Errorf("no text adapter for provider %q", cand.Provider)
		}
		return gen.GenerateText(ctx, cand.Model, resumeSystemPrompt, prompt)
	}

	input := map[string]any{
		"resume_text":     in.ResumeText,
		"job_description": in.JobDescription,
	}

	return s.run(ctx, userID, domain.FeatureResumeAnalyzer, input, call, normalizeText)
}

// History returns one page of the user's generation history, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error) {
	return s.records.ListByUser(ctx, userID, cursor, domain.NormalizePageSize(limit))
}

// run is the shared orchestration path: admit, execute the fallback chain,
// record. Validation has already happened in the feature-specific wrapper.
func (s *Service) run(
	ctx context.Context,
	userID uuid.UUID,
	feature domain.Feature,
	input map[string]any,
	call callFunc,
	normalize normalizeFunc,
) (*Result, error) {
	if err := s.quota.CheckAndAdmit(ctx, userID, feature); err != nil {
		return nil, err
	}

	// Detach from the client connection: a disconnect must not abort an
	// in-flight provider call. The candidate timeouts bound total latency.
	ctx = context.WithoutCancel(ctx)

	out, err := s.runCandidates(ctx, feature, s.candidates.CandidatesFor(feature), call, normalize)
	if err != nil {
		return nil, err
	}

	result := &Result{Output: out}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	outputJSON, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal output: %w", err)
	}

	rec, err := s.records.Create(ctx, &domain.GenerationRecord{
		UserID:  userID,
		Feature: feature,
		Input:   inputJSON,
		Output:  outputJSON,
	})
	if err != nil {
		// The provider call already succeeded and cost real money; the
		// output is delivered even though history recording failed.
		s.log.ErrorContext(ctx, "history write failed after successful generation",
			slog.String("user_id", userID.String()),
			slog.String("feature", feature.String()),
			slog.String("error", err.Error()),
		)
		return result, nil
	}

	result.Record = rec
	return result, nil
}
