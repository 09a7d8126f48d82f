package generation

import (
	"encoding/base64"
	"strings"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

const (
	minPromptLen = 3
	maxPromptLen = 4000
	maxResumeLen = 50_000
	// maxImageBytes bounds the decoded original for background removal.
	maxImageBytes = 10 << 20
)

// ArticleInput is the request payload for the article generator.
type ArticleInput struct {
	Prompt string
}

// Validate checks the prompt bounds. Runs before any quota or provider work.
func (in ArticleInput) Validate() error {
	return validatePrompt(in.Prompt)
}

// ImageInput is the request payload for the image generator.
type ImageInput struct {
	Prompt string
}

// Validate checks the prompt bounds.
func (in ImageInput) Validate() error {
	return validatePrompt(in.Prompt)
}

// ResumeInput is the request payload for the resume analyzer.
type ResumeInput struct {
	ResumeText     string
	JobDescription string
}

// Validate checks the resume text bounds.
func (in ResumeInput) Validate() error {
	text := strings.TrimSpace(in.ResumeText)
	if len(text) < minPromptLen {
		return domain.NewValidationError("resume_text", "must be at least 3 characters")
	}
	if len(in.ResumeText) > maxResumeLen {
		return domain.NewValidationError("resume_text", "too long")
	}
	if len(in.JobDescription) > maxResumeLen {
		return domain.NewValidationError("job_description", "too long")
	}
	return nil
}

// BackgroundRemovalInput is the request payload for the background remover.
// Image is base64, optionally wrapped in a data URI.
type BackgroundRemovalInput struct {
	Image string
}

// Validate decodes the image payload and checks its size.
func (in BackgroundRemovalInput) Validate() error {
	_, err := in.Decode()
	return err
}

// Decode returns the raw image bytes from the base64/data-URI payload.
func (in BackgroundRemovalInput) Decode() ([]byte, error) {
	s := strings.TrimSpace(in.Image)
	if s == "" {
		return nil, domain.NewValidationError("image", "is required")
	}

	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, domain.NewValidationError("image", "malformed data URI")
		}
		s = s[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.NewValidationError("image", "is not valid base64")
	}
	if len(raw) == 0 {
		return nil, domain.NewValidationError("image", "is empty")
	}
	if len(raw) > maxImageBytes {
		return nil, domain.NewValidationError("image", "exceeds the 10 MiB limit")
	}

	return raw, nil
}

func validatePrompt(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < minPromptLen {
		return domain.NewValidationError("prompt", "must be at least 3 characters")
	}
	if len(prompt) > maxPromptLen {
		return domain.NewValidationError("prompt", "too long")
	}
	return nil
}
