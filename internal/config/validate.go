package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

// Known provider identifiers usable in candidate chains.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderSegmenter = "segmenter"
)

// Default fallback chains, applied when the YAML leaves a feature's list
// empty. Order encodes preference: highest quality / most available first.
var defaultCandidates = map[domain.Feature][]Candidate{
	domain.FeatureArticleGenerator: {
		{Provider: ProviderAnthropic, Model: "claude-sonnet-4-20250514", Timeout: 45 * time.Second},
		{Provider: ProviderAnthropic, Model: "claude-3-5-haiku-20241022", Timeout: 30 * time.Second},
		{Provider: ProviderOpenAI, Model: "gpt-4o-mini", Timeout: 30 * time.Second},
	},
	domain.FeatureImageGenerator: {
		{Provider: ProviderOpenAI, Model: "gpt-image-1", Timeout: 60 * time.Second},
		{Provider: ProviderOpenAI, Model: "dall-e-3", Timeout: 60 * time.Second},
	},
	domain.FeatureBackgroundRemover: {
		{Provider: ProviderSegmenter, Model: "isnet-general", Timeout: 40 * time.Second},
		{Provider: ProviderSegmenter, Model: "u2net", Timeout: 40 * time.Second},
	},
	domain.FeatureResumeAnalyzer: {
		{Provider: ProviderAnthropic, Model: "claude-sonnet-4-20250514", Timeout: 45 * time.Second},
		{Provider: ProviderOpenAI, Model: "gpt-4o", Timeout: 45 * time.Second},
	},
}

// Validate checks the configuration for consistency and fills in default
// candidate chains for features the YAML leaves empty.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters"))
	}

	for name, limit := range map[string]int{
		"quota.article_generator":  c.Quota.ArticleGenerator,
		"quota.image_generator":    c.Quota.ImageGenerator,
		"quota.background_remover": c.Quota.BackgroundRemover,
		"quota.resume_analyzer":    c.Quota.ResumeAnalyzer,
	} {
		if limit < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	if c.RateLimit.RequestsPerMinute < 1 {
		errs = append(errs, errors.New("rate_limit.requests_per_minute must be positive"))
	}

	for _, f := range domain.AllFeatures {
		chain := c.Providers.CandidatesFor(f)
		if len(chain) == 0 {
			c.Providers.setCandidates(f, defaultCandidates[f])
			chain = defaultCandidates[f]
		}
		for i, cand := range chain {
			switch cand.Provider {
			case ProviderAnthropic, ProviderOpenAI, ProviderSegmenter:
			default:
				errs = append(errs, fmt.Errorf("providers.features.%s[%d]: unknown provider %q", f, i, cand.Provider))
			}
			if cand.Model == "" {
				errs = append(errs, fmt.Errorf("providers.features.%s[%d]: model is required", f, i))
			}
			if cand.Timeout <= 0 {
				errs = append(errs, fmt.Errorf("providers.features.%s[%d]: timeout must be positive", f, i))
			}
		}
	}

	return errors.Join(errs...)
}

// CandidatesFor returns the ordered fallback chain for a feature.
func (p ProvidersConfig) CandidatesFor(f domain.Feature) []Candidate {
	switch f {
	case domain.FeatureArticleGenerator:
		return p.Features.ArticleGenerator
	case domain.FeatureImageGenerator:
		return p.Features.ImageGenerator
	case domain.FeatureBackgroundRemover:
		return p.Features.BackgroundRemover
	case domain.FeatureResumeAnalyzer:
		return p.Features.ResumeAnalyzer
	}
	return nil
}

func (p *ProvidersConfig) setCandidates(f domain.Feature, chain []Candidate) {
	switch f {
	case domain.FeatureArticleGenerator:
		p.Features.ArticleGenerator = chain
	case domain.FeatureImageGenerator:
		p.Features.ImageGenerator = chain
	case domain.FeatureBackgroundRemover:
		p.Features.BackgroundRemover = chain
	case domain.FeatureResumeAnalyzer:
		p.Features.ResumeAnalyzer = chain
	}
}

// LimitFor returns the configured daily limit for a feature, falling back
// to domain.DefaultDailyLimit when unset.
func (q QuotaConfig) LimitFor(f domain.Feature) int {
	var limit int
	switch f {
	case domain.FeatureArticleGenerator:
		limit = q.ArticleGenerator
	case domain.FeatureImageGenerator:
		limit = q.ImageGenerator
	case domain.FeatureBackgroundRemover:
		limit = q.BackgroundRemover
	case domain.FeatureResumeAnalyzer:
		limit = q.ResumeAnalyzer
	}
	if limit == 0 {
		limit = domain.DefaultDailyLimit
	}
	return limit
}
