package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Auth:      AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", JWTIssuer: "lumis"},
		RateLimit: RateLimitConfig{RequestsPerMinute: 60},
	}
}

func TestValidate_FillsDefaultCandidates(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())

	for _, f := range domain.AllFeatures {
		chain := cfg.Providers.CandidatesFor(f)
		require.NotEmpty(t, chain, "feature %s should get default candidates", f)
		for _, c := range chain {
			assert.NotEmpty(t, c.Model)
			assert.Greater(t, c.Timeout, time.Duration(0))
		}
	}
}

func TestValidate_KeepsExplicitCandidates(t *testing.T) {
	cfg := validConfig()
	custom := []Candidate{{Provider: ProviderOpenAI, Model: "gpt-4o", Timeout: 10 * time.Second}}
	cfg.Providers.Features.ArticleGenerator = custom

	require.NoError(t, cfg.Validate())
	assert.Equal(t, custom, cfg.Providers.CandidatesFor(domain.FeatureArticleGenerator))
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Providers.Features.ImageGenerator = []Candidate{
		{Provider: "mystery", Model: "m1", Timeout: time.Second},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate_RejectsNonPositiveTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Providers.Features.ResumeAnalyzer = []Candidate{
		{Provider: ProviderAnthropic, Model: "claude-3-5-haiku-20241022"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestQuotaConfig_LimitFor(t *testing.T) {
	q := QuotaConfig{ArticleGenerator: 25}

	assert.Equal(t, 25, q.LimitFor(domain.FeatureArticleGenerator))
	// Unset limits fall back to the default.
	assert.Equal(t, domain.DefaultDailyLimit, q.LimitFor(domain.FeatureImageGenerator))
}
