package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Quota     QuotaConfig     `yaml:"quota"`
	Providers ProvidersConfig `yaml:"providers"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// AuthConfig holds token validation settings. Token issuance belongs to the
// identity service; this backend only verifies.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"lumis"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// QuotaConfig holds per-feature daily limits for non-premium users.
// A zero value falls back to the default of 10 during validation.
type QuotaConfig struct {
	ArticleGenerator  int `yaml:"article_generator"  env:"QUOTA_ARTICLE_GENERATOR"  env-default:"10"`
	ImageGenerator    int `yaml:"image_generator"    env:"QUOTA_IMAGE_GENERATOR"    env-default:"10"`
	BackgroundRemover int `yaml:"background_remover" env:"QUOTA_BACKGROUND_REMOVER" env-default:"10"`
	ResumeAnalyzer    int `yaml:"resume_analyzer"    env:"QUOTA_RESUME_ANALYZER"    env-default:"10"`
}

// RateLimitConfig holds per-IP transport rate limiting settings.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_PER_MINUTE"      env-default:"60"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// Candidate is one configured provider/model eligible to serve a feature,
// with its per-attempt timeout budget. Order in the list encodes preference.
type Candidate struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FeatureCandidates holds the ordered fallback chain for every feature.
// Empty lists are filled with built-in defaults during validation.
type FeatureCandidates struct {
	ArticleGenerator  []Candidate `yaml:"article_generator"`
	ImageGenerator    []Candidate `yaml:"image_generator"`
	BackgroundRemover []Candidate `yaml:"background_remover"`
	ResumeAnalyzer    []Candidate `yaml:"resume_analyzer"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
}

// OpenAIConfig holds settings for an OpenAI-compatible inference endpoint.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"  env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
}

// SegmenterConfig holds settings for the image segmentation endpoint.
type SegmenterConfig struct {
	APIKey  string `yaml:"api_key"  env:"SEGMENTER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"SEGMENTER_BASE_URL" env-default:"https://api.segmind.com/v1"`
}

// ProvidersConfig groups provider credentials and the per-feature
// candidate chains.
type ProvidersConfig struct {
	Anthropic AnthropicConfig   `yaml:"anthropic"`
	OpenAI    OpenAIConfig      `yaml:"openai"`
	Segmenter SegmenterConfig   `yaml:"segmenter"`
	Features  FeatureCandidates `yaml:"features"`
}
