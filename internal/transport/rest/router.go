package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/transport/middleware"
)

// TokenValidator verifies bearer tokens for protected routes.
type TokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Logger     *slog.Logger
	CORS       config.CORSConfig
	Validator  TokenValidator
	Limiter    *middleware.RateLimiter
	MaxPerMin  int
	Generation *GenerationHandler
	Usage      *UsageHandler
	Health     *HealthHandler
}

// NewRouter builds the HTTP handler tree. Health probes are public; every
// /api/v1 route sits behind request-id, logging, CORS, rate limiting, and
// bearer auth.
func NewRouter(deps RouterDeps) http.Handler {
	base := middleware.Chain(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	)

	protected := middleware.Chain(
		base,
		deps.Limiter.Limit(deps.MaxPerMin),
		middleware.Auth(deps.Validator),
	)

	mux := http.NewServeMux()

	mux.Handle("GET /health", base(http.HandlerFunc(deps.Health.Health)))
	mux.Handle("GET /live", base(http.HandlerFunc(deps.Health.Live)))
	mux.Handle("GET /ready", base(http.HandlerFunc(deps.Health.Ready)))

	mux.Handle("POST /api/v1/generate/article", protected(http.HandlerFunc(deps.Generation.GenerateArticle)))
	mux.Handle("POST /api/v1/generate/image", protected(http.HandlerFunc(deps.Generation.GenerateImage)))
	mux.Handle("POST /api/v1/generate/background-removal", protected(http.HandlerFunc(deps.Generation.RemoveBackground)))
	mux.Handle("POST /api/v1/generate/resume-analysis", protected(http.HandlerFunc(deps.Generation.AnalyzeResume)))
	mux.Handle("GET /api/v1/generations", protected(http.HandlerFunc(deps.Generation.History)))
	mux.Handle("GET /api/v1/usage", protected(http.HandlerFunc(deps.Usage.Usage)))

	// CORS preflight for the API surface, without auth.
	mux.Handle("OPTIONS /api/v1/", base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	return mux
}
