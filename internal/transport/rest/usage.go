package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/domain"
	"github.com/lumis-app/lumis-backend/pkg/ctxutil"
)

// usageService defines the minimal interface needed by UsageHandler.
type usageService interface {
	Usage(ctx context.Context, userID uuid.UUID) (*domain.UsageReport, error)
}

// UsageHandler serves the quota usage endpoint.
type UsageHandler struct {
	svc usageService
	log *slog.Logger
}

// NewUsageHandler creates a UsageHandler.
func NewUsageHandler(svc usageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{svc: svc, log: logger.With("handler", "usage")}
}

type featureUsageResponse struct {
	Feature   string `json:"feature"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

type usageResponse struct {
	IsPremium bool                   `json:"isPremium"`
	Features  []featureUsageResponse `json:"features"`
	ResetsAt  time.Time              `json:"resetsAt"`
}

// Usage handles GET /api/v1/usage.
func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
		return
	}

	report, err := h.svc.Usage(r.Context(), userID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	resp := usageResponse{
		IsPremium: report.IsPremium,
		Features:  make([]featureUsageResponse, 0, len(report.Features)),
		ResetsAt:  report.ResetTime,
	}
	for _, f := range report.Features {
		resp.Features = append(resp.Features, featureUsageResponse{
			Feature:   f.Feature.String(),
			Used:      f.Used,
			Limit:     f.Limit,
			Remaining: f.Remaining,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
