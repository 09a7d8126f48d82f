// Package quota implements the daily per-feature usage ledger.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the quota service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// usageCounter defines the generation repository interface needed for counting.
type usageCounter interface {
	CountInWindow(ctx context.Context, userID uuid.UUID, feature domain.Feature, window domain.QuotaWindow) (int, error)
}

// Service enforces daily per-feature limits for non-premium users.
type Service struct {
	log    *slog.Logger
	users  userRepo
	usage  usageCounter
	limits config.QuotaConfig
	now    func() time.Time
}

// NewService creates a new quota service instance.
func NewService(logger *slog.Logger, users userRepo, usage usageCounter, limits config.QuotaConfig) *Service {
	return &Service{
		log:    logger.With("service", "quota"),
		users:  users,
		usage:  usage,
		limits: limits,
		now:    time.Now,
	}
}

// CheckAndAdmit returns nil when the user may run one more generation for
// the feature, domain.ErrQuotaExceeded when the daily limit is reached, and
// domain.ErrNotFound when the user row is missing (an upstream
// inconsistency; identity must have provisioned the user already).
//
// This is a read-only check, not a reservation: two concurrent requests at
// count == limit-1 can both be admitted. Only the count after completion
// matters for the next requester, so the window is accepted rather than
// closed with a storage-level conditional increment.
func (s *Service) CheckAndAdmit(ctx context.Context, userID uuid.UUID, feature domain.Feature) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if user.IsPremium {
		return nil
	}

	window := domain.QuotaWindowAt(s.now())

	used, err := s.usage.CountInWindow(ctx, userID, feature, window)
	if err != nil {
		return fmt.Errorf("count usage: %w", err)
	}

	limit := s.limits.LimitFor(feature)
	if used >= limit {
		s.log.InfoContext(ctx, "quota exhausted",
			slog.String("user_id", userID.String()),
			slog.String("feature", feature.String()),
			slog.Int("used", used),
			slog.Int("limit", limit),
		)
		return fmt.Errorf("%s: %d/%d used today: %w", feature, used, limit, domain.ErrQuotaExceeded)
	}

	return nil
}

// Usage reports the user's current consumption across all features, the
// premium flag, and when the windows roll over.
func (s *Service) Usage(ctx context.Context, userID uuid.UUID) (*domain.UsageReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	window := domain.QuotaWindowAt(s.now())

	report := &domain.UsageReport{
		IsPremium: user.IsPremium,
		ResetTime: window.End,
	}

	for _, feature := range domain.AllFeatures {
		used, err := s.usage.CountInWindow(ctx, userID, feature, window)
		if err != nil {
			return nil, fmt.Errorf("count usage for %s: %w", feature, err)
		}

		limit := s.limits.LimitFor(feature)
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}

		report.Features = append(report.Features, domain.FeatureUsage{
			Feature:   feature,
			Used:      used,
			Limit:     limit,
			Remaining: remaining,
		})
	}

	return report, nil
}
