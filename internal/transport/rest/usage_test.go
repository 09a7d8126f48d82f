package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

type usageServiceMock struct {
	UsageFunc func(ctx context.Context, userID uuid.UUID) (*domain.UsageReport, error)
}

func (m *usageServiceMock) Usage(ctx context.Context, userID uuid.UUID) (*domain.UsageReport, error) {
	return m.UsageFunc(ctx, userID)
}

func TestUsage_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	reset := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)

	svc := &usageServiceMock{
		UsageFunc: func(_ context.Context, gotUser uuid.UUID) (*domain.UsageReport, error) {
			if gotUser != userID {
				t.Errorf("expected userID %s, got %s", userID, gotUser)
			}
			return &domain.UsageReport{
				IsPremium: false,
				ResetTime: reset,
				Features: []domain.FeatureUsage{
					{Feature: domain.FeatureArticleGenerator, Used: 3, Limit: 10, Remaining: 7},
					{Feature: domain.FeatureImageGenerator, Used: 10, Limit: 10, Remaining: 0},
				},
			}, nil
		},
	}
	h := NewUsageHandler(svc, discardLogger())

	req := authedRequest(http.MethodGet, "/api/v1/usage", "", userID)
	rec := httptest.NewRecorder()

	h.Usage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp usageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.IsPremium {
		t.Error("expected isPremium false")
	}
	if len(resp.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(resp.Features))
	}
	if resp.Features[0].Feature != "article-generator" || resp.Features[0].Remaining != 7 {
		t.Errorf("unexpected first feature: %+v", resp.Features[0])
	}
	if !resp.ResetsAt.Equal(reset) {
		t.Errorf("expected resetsAt %s, got %s", reset, resp.ResetsAt)
	}
}

func TestUsage_NoUserInContext(t *testing.T) {
	t.Parallel()

	h := NewUsageHandler(&usageServiceMock{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)
	rec := httptest.NewRecorder()

	h.Usage(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestUsage_ServiceError(t *testing.T) {
	t.Parallel()

	svc := &usageServiceMock{
		UsageFunc: func(context.Context, uuid.UUID) (*domain.UsageReport, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewUsageHandler(svc, discardLogger())

	req := authedRequest(http.MethodGet, "/api/v1/usage", "", uuid.New())
	rec := httptest.NewRecorder()

	h.Usage(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
