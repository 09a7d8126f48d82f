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

func TestHistory_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	next := uuid.New()
	rec1 := domain.GenerationRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Feature:   domain.FeatureArticleGenerator,
		Input:     json.RawMessage(`{"prompt":"hi"}`),
		Output:    json.RawMessage(`{"Text":"out"}`),
		CreatedAt: time.Now().UTC(),
	}

	var gotCursor *uuid.UUID
	var gotLimit int
	svc := &generationServiceMock{
		HistoryFunc: func(_ context.Context, _ uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error) {
			gotCursor = cursor
			gotLimit = limit
			return &domain.HistoryPage{Records: []domain.GenerationRecord{rec1}, NextCursor: &next}, nil
		},
	}
	h := NewGenerationHandler(svc, discardLogger())

	cursor := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/generations?cursor="+cursor.String()+"&limit=5", "", userID)
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCursor == nil || *gotCursor != cursor {
		t.Errorf("expected cursor %s, got %v", cursor, gotCursor)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}

	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != rec1.ID.String() {
		t.Errorf("unexpected item id %q", resp.Items[0].ID)
	}
	if resp.NextCursor == nil || *resp.NextCursor != next.String() {
		t.Errorf("expected nextCursor %s, got %v", next, resp.NextCursor)
	}
}

func TestHistory_NoCursorNoLimit(t *testing.T) {
	t.Parallel()

	svc := &generationServiceMock{
		HistoryFunc: func(_ context.Context, _ uuid.UUID, cursor *uuid.UUID, limit int) (*domain.HistoryPage, error) {
			if cursor != nil {
				t.Errorf("expected nil cursor, got %v", cursor)
			}
			if limit != 0 {
				t.Errorf("expected zero limit, got %d", limit)
			}
			return &domain.HistoryPage{}, nil
		},
	}
	h := NewGenerationHandler(svc, discardLogger())

	req := authedRequest(http.MethodGet, "/api/v1/generations", "", uuid.New())
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Items == nil {
		t.Error("items must serialize as an empty array, not null")
	}
	if resp.NextCursor != nil {
		t.Errorf("expected no nextCursor, got %v", *resp.NextCursor)
	}
}

func TestHistory_InvalidCursor(t *testing.T) {
	t.Parallel()

	h := NewGenerationHandler(&generationServiceMock{}, discardLogger())

	req := authedRequest(http.MethodGet, "/api/v1/generations?cursor=not-a-uuid", "", uuid.New())
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != codeValidation {
		t.Errorf("expected code %q, got %q", codeValidation, resp.Error.Code)
	}
}

func TestHistory_InvalidLimit(t *testing.T) {
	t.Parallel()

	h := NewGenerationHandler(&generationServiceMock{}, discardLogger())

	req := authedRequest(http.MethodGet, "/api/v1/generations?limit=abc", "", uuid.New())
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
