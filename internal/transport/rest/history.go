package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

type historyItem struct {
	ID        string          `json:"id"`
	Feature   string          `json:"feature"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
	CreatedAt time.Time       `json:"createdAt"`
}

type historyResponse struct {
	Items      []historyItem `json:"items"`
	NextCursor *string       `json:"nextCursor,omitempty"`
}

// History handles GET /api/v1/generations?cursor=<id>&limit=<n>.
// Pages are ordered newest first; the cursor is the id of the last item of
// the previous page.
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var cursor *uuid.UUID
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "cursor must be a valid id")
			return
		}
		cursor = &id
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "limit must be an integer")
			return
		}
		limit = n
	}

	page, err := h.svc.History(r.Context(), userID, cursor, limit)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistoryResponse(page))
}

func toHistoryResponse(page *domain.HistoryPage) historyResponse {
	resp := historyResponse{Items: make([]historyItem, 0, len(page.Records))}
	for _, rec := range page.Records {
		resp.Items = append(resp.Items, historyItem{
			ID:        rec.ID.String(),
			Feature:   rec.Feature.String(),
			Input:     rec.Input,
			Output:    rec.Output,
			CreatedAt: rec.CreatedAt,
		})
	}
	if page.NextCursor != nil {
		s := page.NextCursor.String()
		resp.NextCursor = &s
	}
	return resp
}
