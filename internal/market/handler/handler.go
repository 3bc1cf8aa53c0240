package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"marketbot/internal/domain"
)

// SnapshotService is the slice of the market service the HTTP handlers use.
type SnapshotService interface {
	Snapshot(ctx context.Context, category domain.Category) (domain.Snapshot, error)
	Invalidate(category domain.Category) error
}

type Handler struct {
	service SnapshotService
}

func NewMarketHandler(service SnapshotService) *Handler {
	return &Handler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}
