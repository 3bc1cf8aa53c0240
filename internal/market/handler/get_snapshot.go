package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"marketbot/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type SnapshotItem struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

type GetSnapshotResponse struct {
	Category     string         `json:"category"`
	Items        []SnapshotItem `json:"items,omitempty"`
	FailureCause string         `json:"failure_cause,omitempty"`
	FetchedAt    time.Time      `json:"fetched_at"`
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category"))))

	snap, err := h.service.Snapshot(r.Context(), category)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			writeError(w, http.StatusNotFound, "unknown market category")
			return
		}
		if errors.Is(err, domain.ErrSnapshotTimeout) {
			writeError(w, http.StatusGatewayTimeout, "snapshot fetch timed out")
			return
		}
		msg := "ups, couldn't get market snapshot this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetSnapshot", "category": category}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := GetSnapshotResponse{
		Category:     string(snap.Category),
		FailureCause: snap.FailureCause,
		FetchedAt:    snap.FetchedAt,
	}
	for _, it := range snap.Items {
		res.Items = append(res.Items, SnapshotItem{Label: it.Label, Value: it.Value, Available: it.Available})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}
