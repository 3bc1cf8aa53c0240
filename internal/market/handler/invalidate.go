package handler

import (
	"errors"
	"net/http"
	"strings"

	"marketbot/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category"))))

	if err := h.service.Invalidate(category); err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			writeError(w, http.StatusNotFound, "unknown market category")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to invalidate snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
