package api

import (
	"marketbot/internal/market/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(marketHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/api/v1/markets/{category}", marketHandler.GetSnapshot)
	router.Post("/api/v1/markets/{category}/invalidate", marketHandler.Invalidate)
	return router
}
