package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"budgetbot/internal/transport/middleware"
)

// RegisterOpsRoutes wires the operational endpoints. The bot has no user
// facing HTTP API; this surface exists for orchestrators and monitoring.
func RegisterOpsRoutes(router *chi.Mux, db *sql.DB, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
}
