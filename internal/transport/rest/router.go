package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/yudapramata/rab-management/internal/auth"
	"github.com/yudapramata/rab-management/internal/budget"
	"github.com/yudapramata/rab-management/internal/device"
	"github.com/yudapramata/rab-management/internal/transport/middleware"
	"github.com/yudapramata/rab-management/internal/transport/swagger"
)

// RegisterAllRoutes wires every route on the router. The decision and
// lifecycle routes are administrator-only; submission and device routes
// only need an authenticated user.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authMiddleware *auth.Middleware,
	budgetHandler *budget.Handler,
	deviceHandler *device.Handler,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(authMiddleware.Authenticate)

			pr.Route("/plans/{id}", func(plr chi.Router) {
				plr.Get("/categories/{key}", budgetHandler.GetCategory)
				plr.Put("/categories/{key}", budgetHandler.SubmitCategory)

				plr.Group(func(ar chi.Router) {
					ar.Use(authMiddleware.RequireAdmin)
					ar.Patch("/categories/{key}/status", budgetHandler.SetItemStatus)
					ar.Patch("/status", budgetHandler.UpdatePlanStatus)
				})
			})

			pr.Route("/devices", func(dr chi.Router) {
				dr.Post("/", deviceHandler.RegisterDevice)
				dr.Delete("/", deviceHandler.DeactivateDevices)
			})
		})
	})
}
