package routes

import (
	"exam-supervision/proctorate/internal/api"
	"exam-supervision/proctorate/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.SyncHandlers, authSecret string) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.RateLimitMiddleware)
		v1.Use(middleware.ServiceAuthMiddleware(authSecret)) // global: every sync route needs the service token

		v1.Route("/sync", func(sync chi.Router) {
			sync.Post("/exam-halls", handlers.TriggerExamHalls)
			sync.Post("/hall-rooms/{facilityId}", handlers.TriggerHallRooms)

			// The literal segment must register before the {date} pattern.
			sync.Post("/participants/next-3-days", handlers.TriggerParticipantWindow)
			sync.Post("/participants/{date}", handlers.TriggerParticipantsForDate)

			sync.Get("/status", handlers.GetStatus)
			sync.Get("/history", handlers.GetHistory)
		})
	})
}
