package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/padelpoint/tournament-system/handlers"
	"github.com/padelpoint/tournament-system/middleware"
)

// SetupRoutes wires every endpoint. Reads are public; everything that
// generates or mutates competition state requires an organizer or admin
// token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	divisionHandler *handlers.DivisionHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	scheduleHandler *handlers.ScheduleHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/divisions/{divisionID}", func(r chi.Router) {
		r.Get("/", divisionHandler.GetDivisionOverviewHandler)
		r.Get("/matches", divisionHandler.ListDivisionMatchesHandler)
		r.Get("/standings", divisionHandler.GetStandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/bracket", bracketHandler.GenerateBracketHandler)
			r.Post("/groups", bracketHandler.GenerateGroupPhaseHandler)
			r.Post("/knockout", bracketHandler.GenerateKnockoutStageHandler)
			r.Post("/standings/recalculate", divisionHandler.CalculateStandingsHandler)
			r.Post("/schedule", scheduleHandler.ScheduleMatchesHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatchHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Put("/scores", matchHandler.RecordScoresHandler)
		})
	})
}
