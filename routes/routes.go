package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sportarena/khokho-backend/handlers"
	"github.com/sportarena/khokho-backend/middleware"
	"github.com/sportarena/khokho-backend/models"
)

// SetupRoutes wires every endpoint onto the router. Reads are public; writes
// require a token, and most of them the ADMIN role. Match control and score
// entry additionally accept the match's own officials, which the handlers
// check themselves.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	scoringHandler *handlers.ScoringHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Get)
		r.Get("/{id}/teams", teamHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/{id}/standings", tournamentHandler.GetStandings)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", tournamentHandler.Create)
			r.Put("/{id}", tournamentHandler.Update)
			r.Delete("/{id}", tournamentHandler.Delete)
			r.Post("/{id}/generate-matches", tournamentHandler.GenerateMatches)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{id}", teamHandler.Get)
		r.Get("/{id}/players", playerHandler.ListByTeam)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", teamHandler.Create)
			r.Put("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)
			r.Post("/{id}/logo", teamHandler.UploadLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{id}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", playerHandler.Create)
			r.Put("/{id}", playerHandler.Update)
			r.Patch("/{id}/active", playerHandler.SetActive)
			r.Delete("/{id}", playerHandler.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{id}", matchHandler.Get)
		r.Get("/{id}/officials", matchHandler.ListOfficials)
		r.Get("/{id}/players", matchHandler.ListPlayers)

		// Match control: admins or this match's umpires. The state view is
		// for the match's officials, the live view for any signed-in caller.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/state/{id}", matchHandler.GetState)
			r.Get("/live/{id}", matchHandler.GetLiveView)

			r.Post("/start/{id}", matchHandler.Start)
			r.Post("/pause/{id}", matchHandler.Pause)
			r.Post("/resume/{id}", matchHandler.Resume)
			r.Post("/end/{id}", matchHandler.End)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", matchHandler.Create)
			r.Delete("/{id}", matchHandler.Delete)
			r.Post("/assign-official", matchHandler.AssignOfficial)
			r.Post("/assign-staff", matchHandler.AssignStaff)
			r.Post("/assign-player", matchHandler.AssignPlayer)
		})
	})

	router.Route("/scoring", func(r chi.Router) {
		r.Get("/scoreboard/{match_id}", scoringHandler.GetScoreboard)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/create-score", scoringHandler.CreateScore)
		})
	})

	router.Get("/ws/matches/{id}", webSocketHandler.ServeMatch)
}
