package routes

import (
	"github.com/fgcbrasil/platform-backend/handlers"
	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes собирает дерево маршрутов платформы. Публичная часть —
// регистрация, вход, просмотр; все мутации требуют аутентификации, а
// административные операции — соответствующей роли.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	orgHandler *handlers.OrganizationHandler,
	champHandler *handlers.ChampionshipHandler,
	raffleHandler *handlers.RaffleHandler,
	missionHandler *handlers.MissionHandler,
	contributionHandler *handlers.ContributionHandler,
	rankingHandler *handlers.RankingHandler,
	supportHandler *handlers.SupportHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// Аутентификация
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Рейтинг, его пороги и миссии доступны без токена
	router.Get("/ranking", rankingHandler.Get)
	router.Get("/ranking/config", rankingHandler.GetConfig)
	router.Get("/missions", missionHandler.List)

	router.Route("/organizations", func(r chi.Router) {
		r.Get("/", orgHandler.List)
		r.Get("/{id}", orgHandler.GetByID)
		r.Get("/{id}/championships", champHandler.ListByOrganization)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireStaff)

			r.Put("/{id}", orgHandler.Update)
			r.Post("/{id}/logo", orgHandler.UploadLogo)
		})
	})

	router.Route("/championships", func(r chi.Router) {
		r.Get("/{id}", champHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireStaff)

			r.Get("/", champHandler.ListMine)
			r.Post("/", champHandler.Create)
			r.Post("/{id}/finalize", champHandler.FinalizeStandard)
			r.Post("/{id}/finalize-custom", champHandler.FinalizeCustom)
		})
	})

	router.Route("/raffle", func(r chi.Router) {
		r.Get("/", raffleHandler.GetCurrent)

		// Выдача билетов и сброс реестра — только глобальный администратор.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireGlobalAdmin)

			r.Post("/participants", raffleHandler.AddParticipant)
			r.Delete("/tickets", raffleHandler.Reset)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateProfile)
			r.Post("/me/avatar", userHandler.UploadAvatar)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireStaff)

			r.Get("/players", userHandler.ListPlayers)
			r.Get("/fans", userHandler.ListFans)
			r.Get("/{id}", userHandler.GetByID)
		})

		// Полный список пользователей (селектор рифы) — только глобальный
		// администратор.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireGlobalAdmin)

			r.Get("/", userHandler.List)
		})
	})

	router.Route("/contributions", func(r chi.Router) {
		r.Get("/total", contributionHandler.Total)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", contributionHandler.Contribute)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireStaff)

			r.Post("/donations", contributionHandler.RegisterDonation)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/missions/{id}/complete", missionHandler.Complete)
		r.Post("/support/tickets", supportHandler.SendTicket)
	})

	// Административные операции над глобальным рейтингом
	router.Route("/admin/ranking", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireGlobalAdmin)

		r.Put("/config", rankingHandler.SetConfig)
		r.Post("/reset", rankingHandler.ResetAllXP)
	})

	// WebSocket: живые события чемпионата (финализация)
	router.Get("/ws/championships/{championshipID}", webSocketHandler.ServeWs)
}
