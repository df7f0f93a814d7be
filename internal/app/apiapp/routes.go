package apiapp

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/drekeken-tech/sparmatch/internal/config"
	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	chatsvc "github.com/drekeken-tech/sparmatch/internal/services/chat"
	discoversvc "github.com/drekeken-tech/sparmatch/internal/services/discover"
	matchessvc "github.com/drekeken-tech/sparmatch/internal/services/matches"
	profilessvc "github.com/drekeken-tech/sparmatch/internal/services/profiles"
	swipesvc "github.com/drekeken-tech/sparmatch/internal/services/swipes"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	SwipeService    *swipesvc.Service
	MatchService    *matchessvc.Service
	ChatService     *chatsvc.Service
	DiscoverService *discoversvc.Service
	ProfileService  *profilessvc.Service
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	chatStreamHandler := handlers.NewChatStreamHandler(deps.ChatService, handlers.StreamConfig{
		WriteTimeout: deps.Config.Chat.WriteTimeout,
		PingInterval: deps.Config.Chat.PingInterval,
	}, deps.Logger)
	discoverHandler := handlers.NewDiscoverHandler(deps.DiscoverService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", handlers.Health)

	// The stream route stays outside the timeout group: websocket
	// connections are long-lived.
	r.With(authMW).Get("/chats/{matchID}/stream", chatStreamHandler.Stream)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(authMW)

		r.Get("/discover", discoverHandler.Handle)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/swipes/{targetID}", swipeHandler.Status)

		r.Get("/matches", matchesHandler.List)
		r.Get("/matches/{matchID}", matchesHandler.Get)
		r.Post("/matches/{matchID}/unmatch", matchesHandler.Unmatch)

		r.Get("/chats/{matchID}/messages", chatHandler.History)
		r.Post("/chats/{matchID}/messages", chatHandler.Send)

		r.Get("/profiles/me", profileHandler.GetMe)
		r.Post("/profiles/me", profileHandler.SaveMe)
		r.Get("/profiles/{userID}", profileHandler.GetByID)
	})
}
