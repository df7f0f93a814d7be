package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drekeken-tech/sparmatch/internal/config"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
	redrepo "github.com/drekeken-tech/sparmatch/internal/repo/redis"
	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	chatsvc "github.com/drekeken-tech/sparmatch/internal/services/chat"
	discoversvc "github.com/drekeken-tech/sparmatch/internal/services/discover"
	matchessvc "github.com/drekeken-tech/sparmatch/internal/services/matches"
	profilessvc "github.com/drekeken-tech/sparmatch/internal/services/profiles"
	ratesvc "github.com/drekeken-tech/sparmatch/internal/services/rate"
	swipesvc "github.com/drekeken-tech/sparmatch/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	txManager := pgrepo.NewTxManager(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	chatBus := redrepo.NewChatBus(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, cfg.Auth.SessionTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikesPerMinute, cfg.Limits.LikesPer10Sec)
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Tx:          txManager,
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		RateLimiter: rateLimiter,
		Logger:      log,
	})
	matchesService := matchessvc.NewService(txManager, matchRepo, cfg.Limits.MatchesLimit)
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Messages: messageRepo,
		Matches:  matchRepo,
		Bus:      chatBus,
		Logger:   log,
	}, chatsvc.Config{
		HistoryLimit:     cfg.Limits.HistoryLimit,
		MaxContentBytes:  cfg.Limits.MaxMessageBytes,
		SubscriberBuffer: cfg.Chat.SubscriberBuffer,
	})
	discoverService := discoversvc.NewService(profileRepo, cfg.Limits.DiscoverLimit)
	profileService := profilessvc.NewService(profileRepo)

	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		SwipeService:    swipeService,
		MatchService:    matchesService,
		ChatService:     chatService,
		DiscoverService: discoverService,
		ProfileService:  profileService,
		Logger:          log,
		Config:          cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
