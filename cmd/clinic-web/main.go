package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-web/internal/action"
	"clinic-web/internal/cart"
	"clinic-web/internal/config"
	"clinic-web/internal/handler"
	"clinic-web/internal/identity"
	"clinic-web/internal/middleware"
	"clinic-web/internal/observability"
	"clinic-web/internal/repository/postgres"
	"clinic-web/internal/security"
	"clinic-web/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", observability.Err(err))
		os.Exit(1)
	}
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting clinic web",
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session_store", cfg.SessionStore))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routes := middleware.DefaultRouteTable()
	slog.Warn("paths not listed in the route table are public; add new account pages to the protected list",
		slog.Any("protected", routes.Protected))

	var (
		store       identity.Store
		db          *sql.DB
		readyChecks = map[string]handler.Check{}
	)
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
		db, err = config.NewPostgresConnection(connCtx, cfg.DatabaseURL)
		if err == nil {
			err = postgres.Migrate(connCtx, db)
		}
		connCancel()
		if err != nil {
			slog.Error("failed to prepare session database", observability.Err(err))
			os.Exit(1)
		}
		defer db.Close()

		repo, err := postgres.NewSessionRepository(db)
		if err != nil {
			slog.Error("failed to prepare session statements", observability.Err(err))
			os.Exit(1)
		}
		defer repo.Close()

		repoStore := identity.NewRepositoryStore(repo)
		go startSessionCleanup(ctx, repoStore)
		store = repoStore
		readyChecks["database"] = handler.DatabaseCheck(db)
		slog.Info("using postgres session store")

	default:
		cookieStore, err := identity.NewCookieStore(cfg.SessionSecret)
		if err != nil {
			slog.Error("failed to create cookie session store", observability.Err(err))
			os.Exit(1)
		}
		store = cookieStore
		slog.Info("using signed cookie session store")
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 60*time.Second)
	redisClient, err := config.NewRedisClient(redisCtx, cfg.RedisURL, 10, 2*time.Second)
	redisCancel()
	if err != nil {
		slog.Error("failed to connect to redis", observability.Err(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	readyChecks["redis"] = handler.RedisCheck(redisClient)
	slog.Info("connected to redis")

	httpClient := &http.Client{Timeout: cfg.APITimeout}
	provider := identity.NewProvider(cfg.APIBaseURL, httpClient)
	readyChecks["remote_api"] = handler.PingCheck(provider.Ping)

	actions := action.NewClient(cfg.APIBaseURL, httpClient, identity.NewRequestAccessor(store))
	carts := cart.NewRedisStore(redisClient, cart.DefaultTTL)

	renderer, err := handler.NewRenderer()
	if err != nil {
		slog.Error("failed to parse templates", observability.Err(err))
		os.Exit(1)
	}

	authLimiter := middleware.NewRateLimiter(5, 10)
	defer authLimiter.Stop()

	router := handler.NewRouter(handler.Deps{
		Auth:           service.NewAuthService(provider, store, cfg.SessionStore, cfg.SessionTTL),
		Sessions:       store,
		Actions:        actions,
		Carts:          carts,
		Checkout:       service.NewCheckoutService(carts, actions.Orders()),
		Tokens:         security.NewTokenManager(),
		Renderer:       renderer,
		Cookies:        handler.CookieConfig{Secure: cfg.CookieSecure, SessionTTL: cfg.SessionTTL},
		Routes:         routes,
		AllowedOrigins: middleware.ParseOrigins(cfg.AllowedOrigins),
		AuthLimiter:    authLimiter,
		ReadyChecks:    readyChecks,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("clinic web listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", observability.Err(err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", observability.Err(err))
	}
	cancel()

	slog.Info("server stopped gracefully")
}

// startSessionCleanup deletes expired sessions every hour
func startSessionCleanup(ctx context.Context, store *identity.RepositoryStore) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping session cleanup task")
			return
		case <-ticker.C:
			cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			count, err := store.Cleanup(cleanupCtx)
			if err != nil {
				slog.Error("session cleanup failed", observability.Err(err))
			} else {
				observability.SessionsCleaned.Add(float64(count))
				slog.Info("session cleanup completed", slog.Int64("sessions_deleted", count))
			}
			cancel()
		}
	}
}
