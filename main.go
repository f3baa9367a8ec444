package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handler"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/redisstore"
	"github.com/vidtube/backend/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title vidtube API
// @version 1.0
// @description Video platform backend: accounts, sessions, videos, comments, tweets, playlists, likes and subscriptions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logging.Must(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	timeout, err := cfg.Postgres.Timeout()
	if err != nil {
		return err
	}
	pageDefault, pageMax, err := cfg.Pagination.Sizes()
	if err != nil {
		return err
	}
	rps, burst, err := cfg.Server.RateLimit()
	if err != nil {
		return err
	}
	allowCredentials, err := cfg.Server.CredentialsAllowed()
	if err != nil {
		return err
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	store := db.New(pool, timeout)

	sessionCfg, err := service.SessionConfigFromEnv(cfg.Auth)
	if err != nil {
		return err
	}

	var credentials service.CredentialStore = store
	pingers := []handler.Pinger{store}
	switch strings.ToLower(cfg.Auth.CredentialBack) {
	case "", "postgres":
	case "redis":
		redisDB, err := cfg.Redis.DBIndex()
		if err != nil {
			return err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       redisDB,
		})
		defer client.Close()

		redisStore := redisstore.NewCredentialStore(client, sessionCfg.RefreshTTL)
		if err := redisStore.Ping(ctx); err != nil {
			return err
		}
		credentials = redisStore
		pingers = append(pingers, redisStore)
	default:
		return errors.New("CREDENTIAL_STORE must be postgres or redis")
	}
	log.Info("credential store selected", zap.String("backend", cfg.Auth.CredentialBack))

	sessions, err := service.NewSessionManager(credentials, store, sessionCfg)
	if err != nil {
		return err
	}
	auth, err := service.NewAuthService(store, sessions, cfg.Auth)
	if err != nil {
		return err
	}
	toggles := service.NewToggleService(store, store)
	reader := service.NewAggregationService(store, store)
	videos := service.NewVideoService(store)

	pages := handler.Pagination{DefaultSize: pageDefault, MaxSize: pageMax}
	router := handler.NewRouter(ctx, log, sessions, handler.Handlers{
		Auth:          handler.NewAuthHandler(auth, reader),
		Videos:        handler.NewVideoHandler(videos, pages),
		Comments:      handler.NewCommentHandler(service.NewCommentService(store, store), pages),
		Tweets:        handler.NewTweetHandler(service.NewTweetService(store), pages),
		Playlists:     handler.NewPlaylistHandler(service.NewPlaylistService(store, store), pages),
		Likes:         handler.NewLikeHandler(toggles, reader, pages),
		Subscriptions: handler.NewSubscriptionHandler(toggles, reader, pages),
		Dashboard:     handler.NewDashboardHandler(reader, videos, pages),
		Health:        handler.NewHealthHandler(pingers...),
	}, handler.RouterConfig{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: allowCredentials,
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
