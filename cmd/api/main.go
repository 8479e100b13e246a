package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KruASe76/grindex/internal/api"
	"github.com/KruASe76/grindex/internal/auth"
	"github.com/KruASe76/grindex/internal/config"
	"github.com/KruASe76/grindex/internal/domain"
	persistence "github.com/KruASe76/grindex/internal/persistence/postgres"
	"github.com/KruASe76/grindex/internal/relay"
	httptransport "github.com/KruASe76/grindex/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	store := persistence.NewStore(pool)

	sender := relay.NewClient(cfg.RelayURL, cfg.RelayToken, cfg.RelayTimeout)
	dispatcher := relay.NewDispatcher(pool, sender, log, cfg.RelayPollInterval, cfg.RelayBatchSize)
	go dispatcher.Start(ctx)

	authCfg := auth.Config{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}

	handler := api.NewHandler(
		authCfg,
		domain.NewUsers(store),
		domain.NewTracker(store),
		domain.NewActivities(store),
		domain.NewRooms(store),
		domain.NewMappings(store),
		domain.NewObjectives(store),
		domain.NewReactions(store),
		domain.NewStats(store),
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)))
		})
	}

	authMiddleware := auth.NewMiddleware(authCfg, api.AuthSkipper)

	server := httptransport.NewServer(
		httptransport.DefaultConfig(cfg.HTTPAddress),
		logger(cors(authMiddleware.Wrap(mux))),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("grindex api listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}

	dispatcher.Wait()
}
