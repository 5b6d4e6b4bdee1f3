package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/desempenho/internal/auth"
	"github.com/urbanbyte/desempenho/internal/config"
	"github.com/urbanbyte/desempenho/internal/db"
	internalhttp "github.com/urbanbyte/desempenho/internal/http"
	"github.com/urbanbyte/desempenho/internal/identity"
	"github.com/urbanbyte/desempenho/internal/stats"
	"github.com/urbanbyte/desempenho/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Redis é opcional: sem REDIS_URL as estatísticas apenas perdem o cache.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
	}

	cipher, err := loadCipher(cfg)
	if err != nil {
		return fmt.Errorf("cipher: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	identityService := identity.NewService(identity.NewRepository(pool), cipher, jwtManager)
	workerService := worker.NewService(worker.NewRepository(pool))
	statsService := stats.NewService(stats.NewRepository(pool), redisClient)

	handler := internalhttp.NewRouter(cfg, pool, redisClient, identityService, workerService, statsService)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("api ouvindo")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("encerrando")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func loadCipher(cfg *config.Config) (*auth.Cipher, error) {
	if cfg.CipherKeyHex != "" {
		return auth.NewCipherFromHex(cfg.CipherKeyHex)
	}
	key, err := auth.LoadOrCreateKey(cfg.CipherKeyFile)
	if err != nil {
		return nil, err
	}
	return auth.NewCipher(key)
}
