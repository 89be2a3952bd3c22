package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"chunker/api/internal/app"
	"chunker/api/internal/cache"
	"chunker/api/internal/config"
	"chunker/api/internal/metrics"
	"chunker/api/internal/translation"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	m := metrics.New()

	opts := []translation.Option{
		translation.WithMetrics(m),
		translation.WithConcurrency(cfg.TranslateConcurrency),
		translation.WithLogger(logger),
		translation.WithPreferences(translation.Preferences{
			General: splitList(cfg.EngineOrder),
			Pairs:   translation.ParsePairs(cfg.EnginePairs),
		}),
	}

	// Translated chunks are cached only when Redis is configured.
	var readiness app.Pinger
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		readiness = redisCache
		opts = append(opts, translation.WithCache(redisCache))
		logger.Info().Dur("ttl", cfg.CacheTTL).Msg("using Redis translation cache")
	}

	var engines []translation.Engine
	if strings.TrimSpace(cfg.DeepLAuthKey) != "" {
		engines = append(engines, translation.NewDeepL(cfg.DeepLURL, cfg.DeepLAuthKey, cfg.DeepLCharLimit, nil))
	} else {
		logger.Warn().Msg("DEEPL_AUTH_KEY not set, translation disabled")
	}
	if cfg.TokenSecret == "" {
		logger.Warn().Msg("CHUNKER_TOKEN_SECRET not set, API is unauthenticated")
	}

	service := app.New(cfg, translation.New(engines, opts...), readiness, m, logger)
	httpServer := app.NewHTTPServer(service, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("chunker API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("service", "chunker-api").Logger()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
