package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"silorealm/internal/domain/silo"
	"silorealm/internal/http/handlers"
	httpapi "silorealm/internal/http/httpapi"
	"silorealm/internal/infra"
	"silorealm/internal/providers/engine"
	"silorealm/internal/providers/image"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	catalog := silo.Default()

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build image generator")
	}
	if !hasProviderKey(cfg) {
		logger.Warn().Str("provider", cfg.ImageProvider).Msg("no api key configured, image generation will be skipped")
	}

	analyzer := engine.NewOpenAIAnalyzer(engine.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIAnalysisModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Catalog:      catalog,
		OnFallback: func(reason string, err error) {
			logger.Warn().Err(err).Str("reason", reason).Msg("analysis fell back to static result")
		},
	})

	app := handlers.NewApp(cfg, logger, catalog, analyzer, image.Instrument(generator))
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("provider", cfg.ImageProvider).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newGenerator(ctx context.Context, cfg *infra.Config) (image.Generator, error) {
	switch cfg.ImageProvider {
	case "gemini":
		return image.NewGeminiGenerator(ctx, image.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiImageModel,
			Timeout: cfg.ProviderTimeout,
		})
	default:
		return image.NewOpenAIGenerator(image.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			Model:        cfg.OpenAIImageModel,
			Timeout:      cfg.ProviderTimeout,
		}), nil
	}
}

func hasProviderKey(cfg *infra.Config) bool {
	if cfg.ImageProvider == "gemini" {
		return cfg.GeminiAPIKey != ""
	}
	return cfg.OpenAIAPIKey != ""
}
