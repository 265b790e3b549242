package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"currency-converter/internal/config"
	"currency-converter/internal/core"
	"currency-converter/internal/logging"
	"currency-converter/internal/rates"
	"currency-converter/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"rates_source", cfg.Rates.Source,
		"convert_max_concurrent", cfg.Convert.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	provider := buildRateProvider(cfg)

	service := core.NewService(provider, core.ServiceOptions{
		MaxConcurrent: cfg.Convert.MaxConcurrent,
		MaxWait:       cfg.Convert.MaxWaitTime,
		RowWorkers:    cfg.Convert.RowWorkers,
		ArtifactTTL:   cfg.Convert.ArtifactTTL,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := service.ActiveConversions(); active > 0 {
			slog.Info("waiting for conversions to complete", "active", active)
			if err := service.WaitForConversions(shutdownCtx); err != nil {
				slog.Warn("conversions did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// buildRateProvider selects the lookup strategy: static table only, or
// the live API with the static table as fallback.
func buildRateProvider(cfg *config.Config) core.RateSource {
	static := rates.NewStaticTable()
	if cfg.Rates.StaticOnly() {
		slog.Info("using static exchange rates")
		return static
	}
	if cfg.Rates.APIKey == "" {
		slog.Warn("EXCHANGE_RATE_API_KEY not set, live lookups will fall back to static rates")
	}
	return rates.NewFallback(rates.NewAPIClient(cfg.Rates.APIKey, cfg.Rates.APITimeout), static)
}
