package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/invoice-matcher/internal/adapters/report"
	"github.com/eshaffer321/invoice-matcher/internal/api"
	"github.com/eshaffer321/invoice-matcher/internal/application/reconcile"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/logging"
)

// NewAPIServer wires the reconcile service and report renderer into an API server.
func NewAPIServer(cfg *config.Config, port int, logger *slog.Logger) *api.Server {
	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if port > 0 {
		apiCfg.Port = port
	}

	return api.NewServer(apiCfg, api.Deps{
		Reconciler: reconcile.NewService(cfg.Matching, cfg.Selection, logger.With("system", "reconcile")),
		Labels:     LabelsFromConfig(cfg.Records),
		Renderer:   report.New(report.Options{Locale: cfg.Report.Locale, Currency: cfg.Report.Currency}),
	}, logger)
}

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	server := NewAPIServer(cfg, flags.Port, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// LoadConfig loads the config file at path, falling back to the environment
// when the file does not exist
func LoadConfig(path string) (*config.Config, error) {
	return config.LoadOrEnvWithPath(path)
}
