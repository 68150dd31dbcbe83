package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/config"
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/crew"
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/logging"
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/web"

	_ "github.com/ChaDonSom/Crew-Console-API-Testing/internal/core/kinds"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	client := crew.NewClient(crew.Config{
		BaseURL:  cfg.Crew.BaseURL,
		APIToken: cfg.Crew.APIToken,
		Timeout:  cfg.Crew.Timeout,
	})

	server := web.NewServer(client, cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("server stopped")
}
