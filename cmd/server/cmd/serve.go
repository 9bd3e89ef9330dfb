package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bistro_back_end/internal/app"
	"bistro_back_end/internal/config"
)

var (
	serverPort  int
	storeDriver string
)

func newServeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and block until SIGINT/SIGTERM.

Examples:
  bistro serve
  bistro serve --port 8080
  bistro serve --store memory --log-format console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	c.Flags().IntVar(&serverPort, "port", 0, "listen port (default: PORT or 5000)")
	c.Flags().StringVar(&storeDriver, "store", "", "store driver: mongo or memory (default: STORE_DRIVER or mongo)")
	return c
}

func runServer() error {
	if storeDriver != "" {
		_ = os.Setenv("STORE_DRIVER", storeDriver)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	a, err := app.Build(ctx, cfg, logger)
	cancel()
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("❌ close error")
		}
	}()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.Handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("🚀 Bistro Boss server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return gracefulShutdown(server, errCh, logger)
}

func gracefulShutdown(server *http.Server, errCh <-chan error, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}
	logger.Info().Msg("🛑 shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
