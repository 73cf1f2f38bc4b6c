package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alanyang/agent-marketplace/internal/wire"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web pages, JSON API, websocket feed and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := validate(&cfg); err != nil {
					return err
				}
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := wire.Build(ctx, cfg)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("HTTP + MCP server listening", "addr", app.Server.Addr)
				if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				slog.Info("shutdown signal received")
			case serveErr = <-errCh:
				if serveErr != nil {
					slog.Error("HTTP server error", "error", serveErr)
				}
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer shutdownCancel()

			if err := app.Server.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
			}
			if err := app.Shutdown(shutdownCtx); err != nil {
				slog.Error("background shutdown error", "error", err)
			}

			slog.Info("marketplace server stopped")
			return serveErr
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}
