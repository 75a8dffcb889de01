package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/knitcount/internal/config"
	"github.com/rpggio/knitcount/internal/mcp"
	"github.com/rpggio/knitcount/internal/session"
	"github.com/rpggio/knitcount/internal/transport"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		mode string
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio or HTTP",
		Long: `Serve the counter tools to MCP clients.

In http mode the server exposes /mcp (MCP streamable HTTP), /rpc (plain
JSON-RPC 2.0 with the same methods) and /health.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("transport") {
				a.cfg.Transport.Mode = mode
			}
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			stdio := a.cfg.Transport.Mode == config.TransportStdio
			// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
			logWriter := os.Stdout
			if stdio {
				logWriter = os.Stderr
			}
			if err := a.open(logWriter); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sessions := session.NewManager(a.tracker, a.logger.With("component", "session"))
			mcpServer := mcp.NewServer(mcp.Config{
				Tracker:       a.tracker,
				Sessions:      sessions,
				AuthToken:     a.cfg.Auth.Token,
				TransportMode: a.cfg.Transport.Mode,
				Version:       version,
				Logger:        a.logger,
			})

			if stdio {
				return runStdioMode(ctx, a.logger, mcpServer)
			}
			handler := mcp.NewHandler(a.tracker, sessions, a.logger.With("component", "rpc"))
			return runHTTPMode(ctx, a.logger, mcpServer, handler, a.cfg)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", config.TransportHTTP, "transport mode: http or stdio")
	cmd.Flags().StringVar(&host, "host", "", "HTTP listen host")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP listen port")
	return cmd
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is cancelled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, handler transport.MCPHandler, cfg config.Config) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Token != "" {
		auth = transport.AuthMiddleware(cfg.Auth.Token)
	}
	router := transport.NewServer(handler, mcpHandler, auth)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Token != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
