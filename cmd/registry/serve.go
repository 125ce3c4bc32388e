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

	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ganot/project-registry/internal/config"
	"github.com/ganot/project-registry/internal/mcp"
	"github.com/ganot/project-registry/internal/transport"
)

var version = "dev"

type serveOptions struct {
	*rootOptions
	Transport string
	Port      int
}

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry server",
		Long: `Run the registry server.

With --transport http the REST API, the MCP endpoint (/mcp) and
Prometheus metrics (/metrics) share one listener. With --transport stdio
the MCP server speaks over stdin/stdout and logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Transport, "transport", "", "transport mode (http|stdio), overrides config")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "HTTP port, overrides config")

	return cmd
}

func runServe(opts *serveOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.Transport != "" {
		cfg.Server.Transport = opts.Transport
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Keep stdout clean for JSON-RPC in stdio mode.
	stdio := cfg.Server.Transport == config.TransportStdio
	logger, closeLog, err := newLogger(cfg.Log, stdio)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := openApp(cfg.DB.Path, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer a.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.projects,
			Audit:    a.audit,
		},
		DefaultActor: cfg.Audit.DefaultActor,
		Version:      version,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if stdio {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, cfg, a, mcpServer)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, cfg config.Config, a *app, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewRouter(transport.Config{
		Projects:     a.projects,
		Audit:        a.audit,
		MCP:          mcpHandler,
		Metrics:      promhttp.Handler(),
		DefaultActor: cfg.Audit.DefaultActor,
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

// stderrOrStdout picks the default log destination.
func stderrOrStdout(stdio bool) *os.File {
	if stdio {
		return os.Stderr
	}
	return os.Stdout
}
