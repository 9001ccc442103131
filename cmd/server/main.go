package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpggio/roster/internal/config"
	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/logging"
	"github.com/rpggio/roster/internal/mcp"
	"github.com/rpggio/roster/internal/sqlite"
	"github.com/rpggio/roster/internal/view"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roster server: %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closes always execute.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger, closeLog, err := logging.New(logWriter, cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log file error: %w", err)
	}
	defer closeLog()

	if err := sqlite.EnsureDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		return err
	}

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DB.Path, "error", err)
		return err
	}
	defer db.Close()

	paging, err := view.ParsePagingMode(cfg.View.Paging)
	if err != nil {
		logger.Error("invalid paging mode", "error", err)
		return err
	}

	students := student.NewService(sqlite.NewStudentRepository(db), logger)
	controller := view.NewController(students, view.Options{
		PageSize: cfg.View.PageSize,
		Paging:   paging,
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := controller.LoadNextPage(ctx)
	logger.Info("initial page loaded", "count", first.Value, "status", first.Message)

	mcpServer := mcp.NewServer(mcp.Config{
		Controller: controller,
		Sections:   students,
		Logger:     logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, cancel, logger, mcpServer)
	}
	return runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			serveErr <- err
		}
	}()

	return waitForShutdown(logger, httpServer, serveErr)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, serveErr <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
