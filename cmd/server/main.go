package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/procviz/internal/config"
	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/scheduler"
	"github.com/me/procviz/internal/server"
	"github.com/me/procviz/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML server config file")
	addr := flag.String("addr", "", "Listen address")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (text, json)")
	dbPath := flag.String("db", "", "Database path")
	quantum := flag.Int("quantum", 0, "Default Round Robin quantum for new workspaces")
	ttl := flag.Duration("workspace-ttl", -1, "Delete workspaces idle for longer than this (0 keeps them)")
	secure := flag.Bool("secure-cookies", false, "Mark the workspace cookie Secure (HTTPS)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	cfg := config.DefaultServerConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the file.
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *quantum != 0 {
		cfg.DefaultQuantum = *quantum
	}
	if *ttl >= 0 {
		cfg.WorkspaceTTL = *ttl
	}
	if *secure {
		cfg.SecureCookies = true
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	sweeper := scheduler.NewLoop(st, scheduler.SweepConfig{
		TTL:      cfg.WorkspaceTTL,
		Interval: cfg.SweepInterval,
	}, logger)

	srv := server.New(cfg, st, logger, server.WithSweeper(sweeper))

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.StartSweeper(ctx)

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "enabled_policies", cfg.EnabledPolicies)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if err := sweeper.Stop(); err != nil {
		logger.Error("sweeper stop error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
