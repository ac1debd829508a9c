package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/me/narabid/internal/config"
	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/internal/logging"
	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/internal/server"
	"github.com/me/narabid/internal/store"
)

func main() {
	def := config.DefaultServerConfig()

	configFile := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", def.Addr, "Listen address (or NARABID_ADDR env)")
	logLevel := flag.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", def.LogFormat, "Log format (text, json)")
	dbPath := flag.String("db", def.DBPath, "Fetch log database path (empty disables the log)")
	baseURL := flag.String("base-url", def.BaseURL, "Upstream API root")
	timeout := flag.Duration("timeout", def.Timeout, "Per upstream call timeout")
	resultCap := flag.Int("result-cap", def.ResultCap, "Max items returned per response")
	allowedOrigin := flag.String("allowed-origin", def.AllowedOrigin, "Access-Control-Allow-Origin value")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	// Precedence: defaults < config file < environment < explicit flags.
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "db":
			cfg.DBPath = *dbPath
		case "base-url":
			cfg.BaseURL = *baseURL
		case "timeout":
			cfg.Timeout = *timeout
		case "result-cap":
			cfg.ResultCap = *resultCap
		case "allowed-origin":
			cfg.AllowedOrigin = *allowedOrigin
		}
	})
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if cfg.ServiceKey == "" {
		logger.Warn("upstream service key not set; searches will fail", "hint", "set "+config.EnvServiceKey)
	}

	// Open the optional fetch log.
	var st store.Store
	clientOpts := []g2b.Option{}
	if cfg.DBPath != "" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
				os.Exit(1)
			}
		}
		sqlStore, err := store.NewSQLiteStore(cfg.DBPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open database: %v\n", err)
			os.Exit(1)
		}
		defer sqlStore.Close()

		if err := sqlStore.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
			os.Exit(1)
		}
		logger.Info("fetch log ready", "path", cfg.DBPath)
		st = sqlStore
		clientOpts = append(clientOpts, g2b.WithRecorder(sqlStore))
	}

	client := g2b.NewClient(g2b.ClientConfig{
		BaseURL:    cfg.BaseURL,
		ServiceKey: cfg.ServiceKey,
		Timeout:    cfg.Timeout,
	}, logger, clientOpts...)
	svc := procurement.NewService(client, logger, procurement.WithResultCap(cfg.ResultCap))

	srv := server.New(cfg, svc, st, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
