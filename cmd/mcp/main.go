package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/me/narabid/internal/config"
	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/internal/logging"
	"github.com/me/narabid/internal/mcptool"
	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	dbPath := flag.String("db", "", "Fetch log database path (empty disables the log)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	// stdout carries the protocol; logs go to stderr.
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	clientOpts := []g2b.Option{}
	if cfg.DBPath != "" {
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
		clientOpts = append(clientOpts, g2b.WithRecorder(st))
	}

	client := g2b.NewClient(g2b.ClientConfig{
		BaseURL:    cfg.BaseURL,
		ServiceKey: cfg.ServiceKey,
		Timeout:    cfg.Timeout,
	}, logger, clientOpts...)
	svc := procurement.NewService(client, logger, procurement.WithResultCap(cfg.ResultCap))

	srv := mcptool.NewServer(svc, procurement.Defaults{
		NumOfRows: cfg.DefaultRows,
		MaxPages:  cfg.DefaultMaxPages,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mcp server starting", "transport", "stdio", "tool", mcptool.ToolName)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
