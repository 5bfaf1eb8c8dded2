// File path: cmd/stageload/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/vaultstage/internal/common"
	"github.com/nicodishanthj/vaultstage/internal/config"
	"github.com/nicodishanthj/vaultstage/internal/pgcopy"
	"github.com/nicodishanthj/vaultstage/internal/source"
	"github.com/nicodishanthj/vaultstage/internal/stage"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("stageload: .env file not loaded", "error", err)
	}

	sourceURL := flag.String("url", "", "source endpoint (overrides SOURCE_URL)")
	timeout := flag.String("timeout", "", "fetch timeout, e.g. 30s (overrides SOURCE_TIMEOUT)")
	schema := flag.String("schema", "", "staging schema (overrides STG_SCHEMA)")
	table := flag.String("table", "", "staging table (overrides STG_TABLE)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("stageload: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*sourceURL); trimmed != "" {
		cfg.SourceURL = trimmed
	}
	if trimmed := strings.TrimSpace(*timeout); trimmed != "" {
		dur, err := time.ParseDuration(trimmed)
		if err != nil {
			logger.Error("stageload: invalid timeout", "value", trimmed, "error", err)
			fmt.Println("timeout error:", err)
			os.Exit(1)
		}
		cfg.SourceTimeout = dur
	}
	if trimmed := strings.TrimSpace(*schema); trimmed != "" {
		cfg.StagingSchema = trimmed
	}
	if trimmed := strings.TrimSpace(*table); trimmed != "" {
		cfg.StagingTable = trimmed
	}

	logger.Info("stageload: starting", "url", cfg.SourceURL, "table", cfg.StagingSchema+"."+cfg.StagingTable)

	client, err := source.New(cfg.SourceURL, cfg.SourceTimeout)
	if err != nil {
		logger.Error("stageload: source client init failed", "error", err)
		fmt.Println("source error:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SourceTimeout)
	records, err := client.Fetch(ctx)
	cancel()
	if err != nil {
		logger.Error("stageload: fetch failed", "error", err)
		fmt.Println("fetch error:", err)
		os.Exit(1)
	}

	store, err := stage.Open(cfg.DSN(), cfg.StagingSchema, cfg.StagingTable)
	if err != nil {
		logger.Error("stageload: staging store init failed", "error", err)
		fmt.Println("staging store error:", err)
		os.Exit(1)
	}
	defer store.Close()

	copier, err := pgcopy.New(cfg.DSN())
	if err != nil {
		logger.Error("stageload: copier init failed", "error", err)
		fmt.Println("copier error:", err)
		os.Exit(1)
	}

	copied, err := store.Append(context.Background(), copier, records)
	if errors.Is(err, pgcopy.ErrDuplicateLoad) {
		logger.Warn("stageload: staging rows already loaded", "rows", len(records), "error", err)
		return
	}
	if err != nil {
		logger.Error("stageload: staging load failed", "rows", len(records), "error", err)
		fmt.Println("staging load error:", err)
		os.Exit(1)
	}
	logger.Info("stageload: finished", "rows", copied)
}
