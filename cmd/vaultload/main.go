// File path: cmd/vaultload/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/vaultstage/internal/common"
	"github.com/nicodishanthj/vaultstage/internal/config"
	"github.com/nicodishanthj/vaultstage/internal/pgcopy"
	"github.com/nicodishanthj/vaultstage/internal/stage"
	"github.com/nicodishanthj/vaultstage/internal/vault"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("vaultload: .env file not loaded", "error", err)
	}

	schema := flag.String("schema", "", "target vault schema (overrides DDS_SCHEMA)")
	hubUsers := flag.String("h-users", "", "hub users table (overrides DDS_TABLE_H_USERS)")
	hubLetters := flag.String("h-letters", "", "hub letters table (overrides DDS_TABLE_H_LETTERS)")
	satLetters := flag.String("s-letters", "", "satellite letters table (overrides DDS_TABLE_S_LETTERS)")
	linkPosts := flag.String("l-posts", "", "link posts table (overrides DDS_TABLE_L_POSTS)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("vaultload: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*schema); trimmed != "" {
		cfg.VaultSchema = trimmed
	}
	if trimmed := strings.TrimSpace(*hubUsers); trimmed != "" {
		cfg.TableHubUsers = trimmed
	}
	if trimmed := strings.TrimSpace(*hubLetters); trimmed != "" {
		cfg.TableHubLetters = trimmed
	}
	if trimmed := strings.TrimSpace(*satLetters); trimmed != "" {
		cfg.TableSatLetters = trimmed
	}
	if trimmed := strings.TrimSpace(*linkPosts); trimmed != "" {
		cfg.TableLinkPosts = trimmed
	}

	logger.Info(
		"vaultload: starting batch",
		"schema", cfg.VaultSchema,
		"staging", cfg.StagingSchema+"."+cfg.StagingTable,
	)

	store, err := stage.Open(cfg.DSN(), cfg.StagingSchema, cfg.StagingTable)
	if err != nil {
		logger.Error("vaultload: staging store init failed", "error", err)
		fmt.Println("staging store error:", err)
		os.Exit(1)
	}
	defer store.Close()

	copier, err := pgcopy.New(cfg.DSN())
	if err != nil {
		logger.Error("vaultload: copier init failed", "error", err)
		fmt.Println("copier error:", err)
		os.Exit(1)
	}

	loader, err := vault.NewLoader(store, copier, vault.Tables{
		Schema:           cfg.VaultSchema,
		HubUsers:         cfg.TableHubUsers,
		HubLetters:       cfg.TableHubLetters,
		SatelliteLetters: cfg.TableSatLetters,
		LinkPosts:        cfg.TableLinkPosts,
	})
	if err != nil {
		logger.Error("vaultload: loader init failed", "error", err)
		fmt.Println("loader error:", err)
		os.Exit(1)
	}

	if err := loader.Run(ctx); err != nil {
		logger.Error("vaultload: batch finished with failures", "error", err)
		fmt.Println("batch error:", err)
		os.Exit(1)
	}
	logger.Info("vaultload: batch finished")
}
