// File path: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config carries the connection, source, and target-table settings shared by
// the staging and vault loaders.
type Config struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	SourceURL     string
	SourceTimeout time.Duration

	StagingSchema string
	StagingTable  string

	VaultSchema     string
	TableHubUsers   string
	TableHubLetters string
	TableSatLetters string
	TableLinkPosts  string
}

// DefaultConfig returns the baseline configuration used when no overrides are
// supplied.
func DefaultConfig() Config {
	return Config{
		DBHost:     "localhost",
		DBPort:     "5439",
		DBName:     "test_db_name",
		DBUser:     "postgres",
		DBPassword: "postgres",

		SourceURL:     "https://jsonplaceholder.typicode.com/posts/",
		SourceTimeout: 60 * time.Second,

		StagingSchema: "stg",
		StagingTable:  "raw_test_data",

		VaultSchema:     "dds",
		TableHubUsers:   "h_users",
		TableHubLetters: "h_letters",
		TableSatLetters: "s_letters",
		TableLinkPosts:  "l_posts",
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("DB_HOST")); value != "" {
		cfg.DBHost = value
	}
	if value := strings.TrimSpace(os.Getenv("DB_PORT")); value != "" {
		cfg.DBPort = value
	}
	if value := strings.TrimSpace(os.Getenv("DB_NAME")); value != "" {
		cfg.DBName = value
	}
	if value := strings.TrimSpace(os.Getenv("DB_USER")); value != "" {
		cfg.DBUser = value
	}
	if value := strings.TrimSpace(os.Getenv("DB_PASSWORD")); value != "" {
		cfg.DBPassword = value
	}
	if value := strings.TrimSpace(os.Getenv("SOURCE_URL")); value != "" {
		cfg.SourceURL = value
	}
	if value := strings.TrimSpace(os.Getenv("SOURCE_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse SOURCE_TIMEOUT: %w", err)
		}
		cfg.SourceTimeout = dur
	}
	if value := strings.TrimSpace(os.Getenv("STG_SCHEMA")); value != "" {
		cfg.StagingSchema = value
	}
	if value := strings.TrimSpace(os.Getenv("STG_TABLE")); value != "" {
		cfg.StagingTable = value
	}
	if value := strings.TrimSpace(os.Getenv("DDS_SCHEMA")); value != "" {
		cfg.VaultSchema = value
	}
	if value := strings.TrimSpace(os.Getenv("DDS_TABLE_H_USERS")); value != "" {
		cfg.TableHubUsers = value
	}
	if value := strings.TrimSpace(os.Getenv("DDS_TABLE_H_LETTERS")); value != "" {
		cfg.TableHubLetters = value
	}
	if value := strings.TrimSpace(os.Getenv("DDS_TABLE_S_LETTERS")); value != "" {
		cfg.TableSatLetters = value
	}
	if value := strings.TrimSpace(os.Getenv("DDS_TABLE_L_POSTS")); value != "" {
		cfg.TableLinkPosts = value
	}
	return cfg, cfg.Validate()
}

// DSN renders the Postgres connection string for the configured database.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   c.DBName,
	}
	return u.String()
}

// Validate reports the first missing or malformed setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBHost) == "" {
		return fmt.Errorf("db host required")
	}
	if strings.TrimSpace(c.DBPort) == "" {
		return fmt.Errorf("db port required")
	}
	if strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("db name required")
	}
	if strings.TrimSpace(c.DBUser) == "" {
		return fmt.Errorf("db user required")
	}
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("source url required")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive")
	}
	if strings.TrimSpace(c.StagingSchema) == "" || strings.TrimSpace(c.StagingTable) == "" {
		return fmt.Errorf("staging schema and table required")
	}
	if strings.TrimSpace(c.VaultSchema) == "" {
		return fmt.Errorf("vault schema required")
	}
	for _, table := range []string{c.TableHubUsers, c.TableHubLetters, c.TableSatLetters, c.TableLinkPosts} {
		if strings.TrimSpace(table) == "" {
			return fmt.Errorf("vault table names required")
		}
	}
	return nil
}
