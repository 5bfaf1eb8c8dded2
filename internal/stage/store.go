// File path: internal/stage/store.go

// Package stage reads and lands the raw staging snapshot. The staging table
// is a pass-through copy of the source payload; nothing here reshapes rows.
package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/vaultstage/internal/common"
	"github.com/nicodishanthj/vaultstage/internal/pgcopy"
	"github.com/nicodishanthj/vaultstage/internal/source"
)

// Copier bulk-loads one row batch into one staging table.
type Copier interface {
	Copy(ctx context.Context, table pgcopy.TableRef, columns []string, rows [][]any) (int64, error)
}

// Store wraps a pooled sqlx.DB connection to the staging schema.
type Store struct {
	db     *sqlx.DB
	schema string
	table  string
}

// Open constructs a Store for the staging table behind the given DSN.
func Open(dsn, schema, table string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("staging dsn required")
	}
	if strings.TrimSpace(schema) == "" || strings.TrimSpace(table) == "" {
		return nil, errors.New("staging schema and table required")
	}
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open staging db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping staging db: %w", err)
	}
	return &Store{db: db, schema: schema, table: table}, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Snapshot returns the full staging table as one ordered batch. Every run
// treats this snapshot as the batch to load; there is no delta detection.
func (s *Store) Snapshot(ctx context.Context) ([]source.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("staging store not initialised")
	}
	logger := common.Logger()
	logger.Debug("stage: downloading snapshot", "table", s.schema+"."+s.table)

	records := []source.Record{}
	query := fmt.Sprintf(
		`SELECT user_id, id, title, body FROM %s.%s ORDER BY id`,
		quoteIdent(s.schema), quoteIdent(s.table),
	)
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select staging snapshot: %w", err)
	}
	logger.Debug("stage: snapshot complete", "rows", len(records))
	return records, nil
}

// Append bulk-copies fetched records into the staging table unchanged.
func (s *Store) Append(ctx context.Context, copier Copier, records []source.Record) (int64, error) {
	if s == nil {
		return 0, errors.New("staging store not initialised")
	}
	if copier == nil {
		return 0, errors.New("copier required")
	}
	rows := make([][]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, []any{record.UserID, record.ID, record.Title, record.Body})
	}
	table := pgcopy.TableRef{Schema: s.schema, Table: s.table}
	return copier.Copy(ctx, table, source.Columns(), rows)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
