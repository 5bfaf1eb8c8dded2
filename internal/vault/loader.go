// File path: internal/vault/loader.go
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nicodishanthj/vaultstage/internal/common"
	"github.com/nicodishanthj/vaultstage/internal/pgcopy"
	"github.com/nicodishanthj/vaultstage/internal/source"
)

// RecordSource supplies the staged batch as one ordered blocking read.
type RecordSource interface {
	Snapshot(ctx context.Context) ([]source.Record, error)
}

// TableCopier bulk-loads one projection into one target table.
type TableCopier interface {
	Copy(ctx context.Context, table pgcopy.TableRef, columns []string, rows [][]any) (int64, error)
}

// Tables names the vault schema and its four target tables.
type Tables struct {
	Schema           string
	HubUsers         string
	HubLetters       string
	SatelliteLetters string
	LinkPosts        string
}

func (t Tables) validate() error {
	for _, name := range []string{t.Schema, t.HubUsers, t.HubLetters, t.SatelliteLetters, t.LinkPosts} {
		if strings.TrimSpace(name) == "" {
			return errors.New("vault schema and table names required")
		}
	}
	return nil
}

// Loader drives one staging-to-vault batch end to end.
type Loader struct {
	src    RecordSource
	copier TableCopier
	tables Tables
}

// NewLoader wires the orchestrator from its collaborators.
func NewLoader(src RecordSource, copier TableCopier, tables Tables) (*Loader, error) {
	if src == nil {
		return nil, errors.New("record source required")
	}
	if copier == nil {
		return nil, errors.New("table copier required")
	}
	if err := tables.validate(); err != nil {
		return nil, err
	}
	return &Loader{src: src, copier: copier, tables: tables}, nil
}

// tableLoad pairs one projection with its copy target.
type tableLoad struct {
	table   pgcopy.TableRef
	columns []string
	rows    [][]any
}

// Run executes one full batch: snapshot, enrich, project, then the four
// concurrent table loads. Loads start only after projection completes. A
// duplicate conflict on one table is logged and counted as completion; any
// other load failure is fatal for that table alone and never cancels its
// siblings. The returned error joins the fatal outcomes, nil for a clean or
// duplicate-only batch.
func (l *Loader) Run(ctx context.Context) error {
	if l == nil {
		return errors.New("loader not initialised")
	}
	logger := common.Logger()

	records, err := l.src.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch staging batch: %w", err)
	}
	enriched := Enrich(records)
	projections := Project(enriched)
	logger.Info(
		"vault: batch projected",
		"records", len(records),
		"hub_users", len(projections.HubUsers),
		"hub_letters", len(projections.HubLetters),
	)

	loads := []tableLoad{
		{
			table:   pgcopy.TableRef{Schema: l.tables.Schema, Table: l.tables.HubUsers},
			columns: []string{"user_id", "user_id_hash"},
			rows:    projections.hubUserRows(),
		},
		{
			table:   pgcopy.TableRef{Schema: l.tables.Schema, Table: l.tables.HubLetters},
			columns: []string{"letter_id", "letter_id_hash"},
			rows:    projections.hubLetterRows(),
		},
		{
			table:   pgcopy.TableRef{Schema: l.tables.Schema, Table: l.tables.SatelliteLetters},
			columns: []string{"letter_id_hash", "title", "body"},
			rows:    projections.satelliteLetterRows(),
		},
		{
			table:   pgcopy.TableRef{Schema: l.tables.Schema, Table: l.tables.LinkPosts},
			columns: []string{"user_id_hash", "letter_id_hash"},
			rows:    projections.linkPostRows(),
		},
	}

	results := make(chan error, len(loads))
	var wg sync.WaitGroup
	for _, load := range loads {
		wg.Add(1)
		go func(load tableLoad) {
			defer wg.Done()
			results <- l.loadTable(ctx, load)
		}(load)
	}
	wg.Wait()
	close(results)

	var failures []error
	for err := range results {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	logger.Info("vault: batch complete", "records", len(records))
	return nil
}

// loadTable performs one table's bulk copy on its own connection.
func (l *Loader) loadTable(ctx context.Context, load tableLoad) error {
	logger := common.Logger()
	copied, err := l.copier.Copy(ctx, load.table, load.columns, load.rows)
	switch {
	case errors.Is(err, pgcopy.ErrDuplicateLoad):
		logger.Warn(
			"vault: batch already loaded, skipping table",
			"table", load.table.String(),
			"rows", len(load.rows),
		)
		return nil
	case err != nil:
		logger.Error(
			"vault: table load failed",
			"table", load.table.String(),
			"rows", len(load.rows),
			"error", err,
		)
		return err
	default:
		logger.Debug("vault: table loaded", "table", load.table.String(), "rows", copied)
		return nil
	}
}
