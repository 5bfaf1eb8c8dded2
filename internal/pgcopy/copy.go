// File path: internal/pgcopy/copy.go

// Package pgcopy streams row batches into Postgres tables over the COPY
// protocol. Each copy runs on its own dedicated connection inside a single
// transaction, so loads never share cursors or transactional state.
package pgcopy

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nicodishanthj/vaultstage/internal/common"
)

// ErrDuplicateLoad marks a copy rejected by a uniqueness constraint: the
// batch (or part of it) is already present in the target table. Callers
// decide whether that counts as completion.
var ErrDuplicateLoad = errors.New("target rows already loaded")

// nullSentinel encodes SQL NULL inside the CSV stream.
const nullSentinel = `\N`

const (
	uniqueViolationCode = "23505"
	defaultBlockSize    = 65536
)

// TableRef names a copy target as schema plus table.
type TableRef struct {
	Schema string
	Table  string
}

func (t TableRef) String() string {
	if strings.TrimSpace(t.Schema) == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

// Copier performs bulk COPY loads against a single Postgres database.
type Copier struct {
	connString string
	blockSize  int
}

// Option adjusts copier construction.
type Option func(*Copier)

// WithBlockSize overrides the buffered chunk size used while streaming the
// CSV payload. It tunes throughput and memory only; any positive size is
// correct.
func WithBlockSize(size int) Option {
	return func(c *Copier) {
		if size > 0 {
			c.blockSize = size
		}
	}
}

// New constructs a copier for the given connection string.
func New(connString string, opts ...Option) (*Copier, error) {
	if strings.TrimSpace(connString) == "" {
		return nil, errors.New("connection string required")
	}
	copier := &Copier{connString: connString, blockSize: defaultBlockSize}
	for _, opt := range opts {
		if opt != nil {
			opt(copier)
		}
	}
	return copier, nil
}

// Copy streams rows into the target table with explicitly named columns.
// Rows are encoded as header-less CSV with \N for NULL and fed to
// COPY ... FROM STDIN through a bounded buffer. The copy commits on success
// and rolls back on any failure; the connection is closed on every path.
// A uniqueness conflict is reported as ErrDuplicateLoad with no rows kept.
func (c *Copier) Copy(ctx context.Context, table TableRef, columns []string, rows [][]any) (int64, error) {
	if c == nil {
		return 0, errors.New("copier not configured")
	}
	if len(columns) == 0 {
		return 0, errors.New("copy columns required")
	}
	logger := common.Logger()
	logger.Debug("copy: starting bulk load", "table", table.String(), "rows", len(rows))

	conn, err := pgx.Connect(ctx, c.connString)
	if err != nil {
		return 0, fmt.Errorf("connect for copy into %s: %w", table.String(), err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin copy into %s: %w", table.String(), err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	copied, err := c.copyRows(ctx, conn.PgConn(), table, columns, rows)
	if err != nil {
		return 0, translateCopyError(table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit copy into %s: %w", table.String(), err)
	}
	committed = true
	logger.Debug("copy: bulk load complete", "table", table.String(), "rows", copied)
	return copied, nil
}

func (c *Copier) copyRows(ctx context.Context, conn *pgconn.PgConn, table TableRef, columns []string, rows [][]any) (int64, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writeCSV(pw, rows, c.blockSize))
	}()

	tag, err := conn.CopyFrom(ctx, pr, copySQL(table, columns))
	if err != nil {
		// unblock the writer if the server rejected the stream mid-flight
		pr.CloseWithError(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// translateCopyError maps a uniqueness conflict to ErrDuplicateLoad and tags
// every failure with the target table.
func translateCopyError(table TableRef, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("copy into %s: %w: %s", table.String(), ErrDuplicateLoad, pgErr.Message)
	}
	return fmt.Errorf("copy into %s: %w", table.String(), err)
}

// copySQL renders the COPY command with quoted identifiers and an explicit
// column list, so the load never depends on target column order.
func copySQL(table TableRef, columns []string) string {
	target := pgx.Identifier{table.Table}
	if strings.TrimSpace(table.Schema) != "" {
		target = pgx.Identifier{table.Schema, table.Table}
	}
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = pgx.Identifier{column}.Sanitize()
	}
	return fmt.Sprintf(
		`COPY %s (%s) FROM STDIN WITH (FORMAT CSV, NULL '\N')`,
		target.Sanitize(),
		strings.Join(quoted, ","),
	)
}

func writeCSV(w io.Writer, rows [][]any, blockSize int) error {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	buffered := bufio.NewWriterSize(w, blockSize)
	writer := csv.NewWriter(buffered)
	record := make([]string, 0, 8)
	for _, row := range rows {
		record = record[:0]
		for _, value := range row {
			record = append(record, encodeValue(value))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buffered.Flush()
}

// encodeValue renders one field for the CSV stream. nil becomes the NULL
// sentinel; everything else uses its canonical string form.
func encodeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return nullSentinel
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
