// File path: internal/pgcopy/copy_test.go
package pgcopy

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestCopySQL(t *testing.T) {
	sql := copySQL(TableRef{Schema: "dds", Table: "h_users"}, []string{"user_id", "user_id_hash"})
	want := `COPY "dds"."h_users" ("user_id","user_id_hash") FROM STDIN WITH (FORMAT CSV, NULL '\N')`
	if sql != want {
		t.Fatalf("copySQL = %q, want %q", sql, want)
	}
}

func TestCopySQLWithoutSchema(t *testing.T) {
	sql := copySQL(TableRef{Table: "raw_test_data"}, []string{"id"})
	if !strings.HasPrefix(sql, `COPY "raw_test_data" ("id")`) {
		t.Fatalf("copySQL = %q", sql)
	}
}

func TestWriteCSVEncodesRows(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]any{
		{int64(1), "c4ca4238a0b923820dcc509a6f75849b"},
		{int64(2), nil},
	}
	if err := writeCSV(&buf, rows, 16); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	want := "1,c4ca4238a0b923820dcc509a6f75849b\n2,\\N\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVQuotesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]any{
		{int64(1), `title, with "comma"`, "line one\nline two"},
	}
	if err := writeCSV(&buf, rows, 0); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	want := "1,\"title, with \"\"comma\"\"\",\"line one\nline two\"\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, nil, 64); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty batch wrote %q", buf.String())
	}
}

func TestEncodeValue(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{nil, `\N`},
		{"plain", "plain"},
		{int64(42), "42"},
		{17, "17"},
		{true, "true"},
		{3.5, "3.5"},
	}
	for _, tc := range cases {
		if got := encodeValue(tc.value); got != tc.want {
			t.Errorf("encodeValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestTranslateCopyErrorUniqueViolation(t *testing.T) {
	table := TableRef{Schema: "dds", Table: "h_users"}
	pgErr := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "h_users_pkey"`}
	err := translateCopyError(table, pgErr)
	if !errors.Is(err, ErrDuplicateLoad) {
		t.Fatalf("unique violation not mapped to ErrDuplicateLoad: %v", err)
	}
	if !strings.Contains(err.Error(), "dds.h_users") {
		t.Errorf("error lacks table context: %v", err)
	}
}

func TestTranslateCopyErrorOtherFailures(t *testing.T) {
	table := TableRef{Schema: "dds", Table: "l_posts"}
	cases := []error{
		&pgconn.PgError{Code: "23502", Message: "null value in column"},
		errors.New("connection refused"),
	}
	for _, cause := range cases {
		err := translateCopyError(table, cause)
		if errors.Is(err, ErrDuplicateLoad) {
			t.Errorf("non-duplicate failure mapped to ErrDuplicateLoad: %v", cause)
		}
		if !strings.Contains(err.Error(), "dds.l_posts") {
			t.Errorf("error lacks table context: %v", err)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(" "); err == nil {
		t.Error("New accepted blank connection string")
	}
	copier, err := New("postgres://localhost/db", WithBlockSize(1024))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if copier.blockSize != 1024 {
		t.Errorf("blockSize = %d, want 1024", copier.blockSize)
	}
	copier, err = New("postgres://localhost/db", WithBlockSize(-1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if copier.blockSize != defaultBlockSize {
		t.Errorf("blockSize = %d, want default %d", copier.blockSize, defaultBlockSize)
	}
}

func TestTableRefString(t *testing.T) {
	if got := (TableRef{Schema: "dds", Table: "h_users"}).String(); got != "dds.h_users" {
		t.Errorf("String() = %q", got)
	}
	if got := (TableRef{Table: "raw_test_data"}).String(); got != "raw_test_data" {
		t.Errorf("String() = %q", got)
	}
}
