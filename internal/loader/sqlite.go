package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table SQLiteLoader reads when Table is empty.
const DefaultTable = "results"

// SQLiteLoader reads records from a SQLite database holding one JSON
// document per row in a "record" column. The database is only read.
type SQLiteLoader struct {
	Path  string
	Table string
}

func (l SQLiteLoader) table() string {
	if l.Table == "" {
		return DefaultTable
	}
	return l.Table
}

// Load parses every record in the table. Rows whose record is not valid JSON
// are logged and skipped.
func (l SQLiteLoader) Load(ctx context.Context) ([]any, error) {
	var records []any
	err := l.Stream(ctx, func(raw string) error {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			log.Printf("sqlite %s: skipping record: %v", l.Path, err)
			return nil
		}
		records = append(records, parsed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []any{}
	}
	return records, nil
}

// Stream calls fn with the raw JSON of each record, in rowid order.
func (l SQLiteLoader) Stream(ctx context.Context, fn func(raw string) error) error {
	db, err := sql.Open("sqlite", "file:"+l.Path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", l.Path, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT record FROM %s ORDER BY rowid", quoteIdent(l.table())))
	if err != nil {
		return fmt.Errorf("query %s: %w", l.table(), err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
