package loader

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func createTestDB(t *testing.T, table string, records []string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec("CREATE TABLE " + quoteIdent(table) + " (id INTEGER PRIMARY KEY, record TEXT NOT NULL)")
	require.NoError(t, err)

	for _, rec := range records {
		_, err = db.Exec("INSERT INTO "+quoteIdent(table)+" (record) VALUES (?)", rec)
		require.NoError(t, err)
	}
	return dbPath
}

func TestSQLiteLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("basic records", func(t *testing.T) {
		dbPath := createTestDB(t, DefaultTable, []string{
			`{"_id": 1, "good_eats/food_type": "lunch", "good_eats/rating": 4}`,
			`{"_id": 2, "good_eats/food_type": "dinner"}`,
		})

		recs, err := SQLiteLoader{Path: dbPath}.Load(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		first, ok := recs[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "lunch", first["good_eats/food_type"])
		assert.Equal(t, 4.0, first["good_eats/rating"])
	})

	t.Run("custom table", func(t *testing.T) {
		dbPath := createTestDB(t, "form submissions", []string{`{"a": 1}`})

		recs, err := SQLiteLoader{Path: dbPath, Table: "form submissions"}.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 1)

		_, err = SQLiteLoader{Path: dbPath}.Load(ctx)
		require.Error(t, err)
	})

	t.Run("empty database", func(t *testing.T) {
		dbPath := createTestDB(t, DefaultTable, nil)

		recs, err := SQLiteLoader{Path: dbPath}.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("bad json is skipped", func(t *testing.T) {
		dbPath := createTestDB(t, DefaultTable, []string{`{"a": 1}`, `{not json`, `{"a": 3}`})

		recs, err := SQLiteLoader{Path: dbPath}.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := SQLiteLoader{Path: filepath.Join(t.TempDir(), "nope.db")}.Load(ctx)
		require.Error(t, err)
	})

	t.Run("stream keeps row order", func(t *testing.T) {
		dbPath := createTestDB(t, DefaultTable, []string{`"a"`, `"b"`, `"c"`})

		var got []string
		err := SQLiteLoader{Path: dbPath}.Stream(ctx, func(raw string) error {
			got = append(got, raw)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{`"a"`, `"b"`, `"c"`}, got)
	})
}
