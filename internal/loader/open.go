package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentic-research/formtab/api"
	"github.com/go-git/go-billy/v5/osfs"
)

// Options tune the loaders picked by OpenSchema and OpenRecords.
type Options struct {
	Selector string        // JSONPath for JSON data documents
	Table    string        // SQLite table, DefaultTable when empty
	Timeout  time.Duration // HTTP fetch timeout
	Query    Query         // HTTP data parameters
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// IsSQLite reports whether location names a SQLite database.
func IsSQLite(location string) bool {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return !IsRemote(location)
	}
	return false
}

// OpenSource picks an HTTP source for URLs and a file source otherwise.
func OpenSource(location string, opts Options) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("empty location")
	}
	if IsRemote(location) {
		return HTTPSource{URL: location, Query: opts.Query, Timeout: opts.Timeout}, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", location, err)
	}
	return FileSource{FS: osfs.New(filepath.Dir(abs)), Path: filepath.Base(abs)}, nil
}

// OpenSchema returns a loader for the schema document at location.
func OpenSchema(location string, opts Options) (Loader[*api.Form], error) {
	src, err := OpenSource(location, Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, err
	}
	return SchemaLoader{Source: src}, nil
}

// OpenRecords returns a loader for the data at location: a SQLite database
// for .db/.sqlite files, a JSON document otherwise.
func OpenRecords(location string, opts Options) (Loader[[]any], error) {
	if IsSQLite(location) {
		return SQLiteLoader{Path: location, Table: opts.Table}, nil
	}
	src, err := OpenSource(location, opts)
	if err != nil {
		return nil, err
	}
	return RecordLoader{Source: src, Selector: opts.Selector}, nil
}
