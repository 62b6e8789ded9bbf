package loader

import "context"

// Source produces the raw bytes of a schema or data document.
// Implementations: MemorySource, FileSource, HTTPSource.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Loader turns a document into a value the core can use.
// SchemaLoader yields *api.Form; RecordLoader and SQLiteLoader yield records.
type Loader[T any] interface {
	Load(ctx context.Context) (T, error)
}
