package aggregate

import (
	"fmt"

	"github.com/agentic-research/formtab/internal/table"
)

// UnknownColumnError reports a query on a path the table has no column for.
type UnknownColumnError struct {
	Path string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("field does not exist: %q", e.Path)
}

// UnsupportedAggregationError reports an aggregation the column's kind cannot answer.
type UnsupportedAggregationError struct {
	Path string
	Kind table.Kind
	Op   string
}

func (e *UnsupportedAggregationError) Error() string {
	return fmt.Sprintf("%s is not supported on %s column %q", e.Op, e.Kind, e.Path)
}
