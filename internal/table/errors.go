package table

import "fmt"

// InvalidFieldError reports a field that cannot be turned into a column.
type InvalidFieldError struct {
	Index  int // position in the field list
	Name   string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %d (%q): %s", e.Index, e.Name, e.Reason)
}

// RecordCountMismatchError reports records that are not a list.
type RecordCountMismatchError struct {
	Got string // Go type of the argument
}

func (e *RecordCountMismatchError) Error() string {
	return "records must be a list of objects, got " + e.Got
}
