package data

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an input file. It is
// raised before any computation touches the data.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// PreconditionError reports input that is structurally present but unusable:
// out-of-order timestamps, duplicate rows, unparseable values.
type PreconditionError struct {
	Path string
	Row  int // 1-based data row, 0 if not row-specific
	Msg  string
}

func (e *PreconditionError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: %s", e.Path, e.Row, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
