package cliapp

import (
	"errors"
	"fmt"
)

// ErrUsage reports a command line that does not name both the DDL file and the start table.
var ErrUsage = errors.New("usage: ddl-deps [flags] <ddl-file-path> <start-table-name>")

// InputError reports a DDL file that could not be read. Path is absolute.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read DDL file %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
