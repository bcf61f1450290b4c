package importer

import "fmt"

// emptyInputMessage is the exact failure reason reported when a file parses
// cleanly but contains no data rows.
const emptyInputMessage = "CSV file contains no valid product records"

// fieldCountMessage is the dedicated reason for row-length errors, kept
// distinguishable from generic parse failures. The reader tolerates varying
// column counts, so this only surfaces for files broken beyond that.
const fieldCountMessage = "column-count varies between rows"

// FileReadError indicates the import file could not be opened or read.
// It is fatal and aborts the run before any row is processed.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ParseError indicates structurally invalid delimited data, such as
// unterminated quoting. It is fatal and aborts the run.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid CSV data at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid CSV data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
