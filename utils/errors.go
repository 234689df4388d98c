package utils

import (
	"fmt"
	"path/filepath"
)

// UsageError reports a bad command line: no input files or an invalid flag.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return "usage: " + e.Msg }

// FileError reports an input file that could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports a malformed CSV header, data cell or sampling metadata.
// Line is 1-based; zero when the problem is not tied to one line.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	loc := filepath.Base(e.Path)
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Column != "" {
		loc = fmt.Sprintf("%s [%s]", loc, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a plot or summary file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
