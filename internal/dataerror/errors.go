// Package dataerror holds the typed errors returned while loading catalog and
// card data. The recommendation core itself never returns errors.
package dataerror

import "fmt"

// ParseError reports a value that could not be decoded.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record that decoded but violates a constraint.
type ValidationError struct {
	Source string
	Record string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("validation failed for %s (%s): %s", e.Source, e.Record, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports an input file whose format cannot be read.
type UnsupportedFormatError struct {
	FilePath string
	Format   string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format '%s' for file '%s' (expected .yaml, .yml or .csv)",
		e.Format, e.FilePath)
}
