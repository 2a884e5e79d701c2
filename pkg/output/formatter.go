// Package output is the result-printing collaborator: it renders a
// dispatched command's return value to the standard output stream in a
// selectable format, optionally after applying a transform expression.
package output

import "io"

// Formatter renders one result value in a specific format.
type Formatter interface {
	// Format writes data to w according to the formatter's rules.
	Format(w io.Writer, data any, config *FormatConfig) error

	// Name returns the format name ("json", "yaml", "table").
	Name() string
}

// FormatConfig carries rendering options shared by all formatters.
type FormatConfig struct {
	// Pretty enables indented output for JSON.
	Pretty bool
	// Colors enables colored table rendering.
	Colors bool
	// ShowHeaders controls the header row of tables.
	ShowHeaders bool
}

// NewFormatConfig returns the default configuration.
func NewFormatConfig() *FormatConfig {
	return &FormatConfig{
		Pretty:      true,
		ShowHeaders: true,
	}
}
