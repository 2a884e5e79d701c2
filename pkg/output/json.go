package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	indent string
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{indent: "  "}
}

func (f *JSONFormatter) Name() string { return "json" }

func (f *JSONFormatter) Format(w io.Writer, data any, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}
	enc := json.NewEncoder(w)
	if config.Pretty {
		enc.SetIndent("", f.indent)
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
