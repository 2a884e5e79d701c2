package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Manager selects and drives formatters.
type Manager struct {
	formatters    map[string]Formatter
	defaultFormat string
	config        *FormatConfig
	writer        io.Writer
}

// NewManager creates a manager with the default formatter set.
func NewManager() *Manager {
	m := &Manager{
		formatters:    make(map[string]Formatter),
		defaultFormat: "json",
		config:        NewFormatConfig(),
		writer:        os.Stdout,
	}
	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewYAMLFormatter())
	m.RegisterFormatter(NewTableFormatter())
	return m
}

// RegisterFormatter adds or replaces a formatter.
func (m *Manager) RegisterFormatter(f Formatter) {
	m.formatters[f.Name()] = f
}

// SetDefaultFormat sets the format used when none is requested.
func (m *Manager) SetDefaultFormat(format string) {
	m.defaultFormat = format
}

// SetWriter redirects output, mainly for tests.
func (m *Manager) SetWriter(w io.Writer) {
	m.writer = w
}

// SetConfig replaces the rendering options.
func (m *Manager) SetConfig(config *FormatConfig) {
	m.config = config
}

// Formatter returns the named formatter.
func (m *Manager) Formatter(name string) (Formatter, error) {
	f, ok := m.formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return f, nil
}

// Print renders the result in the given format ("" for the default),
// applying transform first when non-empty.
func (m *Manager) Print(result any, format, transform string) error {
	t, err := NewTransformer(transform)
	if err != nil {
		return err
	}
	result, err = t.Apply(result)
	if err != nil {
		return err
	}

	if format == "" {
		format = m.defaultFormat
	}
	f, err := m.Formatter(format)
	if err != nil {
		return err
	}
	return f.Format(m.writer, result, m.config)
}
