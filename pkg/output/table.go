package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/pterm/pterm"
)

// TableFormatter renders slices, maps, and structs as a table using pterm.
// Scalars fall back to plain printing.
type TableFormatter struct{}

// NewTableFormatter creates a table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Name() string { return "table" }

func (f *TableFormatter) Format(w io.Writer, data any, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}
	if data == nil {
		_, err := fmt.Fprintln(w)
		return err
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			_, err := fmt.Fprintln(w)
			return err
		}
		v = v.Elem()
	}

	var rows [][]string
	hasHeader := false
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		rows, hasHeader = sliceRows(v, config)
	case reflect.Map:
		rows = mapRows(v)
	case reflect.Struct:
		rows = structRows(v)
	default:
		_, err := fmt.Fprintln(w, data)
		return err
	}

	table := pterm.DefaultTable.WithWriter(w).WithHasHeader(hasHeader && config.ShowHeaders)
	if config.Colors {
		table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		pterm.DisableColor()
		defer pterm.EnableColor()
	}
	return table.WithData(rows).Render()
}

// sliceRows renders each element as one row; slices of maps get a header
// row from the union of keys.
func sliceRows(v reflect.Value, config *FormatConfig) ([][]string, bool) {
	if v.Len() == 0 {
		return nil, false
	}

	if first := reflect.ValueOf(v.Index(0).Interface()); first.Kind() == reflect.Map {
		keys := map[string]bool{}
		for i := 0; i < v.Len(); i++ {
			elem := reflect.ValueOf(v.Index(i).Interface())
			for _, k := range elem.MapKeys() {
				keys[fmt.Sprint(k.Interface())] = true
			}
		}
		header := make([]string, 0, len(keys))
		for k := range keys {
			header = append(header, k)
		}
		sort.Strings(header)

		rows := [][]string{header}
		for i := 0; i < v.Len(); i++ {
			elem := reflect.ValueOf(v.Index(i).Interface())
			row := make([]string, len(header))
			for j, k := range header {
				cell := elem.MapIndex(reflect.ValueOf(k))
				if cell.IsValid() {
					row[j] = fmt.Sprint(cell.Interface())
				}
			}
			rows = append(rows, row)
		}
		return rows, true
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows = append(rows, []string{fmt.Sprint(v.Index(i).Interface())})
	}
	return rows, false
}

func mapRows(v reflect.Value) [][]string {
	keys := make([]string, 0, v.Len())
	byKey := make(map[string]string, v.Len())
	for _, k := range v.MapKeys() {
		key := fmt.Sprint(k.Interface())
		keys = append(keys, key)
		byKey[key] = fmt.Sprint(v.MapIndex(k).Interface())
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, byKey[k]})
	}
	return rows
}

func structRows(v reflect.Value) [][]string {
	t := v.Type()
	rows := make([][]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		rows = append(rows, []string{t.Field(i).Name, fmt.Sprint(v.Field(i).Interface())})
	}
	return rows
}
