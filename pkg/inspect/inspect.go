// Package inspect derives signature descriptions from Go declarations, so
// integrators can register ordinary structs and funcs instead of writing
// field lists by hand. A params struct becomes a Signature (one field per
// top-level parameter), nested structs become record types, and Callable
// wraps a plain Go function as an invocation target.
//
// Recognized struct tags: `arg:"-"` skips a field, `help:"..."` supplies
// help text, `default:"..."` declares a default value.
package inspect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cmdforge/cmdforge/pkg/cli"
)

// Params derives a Signature from a params struct, harvesting every nested
// record type into the returned RecordSet.
func Params(prototype any) (cli.Signature, cli.RecordSet, error) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return cli.Signature{}, nil, fmt.Errorf("params prototype must be a struct, got %s", t.Kind())
	}
	records := make(cli.RecordSet)
	fields, err := structFields(t, records)
	if err != nil {
		return cli.Signature{}, nil, err
	}
	return cli.Signature{Params: fields}, records, nil
}

// RecordOf derives a single record type (plus any nested records) from a
// struct prototype.
func RecordOf(prototype any, records cli.RecordSet) (*cli.RecordType, error) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record prototype must be a struct, got %s", t.Kind())
	}
	return recordFor(t, records)
}

func recordFor(t reflect.Type, records cli.RecordSet) (*cli.RecordType, error) {
	name := recordName(t)
	if existing, ok := records.Lookup(name); ok {
		return existing, nil
	}
	record := &cli.RecordType{Name: name}
	// Register before walking fields so self-references terminate here and
	// surface later as a flattening cycle, not infinite recursion.
	records[name] = record
	fields, err := structFields(t, records)
	if err != nil {
		return nil, err
	}
	record.Fields = fields
	return record, nil
}

func structFields(t reflect.Type, records cli.RecordSet) ([]cli.Field, error) {
	var fields []cli.Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("arg") == "-" {
			continue
		}
		declared, err := typeFor(sf.Type, records)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		field := cli.Field{
			Name: snakeCase(sf.Name),
			Type: declared,
			Help: sf.Tag.Get("help"),
		}
		if raw, ok := sf.Tag.Lookup("default"); ok {
			def, err := parseDefault(raw, declared)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: bad default %q: %w", t.Name(), sf.Name, raw, err)
			}
			field.Default = def
			field.HasDefault = true
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func typeFor(t reflect.Type, records cli.RecordSet) (cli.Type, error) {
	if t == reflect.TypeOf(time.Duration(0)) {
		return cli.Duration(), nil
	}
	switch t.Kind() {
	case reflect.String:
		return cli.String(), nil
	case reflect.Int, reflect.Int64:
		return cli.Int(), nil
	case reflect.Float64:
		return cli.Float(), nil
	case reflect.Bool:
		return cli.Bool(), nil
	case reflect.Slice:
		elem, err := typeFor(t.Elem(), records)
		if err != nil {
			return cli.Type{}, err
		}
		return cli.List(elem), nil
	case reflect.Ptr:
		elem, err := typeFor(t.Elem(), records)
		if err != nil {
			return cli.Type{}, err
		}
		return cli.Optional(elem), nil
	case reflect.Struct:
		record, err := recordFor(t, records)
		if err != nil {
			return cli.Type{}, err
		}
		return cli.Record(record.Name), nil
	default:
		return cli.Type{}, fmt.Errorf("unsupported Go type %s", t)
	}
}

func parseDefault(raw string, t cli.Type) (any, error) {
	inner, _ := t.Unwrap()
	switch inner.Kind {
	case cli.KindString, cli.KindPath, cli.KindEnum:
		return raw, nil
	case cli.KindInt:
		return strconv.Atoi(raw)
	case cli.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case cli.KindBool:
		return strconv.ParseBool(raw)
	case cli.KindDuration:
		return time.ParseDuration(raw)
	default:
		return nil, fmt.Errorf("defaults are not supported for %s", t)
	}
}

func recordName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// snakeCase converts an exported Go field name to its declared identifier.
func snakeCase(s string) string {
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper && !prevUpper {
			b.WriteByte('_')
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		prevUpper = upper
	}
	return b.String()
}
