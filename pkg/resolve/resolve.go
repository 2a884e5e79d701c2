// Package resolve maps declared parameter types to value converters and
// arity shapes. Built-in primitives have fixed conversion rules; consumers
// may register custom converters that take priority over the built-ins.
package resolve

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cmdforge/cmdforge/pkg/cli"
)

// Converter turns one raw string into a typed value.
type Converter func(raw string) (any, error)

// Registry holds converters keyed by kind and, with higher priority, by
// enum/record name.
type Registry struct {
	kinds map[cli.Kind]Converter
	named map[string]Converter
}

// NewRegistry returns a registry with the built-in primitive converters.
func NewRegistry() *Registry {
	r := &Registry{
		kinds: make(map[cli.Kind]Converter),
		named: make(map[string]Converter),
	}
	r.kinds[cli.KindString] = func(raw string) (any, error) { return raw, nil }
	r.kinds[cli.KindInt] = func(raw string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not an integer")
		}
		return n, nil
	}
	r.kinds[cli.KindFloat] = func(raw string) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number")
		}
		return f, nil
	}
	r.kinds[cli.KindBool] = func(raw string) (any, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not a boolean")
		}
		return b, nil
	}
	r.kinds[cli.KindPath] = func(raw string) (any, error) {
		return filepath.Clean(raw), nil
	}
	r.kinds[cli.KindDuration] = func(raw string) (any, error) {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not a duration")
		}
		return d, nil
	}
	return r
}

// RegisterKind replaces the converter for a primitive kind.
func (r *Registry) RegisterKind(k cli.Kind, c Converter) {
	r.kinds[k] = c
}

// RegisterNamed registers a converter for an enum or record name. A named
// converter for a record turns that record into a leaf instead of a
// composite.
func (r *Registry) RegisterNamed(name string, c Converter) {
	r.named[name] = c
}

// HasNamed reports whether a custom converter is registered for name.
func (r *Registry) HasNamed(name string) bool {
	_, ok := r.named[name]
	return ok
}

// Shape returns the arity shape for a declared type. hasDefault matters for
// booleans: a defaulted boolean is presence-toggled rather than valued.
func (r *Registry) Shape(t cli.Type, hasDefault bool) cli.Shape {
	inner, _ := t.Unwrap()
	switch inner.Kind {
	case cli.KindList:
		return cli.ShapeMulti
	case cli.KindBool:
		if hasDefault {
			return cli.ShapeFlag
		}
		return cli.ShapeScalar
	case cli.KindRecord:
		if r.HasNamed(inner.Record) {
			return cli.ShapeScalar
		}
		return cli.ShapeComposite
	default:
		return cli.ShapeScalar
	}
}

// Check verifies at construction time that t is convertible, naming the
// offending dotted path on failure. Record references are checked against
// the named converters only; composite expansion is the flattener's job.
func (r *Registry) Check(path string, t cli.Type) error {
	inner, _ := t.Unwrap()
	switch inner.Kind {
	case cli.KindList:
		if inner.Elem == nil {
			return &cli.UnsupportedTypeError{Path: path, Type: t}
		}
		elem, _ := inner.Elem.Unwrap()
		if elem.Kind == cli.KindList || elem.Kind == cli.KindRecord {
			// Nested collections and records-in-lists have no flat rendering.
			return &cli.UnsupportedTypeError{Path: path, Type: t}
		}
		return r.Check(path, *inner.Elem)
	case cli.KindEnum:
		if len(inner.Enum) == 0 {
			return &cli.UnsupportedTypeError{Path: path, Type: t}
		}
		return nil
	case cli.KindRecord:
		return nil
	default:
		if _, ok := r.kinds[inner.Kind]; !ok {
			return &cli.UnsupportedTypeError{Path: path, Type: t}
		}
		return nil
	}
}

// converterFor picks the converter for a non-list, non-composite type.
func (r *Registry) converterFor(t cli.Type) (Converter, error) {
	switch t.Kind {
	case cli.KindEnum:
		// A registered enum converter replaces the membership check.
		if c, ok := r.kinds[cli.KindEnum]; ok {
			return c, nil
		}
		members := t.Enum
		return func(raw string) (any, error) {
			for _, m := range members {
				if raw == m {
					return raw, nil
				}
			}
			return nil, fmt.Errorf("must be one of: %s", strings.Join(members, ", "))
		}, nil
	case cli.KindRecord:
		if c, ok := r.named[t.Record]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("record %q has no registered converter", t.Record)
	default:
		if c, ok := r.named[t.Record]; ok && t.Record != "" {
			return c, nil
		}
		if c, ok := r.kinds[t.Kind]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("type %s has no registered converter", t)
	}
}

// Convert turns the raw values for one leaf into its typed value. List
// elements are converted individually; empty raw input for a list yields an
// empty slice. Failures carry the dotted path, the raw text, and the
// expected type.
func (r *Registry) Convert(path string, t cli.Type, raw []string) (any, error) {
	inner, _ := t.Unwrap()

	if inner.Kind == cli.KindList {
		elem := *inner.Elem
		elemInner, _ := elem.Unwrap()
		conv, err := r.converterFor(elemInner)
		if err != nil {
			return nil, &cli.ValueConversionError{Path: path, Raw: strings.Join(raw, " "), Type: t, Err: err}
		}
		out := make([]any, 0, len(raw))
		for _, item := range raw {
			v, err := conv(item)
			if err != nil {
				return nil, &cli.ValueConversionError{Path: path, Raw: item, Type: elem, Err: err}
			}
			out = append(out, v)
		}
		return out, nil
	}

	conv, err := r.converterFor(inner)
	if err != nil {
		return nil, &cli.ValueConversionError{Path: path, Raw: strings.Join(raw, " "), Type: t, Err: err}
	}
	if len(raw) == 0 {
		return nil, &cli.MissingArgumentError{Path: path}
	}
	v, err := conv(raw[0])
	if err != nil {
		return nil, &cli.ValueConversionError{Path: path, Raw: raw[0], Type: t, Err: err}
	}
	return v, nil
}
