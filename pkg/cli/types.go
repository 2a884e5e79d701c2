// Package cli defines the core types shared by the cmdforge derivation
// pipeline: declared parameter types, record definitions, flattened
// parameter specs, and the invocable targets commands dispatch to.
package cli

import (
	"fmt"
	"strings"
)

// Kind identifies the semantic type of a declared parameter or field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindPath
	KindDuration
	KindEnum
	KindRecord
	KindList
	KindOptional
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindPath:     "path",
	KindDuration: "duration",
	KindEnum:     "enum",
	KindRecord:   "record",
	KindList:     "list",
	KindOptional: "optional",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a declared parameter type. Record types are referenced by name and
// resolved against a RecordSet, so that cycle detection and depth limits
// operate over explicit structure rather than native recursion.
type Type struct {
	Kind   Kind
	Elem   *Type    // element type for KindList and KindOptional
	Enum   []string // allowed members for KindEnum
	Record string   // record name for KindRecord
}

// Convenience constructors for declared types.
func String() Type   { return Type{Kind: KindString} }
func Int() Type      { return Type{Kind: KindInt} }
func Float() Type    { return Type{Kind: KindFloat} }
func Bool() Type     { return Type{Kind: KindBool} }
func Path() Type     { return Type{Kind: KindPath} }
func Duration() Type { return Type{Kind: KindDuration} }

// Enum declares an enumerated type with the given members.
func Enum(members ...string) Type {
	return Type{Kind: KindEnum, Enum: members}
}

// Record declares a reference to a named record type.
func Record(name string) Type {
	return Type{Kind: KindRecord, Record: name}
}

// List declares a repeatable sequence of elem.
func List(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// Optional declares "elem or absent".
func Optional(elem Type) Type {
	return Type{Kind: KindOptional, Elem: &elem}
}

// Unwrap strips an Optional wrapper, reporting whether one was present.
func (t Type) Unwrap() (Type, bool) {
	if t.Kind == KindOptional && t.Elem != nil {
		return *t.Elem, true
	}
	return t, false
}

// IsRecord reports whether t is a record reference, optionally wrapped.
func (t Type) IsRecord() bool {
	inner, _ := t.Unwrap()
	return inner.Kind == KindRecord
}

func (t Type) String() string {
	switch t.Kind {
	case KindEnum:
		return fmt.Sprintf("enum(%s)", strings.Join(t.Enum, "|"))
	case KindRecord:
		return fmt.Sprintf("record(%s)", t.Record)
	case KindList:
		if t.Elem != nil {
			return fmt.Sprintf("list of %s", t.Elem)
		}
		return "list"
	case KindOptional:
		if t.Elem != nil {
			return fmt.Sprintf("%s or absent", t.Elem)
		}
		return "optional"
	default:
		return t.Kind.String()
	}
}

// Field is one named, typed member of a signature or record declaration.
type Field struct {
	Name       string
	Type       Type
	Default    any
	HasDefault bool
	Help       string
}

// Required reports whether the field must be supplied by the end user.
func (f Field) Required() bool { return !f.HasDefault }

// RecordType describes a structured record as an ordered list of fields.
type RecordType struct {
	Name   string
	Fields []Field
}

// Field returns the named field, if declared.
func (r *RecordType) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RecordSet is the arena of named record types referenced by Type values.
type RecordSet map[string]*RecordType

// NewRecordSet builds a RecordSet from the given record declarations.
func NewRecordSet(records ...*RecordType) RecordSet {
	rs := make(RecordSet, len(records))
	for _, r := range records {
		rs[r.Name] = r
	}
	return rs
}

// Lookup resolves a record name.
func (rs RecordSet) Lookup(name string) (*RecordType, bool) {
	r, ok := rs[name]
	return r, ok
}

// Signature is the ordered parameter declaration of one callable.
type Signature struct {
	Params []Field
}

// Shape describes how a parameter consumes raw input.
type Shape int

const (
	// ShapeScalar takes exactly one value.
	ShapeScalar Shape = iota
	// ShapeMulti takes zero or more values, each converted individually.
	ShapeMulti
	// ShapeFlag is boolean presence; setting it toggles from the default.
	ShapeFlag
	// ShapeComposite is a record expanded into leaf flags.
	ShapeComposite
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeMulti:
		return "multi"
	case ShapeFlag:
		return "flag"
	case ShapeComposite:
		return "composite"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ParameterSpec is one node of the flattened parameter arena. Composite
// nodes link to their children by arena index; leaves have none.
type ParameterSpec struct {
	Name       string
	Path       string // dotted path from the command root
	Type       Type
	Shape      Shape
	Required   bool
	Default    any
	HasDefault bool
	Help       string
	Composite  bool
	Parent     int // arena index of the parent, -1 for top-level
	Children   []int
}

// Source records where a raw value came from.
type Source int

const (
	SourceArgs Source = iota
	SourcePipe
	SourceConfig
)

// Raw is the unconverted value of one leaf, as produced by the text parser.
type Raw struct {
	Values []string
	Source Source
}

// FlatNamespace maps dotted paths to raw values for one dispatch cycle.
type FlatNamespace map[string]Raw

// Resolved maps dotted paths to fully converted values.
type Resolved map[string]any
