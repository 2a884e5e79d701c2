package cli

import (
	"fmt"
	"strings"
)

// Construction-time errors indicate a mistake by the CLI author. They are
// raised while the command tree is built and abort startup.

// UnsupportedTypeError reports a declared type with no registered converter.
type UnsupportedTypeError struct {
	Path string
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("parameter %q: type %s is not supported", e.Path, e.Type)
}

// UnknownRecordError reports a record reference missing from the RecordSet.
type UnknownRecordError struct {
	Path   string
	Record string
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("parameter %q: record type %q is not declared", e.Path, e.Record)
}

// CyclicCompositeError reports a record type that reaches itself through its
// own fields.
type CyclicCompositeError struct {
	Path   string
	Record string
}

func (e *CyclicCompositeError) Error() string {
	return fmt.Sprintf("parameter %q: record type %q references itself", e.Path, e.Record)
}

// CompositeTooDeepError reports nesting beyond the configured maximum depth.
type CompositeTooDeepError struct {
	Path  string
	Depth int
}

func (e *CompositeTooDeepError) Error() string {
	return fmt.Sprintf("parameter %q: composite nesting exceeds maximum depth %d", e.Path, e.Depth)
}

// DuplicateFlagError reports two distinct parameters flattening to the same
// dotted path, naming both origins.
type DuplicateFlagError struct {
	Path   string
	First  string
	Second string
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("flag %q is declared by both %s and %s", e.Path, e.First, e.Second)
}

// DuplicateCommandError reports two sibling commands sharing a name or alias.
type DuplicateCommandError struct {
	Name   string
	Parent string
}

func (e *DuplicateCommandError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("duplicate command %q", e.Name)
	}
	return fmt.Sprintf("duplicate command %q under %q", e.Name, e.Parent)
}

// EmptyTreeError reports a build with no invocable command.
type EmptyTreeError struct{}

func (e *EmptyTreeError) Error() string {
	return "command tree has no invocable commands"
}

// Invocation-time errors indicate bad end-user input. They are reported with
// the offending dotted path and mapped to a non-zero exit code.

// MissingArgumentError reports a required leaf with no value and no default.
type MissingArgumentError struct {
	Path string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument %q", e.Path)
}

// ValueConversionError reports raw input that failed to convert.
type ValueConversionError struct {
	Path string
	Raw  string
	Type Type
	Err  error
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("argument %q: cannot convert %q to %s: %v", e.Path, e.Raw, e.Type, e.Err)
}

func (e *ValueConversionError) Unwrap() error { return e.Err }

// IncompleteCompositeError reports an optional composite that was partially
// supplied: some leaves present, while the named leaves are missing and have
// no defaults.
type IncompleteCompositeError struct {
	Path    string
	Missing []string
}

func (e *IncompleteCompositeError) Error() string {
	return fmt.Sprintf("composite %q is partially supplied; missing %s",
		e.Path, strings.Join(e.Missing, ", "))
}
