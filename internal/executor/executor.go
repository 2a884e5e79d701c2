// Package executor dispatches a parsed invocation: it gathers the flat
// namespace produced by flag parsing, resolves every leaf through the type
// registry, reassembles composite parameters, and invokes the target with
// its original call shape restored.
package executor

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cmdforge/cmdforge/internal/builder"
	"github.com/cmdforge/cmdforge/internal/flatten"
	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/resolve"
)

// ValueSource backfills leaves the user did not set, keyed by dotted path.
// The config collaborator implements it.
type ValueSource interface {
	Lookup(path string) ([]string, bool)
}

// Executor resolves and dispatches one leaf command per run.
type Executor struct {
	Registry *resolve.Registry
	Style    builder.Style

	// PipeTarget is the dotted path that receives piped stdin, if any.
	PipeTarget string
	// Piped holds the piped input, read to completion before parsing.
	Piped *string

	// Fallback supplies values for unset leaves, if non-nil.
	Fallback ValueSource

	// Print renders the target's return value after a successful call.
	Print func(any) error

	invoked bool
}

// Invoked reports whether the last Execute reached the target callable.
// Errors after that point belong to the target, not to argument handling.
// A class initializer is part of the target: once its arguments resolved,
// a failing constructor reports as invoked too.
func (e *Executor) Invoked() bool { return e.invoked }

// Execute runs the selected leaf node against its parsed flags and
// positional arguments.
func (e *Executor) Execute(node *builder.CommandNode, cmd *cobra.Command, args []string) error {
	e.invoked = false

	topVals, err := e.resolveSet(node.Params, cmd, args, true)
	if err != nil {
		return err
	}

	var target cli.Invocable
	var callArgs []any
	switch {
	case node.Func != nil:
		target = &cli.Function{Call: node.Func.Call}
		callArgs = orderedArgs(node.Func.Sig, topVals)
	case node.Method != nil:
		recv, err := e.receiver(node, cmd)
		if err != nil {
			return err
		}
		target = &cli.MethodOnInstance{Receiver: recv, Call: node.Method.Call}
		callArgs = orderedArgs(node.Method.Sig, topVals)
	default:
		return fmt.Errorf("command %q is not invocable", node.Name)
	}

	e.invoked = true
	result, err := target.Invoke(callArgs)
	if err != nil {
		// Target errors propagate unchanged.
		return err
	}
	if e.Print != nil {
		return e.Print(result)
	}
	return nil
}

// receiver produces the instance a method runs on: the registered instance,
// or a fresh one built from the router-level initializer flags.
func (e *Executor) receiver(node *builder.CommandNode, cmd *cobra.Command) (any, error) {
	class := node.Class
	if class.Instance != nil {
		return class.Instance, nil
	}
	initVals, err := e.resolveSet(node.Parent.Params, cmd, nil, false)
	if err != nil {
		return nil, err
	}
	e.invoked = true
	return class.New(orderedArgs(class.Init, initVals))
}

// resolveSet runs the full leaf pipeline for one flattened set: collect raw
// values, fill positionals, substitute piped input, fall back to config,
// convert, and reassemble composites.
func (e *Executor) resolveSet(set *flatten.FlatSet, cmd *cobra.Command, args []string, positional bool) (map[string]any, error) {
	leaves := set.LeafSpecs()
	ns := collect(cmd, leaves)

	if positional && e.Style == builder.RequiredPositional {
		if err := fillPositionals(ns, leaves, args); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, fmt.Errorf("unexpected argument %q", args[0])
	}

	if e.PipeTarget != "" && e.Piped != nil {
		if _, set := ns[e.PipeTarget]; !set {
			if _, owns := findLeaf(leaves, e.PipeTarget); owns {
				ns[e.PipeTarget] = cli.Raw{Values: []string{*e.Piped}, Source: cli.SourcePipe}
			}
		}
	}

	if e.Fallback != nil {
		for _, spec := range leaves {
			if _, set := ns[spec.Path]; set {
				continue
			}
			if values, ok := e.Fallback.Lookup(spec.Path); ok {
				ns[spec.Path] = cli.Raw{Values: values, Source: cli.SourceConfig}
			}
		}
	}

	values := make(cli.Resolved, len(ns))
	present := make(map[string]bool, len(ns))
	for _, spec := range leaves {
		raw, ok := ns[spec.Path]
		if !ok {
			continue
		}
		v, err := e.Registry.Convert(spec.Path, spec.Type, raw.Values)
		if err != nil {
			return nil, err
		}
		values[spec.Path] = v
		present[spec.Path] = true
	}

	return set.Assemble(values, present)
}

// collect reads the changed flags for the given leaves into a FlatNamespace.
func collect(cmd *cobra.Command, leaves []cli.ParameterSpec) cli.FlatNamespace {
	ns := make(cli.FlatNamespace)
	for _, spec := range leaves {
		flag := lookupFlag(cmd, spec.Path)
		if flag == nil || !flag.Changed {
			continue
		}
		switch spec.Shape {
		case cli.ShapeMulti:
			if sv, ok := flag.Value.(pflag.SliceValue); ok {
				ns[spec.Path] = cli.Raw{Values: sv.GetSlice()}
				continue
			}
			ns[spec.Path] = cli.Raw{Values: []string{flag.Value.String()}}
		default:
			ns[spec.Path] = cli.Raw{Values: []string{flag.Value.String()}}
		}
	}
	return ns
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

// fillPositionals maps leftover positional arguments onto required leaves in
// flattened declaration order, skipping leaves already set by flag. At most
// one required collection participates and it consumes the remainder.
func fillPositionals(ns cli.FlatNamespace, leaves []cli.ParameterSpec, args []string) error {
	for _, spec := range leaves {
		if len(args) == 0 {
			return nil
		}
		if !spec.Required {
			continue
		}
		if _, set := ns[spec.Path]; set {
			continue
		}
		if spec.Shape == cli.ShapeMulti {
			ns[spec.Path] = cli.Raw{Values: args}
			args = nil
			return nil
		}
		ns[spec.Path] = cli.Raw{Values: []string{args[0]}}
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}
	return nil
}

func findLeaf(leaves []cli.ParameterSpec, path string) (cli.ParameterSpec, bool) {
	for _, spec := range leaves {
		if spec.Path == path {
			return spec, true
		}
	}
	return cli.ParameterSpec{}, false
}

// orderedArgs restores the target's original call shape: resolved top-level
// values in declaration order.
func orderedArgs(sig cli.Signature, vals map[string]any) []any {
	out := make([]any, len(sig.Params))
	for i, p := range sig.Params {
		out[i] = vals[p.Name]
	}
	return out
}
