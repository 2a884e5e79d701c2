package cmdforge

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdforge/cmdforge/internal/builder"
	"github.com/cmdforge/cmdforge/internal/executor"
	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/cli/builtin"
	"github.com/cmdforge/cmdforge/pkg/docs"
	"github.com/cmdforge/cmdforge/pkg/output"
	"github.com/cmdforge/cmdforge/pkg/pipe"
	"github.com/cmdforge/cmdforge/pkg/resolve"
)

// Exit codes, reported by Main.
const (
	ExitSuccess     = 0
	ExitInvalidArgs = 1
	ExitRuntimeErr  = 2
	ExitParsingErr  = 3
)

// App accumulates registrations and derives the CLI from them. Registration
// order is preserved; the command tree is built once per Run and is
// read-only afterward.
type App struct {
	name        string
	description string
	version     string

	registry   *resolve.Registry
	records    cli.RecordSet
	docs       docs.Provider
	regs       []cli.Registration
	style      builder.Style
	maxDepth   int
	pipeTarget map[string]string
	fallback   ValueSource
	configErr  error

	printing      bool
	defaultFormat string
	outputManager *output.Manager

	completion bool
	shells     []string

	exec *executor.Executor
}

// ValueSource backfills unset flags from an external source such as the
// config collaborator.
type ValueSource interface {
	Lookup(path string) ([]string, bool)
}

// New creates an App named name.
func New(name string, options ...Option) *App {
	a := &App{
		name:          name,
		registry:      resolve.NewRegistry(),
		records:       make(cli.RecordSet),
		style:         builder.RequiredPositional,
		pipeTarget:    make(map[string]string),
		defaultFormat: "json",
		completion:    true,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Registry exposes the type resolver so custom converters can be added.
func (a *App) Registry() *resolve.Registry { return a.registry }

// Records registers record type declarations used by parameter types.
func (a *App) Records(records ...*cli.RecordType) *App {
	for _, r := range records {
		a.records[r.Name] = r
	}
	return a
}

// Func registers a plain callable as a command.
func (a *App) Func(fn *cli.FuncCommand) *App {
	a.regs = append(a.regs, cli.Registration{Func: fn})
	return a
}

// Class registers a class or instance as a command group.
func (a *App) Class(class *cli.ClassCommand) *App {
	a.regs = append(a.regs, cli.Registration{Class: class})
	return a
}

// reservedFlags are the paths the framework owns on every command.
func (a *App) reservedFlags() []string {
	reserved := []string{"help"}
	if a.printing {
		reserved = append(reserved, "output", "transform")
	}
	if a.version != "" {
		reserved = append(reserved, "version")
	}
	return reserved
}

// reservedShorthands are the abbreviations the framework's own flags use.
// The generator must never hand them to a parameter, or the flag sets
// collide when Cobra merges them at parse time.
func (a *App) reservedShorthands() []string {
	var shorts []string
	if a.printing {
		shorts = append(shorts, "o")
	}
	if a.version != "" {
		shorts = append(shorts, "v")
	}
	return shorts
}

// Build derives the Cobra command hierarchy from the registrations.
// Construction-time errors (unsupported types, cycles, duplicate flags or
// names, an empty tree) are returned here, never deferred to invocation.
func (a *App) Build() (*cobra.Command, error) {
	if a.configErr != nil {
		return nil, a.configErr
	}
	tree, err := builder.Build(a.regs, builder.Options{
		Registry:           a.registry,
		Records:            a.records,
		Docs:               a.docs,
		MaxDepth:           a.maxDepth,
		Style:              a.style,
		Reserved:           a.reservedFlags(),
		ReservedShorthands: a.reservedShorthands(),
	})
	if err != nil {
		return nil, err
	}

	a.exec = &executor.Executor{
		Registry: a.registry,
		Style:    a.style,
		Fallback: a.fallback,
	}
	if len(a.pipeTarget) > 0 {
		if piped, ok := pipe.Read(); ok {
			a.exec.Piped = &piped
		}
	}

	root := tree.Cobra(a.name, a.description, a.run)
	root.Version = a.version
	if a.printing {
		if a.outputManager == nil {
			a.outputManager = output.NewManager()
		}
		root.PersistentFlags().StringP("output", "o", a.defaultFormat, "Output format (json, yaml, table)")
		root.PersistentFlags().String("transform", "", "Expression applied to the result before printing")
	}
	if a.version != "" {
		root.AddCommand(builtin.NewVersionCommand(&builtin.VersionOptions{
			CLIName: a.name,
			Version: a.version,
		}))
	}
	if a.completion && !tree.Single {
		root.AddCommand(builtin.NewCompletionCommand(&builtin.CompletionOptions{
			CLIName:       a.name,
			EnabledShells: a.shells,
		}, root))
	}
	return root, nil
}

// run adapts the executor to the builder's run callback, wiring the
// per-command pipe target and the result printer.
func (a *App) run(node *builder.CommandNode, cmd *cobra.Command, args []string) error {
	a.exec.PipeTarget = a.pipeTarget[node.Path()]
	if a.exec.PipeTarget == "" {
		a.exec.PipeTarget = a.pipeTarget[""]
	}
	if a.printing {
		format, _ := cmd.Flags().GetString("output")
		transform, _ := cmd.Flags().GetString("transform")
		a.exec.Print = func(result any) error {
			return a.outputManager.Print(result, format, transform)
		}
	}
	return a.exec.Execute(node, cmd, args)
}

// Run builds the tree and executes it against args (without the program
// name). Construction errors and invocation errors are both returned; Main
// maps them to exit codes.
func (a *App) Run(args []string) error {
	root, err := a.Build()
	if err != nil {
		return err
	}
	root.SetArgs(args)
	return root.Execute()
}

// Main runs the App against os.Args and returns the process exit code:
// 0 on success, 1 for bad user input, 2 for an error from the target
// callable, 3 for a construction error.
func (a *App) Main() int {
	root, err := a.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.name, err)
		return ExitParsingErr
	}
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.name, err)
		return a.exitCode(err)
	}
	return ExitSuccess
}

// exitCode classifies an execution error. Anything surfacing before the
// target callable ran is user input; the rest belongs to the target.
func (a *App) exitCode(err error) int {
	var missing *cli.MissingArgumentError
	var conversion *cli.ValueConversionError
	var incomplete *cli.IncompleteCompositeError
	if errors.As(err, &missing) || errors.As(err, &conversion) || errors.As(err, &incomplete) {
		return ExitInvalidArgs
	}
	if a.exec != nil && a.exec.Invoked() {
		return ExitRuntimeErr
	}
	return ExitInvalidArgs
}
