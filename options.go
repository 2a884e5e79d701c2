package cmdforge

import (
	"github.com/cmdforge/cmdforge/internal/builder"
	"github.com/cmdforge/cmdforge/pkg/config"
	"github.com/cmdforge/cmdforge/pkg/docs"
	"github.com/cmdforge/cmdforge/pkg/output"
)

// Option configures an App at construction time.
type Option func(*App)

// WithDescription sets the root command description.
func WithDescription(description string) Option {
	return func(a *App) { a.description = description }
}

// WithVersion enables the version command and --version flag.
func WithVersion(version string) Option {
	return func(a *App) { a.version = version }
}

// WithDocs installs the documentation collaborator used to fill parameter
// help text that registrations leave empty.
func WithDocs(provider docs.Provider) Option {
	return func(a *App) { a.docs = provider }
}

// WithMaxDepth overrides the composite nesting limit.
func WithMaxDepth(depth int) Option {
	return func(a *App) { a.maxDepth = depth }
}

// WithKeywordOnly disables the positional fallback for required parameters.
func WithKeywordOnly() Option {
	return func(a *App) { a.style = builder.KeywordOnly }
}

// WithPipeTarget routes piped stdin into the parameter at the given dotted
// path. command selects which command it applies to by its subcommand path
// (space separated); "" applies to every command.
func WithPipeTarget(command, path string) Option {
	return func(a *App) { a.pipeTarget[command] = path }
}

// WithConfigDefaults backfills unset flags from the standard config file
// and environment for appName. Loading problems surface at Build time.
func WithConfigDefaults(appName string) Option {
	return func(a *App) {
		source, err := config.Load(appName)
		if err != nil {
			a.configErr = err
			return
		}
		a.fallback = source
	}
}

// WithValueSource installs a custom fallback source for unset flags.
func WithValueSource(source ValueSource) Option {
	return func(a *App) { a.fallback = source }
}

// WithResultPrinting renders each command's return value to stdout in the
// given default format, and adds the --output and --transform flags.
func WithResultPrinting(defaultFormat string) Option {
	return func(a *App) {
		a.printing = true
		if defaultFormat != "" {
			a.defaultFormat = defaultFormat
		}
	}
}

// WithOutputManager replaces the result-printing manager, mainly to
// redirect output in tests.
func WithOutputManager(m *output.Manager) Option {
	return func(a *App) {
		a.printing = true
		a.outputManager = m
	}
}

// WithCompletion restricts the completion command to the given shells.
func WithCompletion(shells ...string) Option {
	return func(a *App) {
		a.completion = true
		a.shells = shells
	}
}

// WithoutCompletion disables the completion command.
func WithoutCompletion() Option {
	return func(a *App) { a.completion = false }
}
