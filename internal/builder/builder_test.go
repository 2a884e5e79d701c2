package builder

import (
	"errors"
	"testing"

	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/docs"
)

func greetFunc() *cli.FuncCommand {
	return &cli.FuncCommand{
		Name: "greet",
		Help: "Greet someone",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "name", Type: cli.String()},
			{Name: "times", Type: cli.Int(), Default: 1, HasDefault: true},
		}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
}

func counterClass() *cli.ClassCommand {
	method := func(name string) cli.Method {
		return cli.Method{
			Name: name,
			Sig:  cli.Signature{Params: []cli.Field{{Name: "n", Type: cli.Int()}}},
			Call: func(recv any, args []any) (any, error) { return nil, nil },
		}
	}
	return &cli.ClassCommand{
		Name: "counter",
		Help: "Arithmetic on a configured step",
		Init: cli.Signature{Params: []cli.Field{
			{Name: "step", Type: cli.Int(), Default: 1, HasDefault: true},
		}},
		New:     func(args []any) (any, error) { return struct{}{}, nil },
		Methods: []cli.Method{method("add"), method("mul")},
	}
}

func TestBuildFunctionTree(t *testing.T) {
	regs := []cli.Registration{
		{Func: greetFunc()},
		{Func: &cli.FuncCommand{
			Name: "version_of",
			Sig:  cli.Signature{Params: []cli.Field{{Name: "pkg", Type: cli.String()}}},
			Call: func(args []any) (any, error) { return nil, nil },
		}},
	}
	tree, err := Build(regs, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree.Roots))
	}
	if tree.Single {
		t.Errorf("two registrations must not produce single-command mode")
	}
	if tree.Find("greet") == nil {
		t.Errorf("Find(greet) = nil")
	}
	// Snake_case registrations surface as kebab-case commands.
	if tree.Find("version-of") == nil {
		t.Errorf("Find(version-of) = nil")
	}
}

func TestBuildSingleCommandMode(t *testing.T) {
	tree, err := Build([]cli.Registration{{Func: greetFunc()}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !tree.Single {
		t.Fatalf("one function registration must be single-command")
	}

	root := tree.Cobra("greeter", "say hello", nil)
	if root.Flags().Lookup("name") == nil {
		t.Errorf("single-command flags must live on the root")
	}
	if len(root.Commands()) != 0 {
		t.Errorf("single-command root must have no subcommands")
	}
	if root.Use != "greeter <name>" {
		t.Errorf("Use = %q, want required positional token", root.Use)
	}
}

func TestBuildClassRouter(t *testing.T) {
	tree, err := Build([]cli.Registration{{Class: counterClass()}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Single {
		t.Errorf("a class registration is never single-command")
	}

	router := tree.Roots[0]
	if router.Leaf() {
		t.Fatalf("class node must be a router")
	}
	if len(router.Children) != 2 {
		t.Fatalf("got %d methods, want 2", len(router.Children))
	}
	if add := tree.Find("counter", "add"); add == nil || !add.Leaf() {
		t.Fatalf("counter add must be an invocable leaf")
	}
	if got := tree.Find("counter", "add").Path(); got != "counter add" {
		t.Errorf("Path = %q, want counter add", got)
	}

	root := tree.Cobra("demo", "", nil)
	counter, _, err := root.Find([]string{"counter"})
	if err != nil {
		t.Fatalf("Find counter: %v", err)
	}
	if counter.PersistentFlags().Lookup("step") == nil {
		t.Errorf("initializer flags must be persistent on the router")
	}
	add, _, err := root.Find([]string{"counter", "add"})
	if err != nil {
		t.Fatalf("Find counter add: %v", err)
	}
	if add.Flags().Lookup("n") == nil {
		t.Errorf("method flags must live on the method command")
	}
}

func TestBuildSkipsUnderscoreMethods(t *testing.T) {
	class := counterClass()
	class.Methods = append(class.Methods, cli.Method{
		Name: "_internal",
		Call: func(recv any, args []any) (any, error) { return nil, nil },
	})
	tree, err := Build([]cli.Registration{{Class: class}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Roots[0].Children) != 2 {
		t.Errorf("underscore-prefixed methods must not become commands")
	}
}

func TestBuildDuplicateCommand(t *testing.T) {
	run := func() *cli.FuncCommand {
		return &cli.FuncCommand{
			Name: "run",
			Call: func(args []any) (any, error) { return nil, nil },
		}
	}
	_, err := Build([]cli.Registration{{Func: run()}, {Func: run()}}, Options{})

	var dup *cli.DuplicateCommandError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateCommandError", err)
	}
	if dup.Name != "run" {
		t.Errorf("duplicate name = %q, want run", dup.Name)
	}
}

func TestBuildAliasCollision(t *testing.T) {
	regs := []cli.Registration{
		{Func: &cli.FuncCommand{Name: "list", Call: func(args []any) (any, error) { return nil, nil }}},
		{Func: &cli.FuncCommand{
			Name:    "inspect",
			Aliases: []string{"list"},
			Call:    func(args []any) (any, error) { return nil, nil },
		}},
	}
	var dup *cli.DuplicateCommandError
	if _, err := Build(regs, Options{}); !errors.As(err, &dup) {
		t.Fatalf("alias clashing with a sibling name must fail the build")
	}
}

func TestBuildEmptyTree(t *testing.T) {
	var empty *cli.EmptyTreeError
	if _, err := Build(nil, Options{}); !errors.As(err, &empty) {
		t.Fatalf("empty registration list must fail with EmptyTreeError")
	}
}

func TestBuildReservedFlag(t *testing.T) {
	fn := &cli.FuncCommand{
		Name: "show",
		Sig:  cli.Signature{Params: []cli.Field{{Name: "help", Type: cli.String()}}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
	_, err := Build([]cli.Registration{{Func: fn}}, Options{Reserved: []string{"help"}})

	var dup *cli.DuplicateFlagError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateFlagError", err)
	}
	if dup.Path != "help" || dup.First != "reserved flag" {
		t.Errorf("error = %v, want reserved-flag collision on help", dup)
	}
}

func TestBuildInitMethodFlagClash(t *testing.T) {
	class := counterClass()
	class.Methods[0].Sig = cli.Signature{Params: []cli.Field{
		{Name: "step", Type: cli.Int()},
	}}
	var dup *cli.DuplicateFlagError
	if _, err := Build([]cli.Registration{{Class: class}}, Options{}); !errors.As(err, &dup) {
		t.Fatalf("initializer and method flag namespaces must be disjoint")
	}
	if dup.Path != "step" {
		t.Errorf("colliding path = %q, want step", dup.Path)
	}
}

func TestBuildFillsHelpFromDocs(t *testing.T) {
	fn := greetFunc()
	tree, err := Build([]cli.Registration{{Func: fn}}, Options{
		Docs: docs.Map{"greet": {"name": "Who to greet"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	spec, ok := tree.Roots[0].Params.Spec("name")
	if !ok {
		t.Fatalf("name spec not found")
	}
	if spec.Help != "Who to greet" {
		t.Errorf("help = %q, want docs lookup result", spec.Help)
	}
}

func TestFlagNameTranslation(t *testing.T) {
	fn := &cli.FuncCommand{
		Name: "fetch",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "max_retries", Type: cli.Int(), Default: 3, HasDefault: true},
		}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
	tree, err := Build([]cli.Registration{{Func: fn}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Cobra("fetcher", "", nil)
	if root.Flags().Lookup("max-retries") == nil {
		t.Errorf("declared max_retries must surface as --max-retries")
	}
}

func TestShorthands(t *testing.T) {
	fn := &cli.FuncCommand{
		Name: "serve",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "port", Type: cli.Int(), Default: 8080, HasDefault: true},
			{Name: "prefix", Type: cli.String(), Default: "/", HasDefault: true},
			{Name: "host", Type: cli.String()},
		}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
	tree, err := Build([]cli.Registration{{Func: fn}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Cobra("server", "", nil)

	if got := root.Flags().Lookup("port").Shorthand; got != "p" {
		t.Errorf("port shorthand = %q, want p", got)
	}
	// "p" is taken, so prefix gets no short form.
	if got := root.Flags().Lookup("prefix").Shorthand; got != "" {
		t.Errorf("prefix shorthand = %q, want none", got)
	}
	// Required flags stay long-form only.
	if got := root.Flags().Lookup("host").Shorthand; got != "" {
		t.Errorf("host shorthand = %q, want none", got)
	}
}

func TestReservedShorthands(t *testing.T) {
	fn := &cli.FuncCommand{
		Name: "save",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "out", Type: cli.String(), Default: "-", HasDefault: true},
			{Name: "verbose", Type: cli.Bool(), Default: false, HasDefault: true},
		}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
	tree, err := Build([]cli.Registration{{Func: fn}}, Options{
		ReservedShorthands: []string{"o", "v"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Cobra("saver", "", nil)

	// The generator must leave reserved letters to the framework's flags;
	// pflag panics on a duplicate shorthand, it does not error.
	if got := root.Flags().Lookup("out").Shorthand; got != "" {
		t.Errorf("out shorthand = %q, want none while o is reserved", got)
	}
	if got := root.Flags().Lookup("verbose").Shorthand; got != "" {
		t.Errorf("verbose shorthand = %q, want none while v is reserved", got)
	}
}

func TestBoolToggleFlag(t *testing.T) {
	fn := &cli.FuncCommand{
		Name: "sync",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "dry_run", Type: cli.Bool(), Default: false, HasDefault: true},
		}},
		Call: func(args []any) (any, error) { return nil, nil },
	}
	tree, err := Build([]cli.Registration{{Func: fn}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Cobra("syncer", "", nil)
	flag := root.Flags().Lookup("dry-run")
	if flag == nil {
		t.Fatalf("dry-run flag not registered")
	}
	if flag.NoOptDefVal != "true" {
		t.Errorf("NoOptDefVal = %q; bare --dry-run must toggle the false default", flag.NoOptDefVal)
	}
}

func TestToCommandName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"describe_user", "describe-user"},
		{"DescribeUser", "describe-user"},
		{"fetchHTTPData", "fetch-httpdata"},
		{"  trimmed ", "trimmed"},
	}
	for _, tt := range tests {
		if got := ToCommandName(tt.in); got != tt.want {
			t.Errorf("ToCommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
