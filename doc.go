// Package cmdforge turns registered callables, classes, and object
// instances into a fully functional command-line interface.
//
// The integrator registers static signature descriptions (or derives them
// from Go structs and funcs with the inspect package); cmdforge derives a
// command tree from them, expands record-typed parameters into dotted
// flags, parses process input with Cobra and pflag, reconstructs the nested
// typed values, and invokes the target with its original call shape.
//
// # Construction and execution
//
//  1. Registration: App.Func and App.Class accumulate commands in order.
//  2. Build: signatures flatten into dotted-path leaf specs; classes become
//     routers whose initializer flags are shared by every method
//     subcommand. All structural validation happens here.
//  3. Dispatch: parsed flags (plus positional fallback, piped stdin, and
//     config values) resolve into typed values, composites reassemble
//     bottom-up, and the target runs.
//
// # Example
//
//	app := cmdforge.New("greeter",
//	    cmdforge.WithDescription("Greet people"),
//	)
//	app.Func(&cli.FuncCommand{
//	    Name: "greet",
//	    Sig: cli.Signature{Params: []cli.Field{
//	        {Name: "name", Type: cli.String()},
//	        {Name: "times", Type: cli.Int(), Default: 1, HasDefault: true},
//	    }},
//	    Call: inspect.Callable(func(name string, times int) string {
//	        return strings.Repeat("Hello, "+name+"! ", times)
//	    }),
//	})
//	os.Exit(app.Main())
//
// Construction mistakes (unsupported types, record cycles, duplicate flags
// or command names) surface when the tree is built, before any input is
// parsed. Bad end-user input maps to exit code 1, target errors to 2, and
// construction errors to 3.
package cmdforge
