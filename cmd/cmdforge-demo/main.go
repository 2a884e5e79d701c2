// Command cmdforge-demo is a small CLI derived entirely from registered
// callables, showing function commands, a class command with subcommands,
// and a nested record parameter flattened into dotted flags.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cmdforge/cmdforge"
	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/docs"
	"github.com/cmdforge/cmdforge/pkg/inspect"
)

// Address and User become record types; the pointer field is an optional
// composite whose flags may be omitted entirely.
type Address struct {
	City string `help:"City name"`
	Zip  int    `help:"Postal code"`
}

type User struct {
	Name    string   `help:"Full name"`
	Age     int      `help:"Age in years" default:"0"`
	Address *Address `help:"Mailing address"`
}

// Counter is exposed as a command group; its constructor flags are shared
// by both subcommands.
type Counter struct {
	step int
}

func (c *Counter) Add(n int) int { return n + c.step }
func (c *Counter) Mul(n int) int { return n * c.step }

func main() {
	userSig, records, err := inspect.Params(struct {
		User User `help:"The user to describe"`
	}{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := cmdforge.New("cmdforge-demo",
		cmdforge.WithDescription("Demonstration CLI derived from Go callables"),
		cmdforge.WithVersion("0.1.0"),
		cmdforge.WithResultPrinting("json"),
		cmdforge.WithDocs(docs.Map{
			"greet": {"name": "Who to greet", "times": "How many times"},
		}),
	)

	for _, record := range records {
		app.Records(record)
	}

	app.Func(&cli.FuncCommand{
		Name: "greet",
		Help: "Greet someone",
		Sig: cli.Signature{Params: []cli.Field{
			{Name: "name", Type: cli.String()},
			{Name: "times", Type: cli.Int(), Default: 1, HasDefault: true},
		}},
		Call: inspect.Callable(func(name string, times int) string {
			return strings.TrimSpace(strings.Repeat("Hello, "+name+"! ", times))
		}),
	})

	app.Func(&cli.FuncCommand{
		Name: "describe_user",
		Help: "Describe a user from flattened record flags",
		Sig:  userSig,
		Call: inspect.Callable(func(u User) string {
			if u.Address == nil {
				return fmt.Sprintf("%s (%d), no address", u.Name, u.Age)
			}
			return fmt.Sprintf("%s (%d), %s %d", u.Name, u.Age, u.Address.City, u.Address.Zip)
		}),
	})

	app.Class(&cli.ClassCommand{
		Name: "counter",
		Help: "Arithmetic on a configured step",
		Init: cli.Signature{Params: []cli.Field{
			{Name: "step", Type: cli.Int(), Default: 1, HasDefault: true, Help: "Step applied by every operation"},
		}},
		New: func(args []any) (any, error) {
			step, _ := args[0].(int)
			return &Counter{step: step}, nil
		},
		Methods: []cli.Method{
			{
				Name: "add",
				Help: "Add the step to n",
				Sig:  cli.Signature{Params: []cli.Field{{Name: "n", Type: cli.Int()}}},
				Call: inspect.Bound((*Counter).Add),
			},
			{
				Name: "mul",
				Help: "Multiply n by the step",
				Sig:  cli.Signature{Params: []cli.Field{{Name: "n", Type: cli.Int()}}},
				Call: inspect.Bound((*Counter).Mul),
			},
		},
	})

	os.Exit(app.Main())
}
