package cli

import "fmt"

// Invocable is a command target ready to be called with resolved top-level
// values in declaration order. The derivation core never copies or mutates
// the underlying code; conversion failures and target errors pass through
// unchanged.
type Invocable interface {
	Invoke(args []any) (any, error)
}

// Function wraps a plain callable.
type Function struct {
	Call func(args []any) (any, error)
}

func (f *Function) Invoke(args []any) (any, error) {
	return f.Call(args)
}

// MethodOnInstance is a named method bound to a constructed (or registered)
// receiver instance.
type MethodOnInstance struct {
	Receiver any
	Call     func(recv any, args []any) (any, error)
}

func (m *MethodOnInstance) Invoke(args []any) (any, error) {
	return m.Call(m.Receiver, args)
}

// FuncCommand registers a plain callable as one command.
type FuncCommand struct {
	Name    string
	Aliases []string
	Help    string
	Sig     Signature
	Call    func(args []any) (any, error)
}

// Method is one exposed method of a class or instance registration.
type Method struct {
	Name    string
	Aliases []string
	Help    string
	Sig     Signature
	Call    func(recv any, args []any) (any, error)
}

// ClassCommand registers a class (initializer plus methods) or an already
// constructed instance (Instance set, Init/New empty) as a command group.
// Initializer parameters become options shared by every method subcommand.
type ClassCommand struct {
	Name     string
	Aliases  []string
	Help     string
	Init     Signature
	New      func(args []any) (any, error)
	Instance any
	Methods  []Method
}

// Validate checks that the registration is internally consistent.
func (c *ClassCommand) Validate() error {
	if c.New == nil && c.Instance == nil {
		return fmt.Errorf("class command %q: needs a constructor or an instance", c.Name)
	}
	if c.New == nil && len(c.Init.Params) > 0 {
		return fmt.Errorf("class command %q: initializer parameters without a constructor", c.Name)
	}
	if len(c.Methods) == 0 {
		return fmt.Errorf("class command %q: no exposed methods", c.Name)
	}
	return nil
}

// Registration is one entry handed to the command tree builder: exactly one
// of Func or Class is set.
type Registration struct {
	Func  *FuncCommand
	Class *ClassCommand
}

// CommandName returns the registered name.
func (r Registration) CommandName() string {
	if r.Func != nil {
		return r.Func.Name
	}
	if r.Class != nil {
		return r.Class.Name
	}
	return ""
}
