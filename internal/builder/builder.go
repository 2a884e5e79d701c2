// Package builder assembles registered callables and classes into a command
// tree and renders it onto Cobra commands with one pflag flag per flattened
// leaf parameter.
package builder

import (
	"strings"

	"github.com/cmdforge/cmdforge/internal/flatten"
	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/docs"
	"github.com/cmdforge/cmdforge/pkg/resolve"
)

// Style selects how required parameters are accepted.
type Style int

const (
	// RequiredPositional lets required leaves be given positionally, in
	// flattened declaration order, as a fallback to their flags.
	RequiredPositional Style = iota
	// KeywordOnly accepts flags only.
	KeywordOnly
)

// Options configures tree building.
type Options struct {
	Registry  *resolve.Registry
	Records   cli.RecordSet
	Docs      docs.Provider
	MaxDepth  int
	Style     Style
	Translate func(string) string
	// Reserved are flag paths owned by the framework; a parameter that
	// flattens onto one is a construction error.
	Reserved []string
	// ReservedShorthands are one-letter abbreviations owned by the
	// framework; the shorthand generator never claims them.
	ReservedShorthands []string
}

func (o Options) translate(name string) string {
	if o.Translate != nil {
		return o.Translate(name)
	}
	return ToCommandName(name)
}

// CommandNode is one invocable unit or router in the built tree. A function
// registration is a leaf; a class registration is a router whose children
// are its methods, with the initializer's flattened parameters attached to
// the router itself.
type CommandNode struct {
	Name    string
	Aliases []string
	Help    string

	// Params holds this node's own flattened parameters: the function or
	// method parameters on a leaf, the initializer parameters on a router.
	Params *flatten.FlatSet

	Func   *cli.FuncCommand
	Method *cli.Method
	Class  *cli.ClassCommand

	Children []*CommandNode
	Parent   *CommandNode
}

// Leaf reports whether the node is directly invocable.
func (n *CommandNode) Leaf() bool { return n.Func != nil || n.Method != nil }

// Path returns the subcommand path from the root, space separated.
func (n *CommandNode) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + " " + n.Name
}

// Tree is the built, read-only command tree. Building a second tree from
// the same registrations never touches an earlier one.
type Tree struct {
	Roots  []*CommandNode
	Single bool
	Opts   Options
}

// Build assembles the registrations into a tree, running every
// construction-time validation: flattening guards, sibling name and alias
// uniqueness, reserved-flag collisions, and the non-empty invariant. With
// exactly one function registered the tree is marked single-command and no
// subcommand word is required on invocation.
func Build(regs []cli.Registration, opts Options) (*Tree, error) {
	if opts.Registry == nil {
		opts.Registry = resolve.NewRegistry()
	}
	if len(regs) == 0 {
		return nil, &cli.EmptyTreeError{}
	}

	tree := &Tree{Opts: opts}
	taken := make(map[string]string)
	for _, reg := range regs {
		var node *CommandNode
		var err error
		switch {
		case reg.Func != nil:
			node, err = buildFunc(reg.Func, opts)
		case reg.Class != nil:
			node, err = buildClass(reg.Class, opts)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := claimNames(taken, node, ""); err != nil {
			return nil, err
		}
		tree.Roots = append(tree.Roots, node)
	}

	if len(tree.Roots) == 0 {
		return nil, &cli.EmptyTreeError{}
	}
	tree.Single = len(tree.Roots) == 1 && tree.Roots[0].Func != nil
	return tree, nil
}

func buildFunc(fn *cli.FuncCommand, opts Options) (*CommandNode, error) {
	name := opts.translate(fn.Name)
	sig := withDocs(fn.Sig, opts.Docs, fn.Name)
	params, err := flattenSig(fn.Name, sig, opts)
	if err != nil {
		return nil, err
	}
	return &CommandNode{
		Name:    name,
		Aliases: fn.Aliases,
		Help:    fn.Help,
		Params:  params,
		Func:    fn,
	}, nil
}

func buildClass(class *cli.ClassCommand, opts Options) (*CommandNode, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}
	name := opts.translate(class.Name)
	initSig := withDocs(class.Init, opts.Docs, class.Name)
	initParams, err := flattenSig(class.Name+" initializer", initSig, opts)
	if err != nil {
		return nil, err
	}
	node := &CommandNode{
		Name:    name,
		Aliases: class.Aliases,
		Help:    class.Help,
		Params:  initParams,
		Class:   class,
	}

	taken := make(map[string]string)
	for i := range class.Methods {
		method := &class.Methods[i]
		if strings.HasPrefix(method.Name, "_") {
			continue
		}
		sig := withDocs(method.Sig, opts.Docs, class.Name+"."+method.Name)
		params, err := flattenSig(class.Name+"."+method.Name, sig, opts)
		if err != nil {
			return nil, err
		}
		// Initializer flags and method flags share one namespace at
		// invocation time.
		if err := initParams.CheckDisjoint(params); err != nil {
			return nil, err
		}
		child := &CommandNode{
			Name:    opts.translate(method.Name),
			Aliases: method.Aliases,
			Help:    method.Help,
			Params:  params,
			Method:  method,
			Class:   class,
			Parent:  node,
		}
		if err := claimNames(taken, child, node.Name); err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	if len(node.Children) == 0 {
		return nil, &cli.EmptyTreeError{}
	}
	return node, nil
}

func flattenSig(owner string, sig cli.Signature, opts Options) (*flatten.FlatSet, error) {
	set, err := flatten.Flatten(opts.Registry, opts.Records, owner, sig, flatten.Options{
		MaxDepth:  opts.MaxDepth,
		Translate: opts.translate,
	})
	if err != nil {
		return nil, err
	}
	for _, spec := range set.LeafSpecs() {
		for _, reserved := range opts.Reserved {
			if spec.Path == reserved {
				return nil, &cli.DuplicateFlagError{
					Path:   spec.Path,
					First:  "reserved flag",
					Second: owner + "(" + spec.Name + ")",
				}
			}
		}
	}
	return set, nil
}

// withDocs fills empty help text from the documentation collaborator.
// Absent entries stay empty; the lookup never fails.
func withDocs(sig cli.Signature, provider docs.Provider, command string) cli.Signature {
	if provider == nil {
		return sig
	}
	out := cli.Signature{Params: make([]cli.Field, len(sig.Params))}
	copy(out.Params, sig.Params)
	for i := range out.Params {
		if out.Params[i].Help == "" {
			out.Params[i].Help = provider.Lookup(command, out.Params[i].Name)
		}
	}
	return out
}

// claimNames registers a node's name and aliases among its siblings.
func claimNames(taken map[string]string, node *CommandNode, parent string) error {
	names := append([]string{node.Name}, node.Aliases...)
	for _, name := range names {
		if _, dup := taken[name]; dup {
			return &cli.DuplicateCommandError{Name: name, Parent: parent}
		}
		taken[name] = node.Name
	}
	return nil
}

// Find walks the tree by subcommand words.
func (t *Tree) Find(words ...string) *CommandNode {
	nodes := t.Roots
	var current *CommandNode
	for _, word := range words {
		current = nil
		for _, n := range nodes {
			if n.Name == word {
				current = n
				break
			}
			for _, alias := range n.Aliases {
				if alias == word {
					current = n
					break
				}
			}
			if current != nil {
				break
			}
		}
		if current == nil {
			return nil
		}
		nodes = current.Children
	}
	return current
}
