package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cmdforge/cmdforge/pkg/cli"
)

// RunFunc executes a selected leaf node after Cobra has parsed its flags.
type RunFunc func(node *CommandNode, cmd *cobra.Command, args []string) error

// Cobra renders the tree onto a Cobra command hierarchy. Every flattened
// leaf parameter becomes a pflag flag under its dotted path; router nodes
// carry their initializer flags as persistent flags so they are available
// to every child invocation. In single-command mode the lone command's
// flags live directly on the root and no subcommand word is needed.
func (t *Tree) Cobra(rootName, description string, run RunFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           rootName,
		Short:         firstLine(description),
		Long:          description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if t.Single {
		node := t.Roots[0]
		t.bindLeaf(root, node, run)
		root.Use = useLine(rootName, node, t.Opts.Style)
		return root
	}

	for _, node := range t.Roots {
		root.AddCommand(t.nodeCommand(node, run))
	}
	return root
}

func (t *Tree) nodeCommand(node *CommandNode, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     useLine(node.Name, node, t.Opts.Style),
		Short:   firstLine(node.Help),
		Long:    node.Help,
		Aliases: node.Aliases,
	}
	cmd.Annotations = map[string]string{"command-path": node.Path()}

	if node.Leaf() {
		t.bindLeaf(cmd, node, run)
		return cmd
	}

	// Router: initializer flags are shared by every child.
	t.addFlags(cmd.PersistentFlags(), node.Params.LeafSpecs())
	for _, child := range node.Children {
		cmd.AddCommand(t.nodeCommand(child, run))
	}
	return cmd
}

func (t *Tree) bindLeaf(cmd *cobra.Command, node *CommandNode, run RunFunc) {
	t.addFlags(cmd.Flags(), node.Params.LeafSpecs())
	if t.Opts.Style == RequiredPositional {
		cmd.Args = cobra.ArbitraryArgs
	} else {
		cmd.Args = cobra.NoArgs
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return run(node, c, args)
	}
}

// addFlags registers one pflag flag per leaf spec. Scalars are strings
// (conversion happens at dispatch so errors can carry the dotted path),
// collections are string arrays, defaulted booleans are presence-toggled
// via NoOptDefVal.
func (t *Tree) addFlags(fs *pflag.FlagSet, leaves []cli.ParameterSpec) {
	shorts := takenShorthands(fs, t.Opts.ReservedShorthands)
	for _, spec := range leaves {
		usage := flagUsage(spec)
		short := shorthandFor(spec, shorts)
		switch spec.Shape {
		case cli.ShapeMulti:
			fs.StringArrayP(spec.Path, short, nil, usage)
		case cli.ShapeFlag:
			def, _ := spec.Default.(bool)
			fs.BoolP(spec.Path, short, def, usage)
			// Presence toggles from the declared default.
			fs.Lookup(spec.Path).NoOptDefVal = strconv.FormatBool(!def)
		default:
			fs.StringP(spec.Path, short, "", usage)
		}
	}
}

// takenShorthands collects the abbreviations the generator must not claim:
// help, the framework-reserved ones, and anything already on the flag set.
func takenShorthands(fs *pflag.FlagSet, reserved []string) map[string]bool {
	taken := map[string]bool{"h": true}
	for _, s := range reserved {
		taken[s] = true
	}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Shorthand != "" {
			taken[f.Shorthand] = true
		}
	})
	return taken
}

// shorthandFor generates a one-letter abbreviation for optional top-level
// flags, first letter first. Collisions simply get no short form.
func shorthandFor(spec cli.ParameterSpec, taken map[string]bool) string {
	if spec.Required || strings.Contains(spec.Path, ".") || len(spec.Path) < 2 {
		return ""
	}
	short := spec.Path[:1]
	if taken[short] {
		return ""
	}
	taken[short] = true
	return short
}

func flagUsage(spec cli.ParameterSpec) string {
	usage := spec.Help
	inner, _ := spec.Type.Unwrap()
	if inner.Kind == cli.KindEnum {
		members := fmt.Sprintf("one of: %s", strings.Join(inner.Enum, "|"))
		if usage == "" {
			usage = members
		} else {
			usage += " (" + members + ")"
		}
	}
	if spec.HasDefault && spec.Shape != cli.ShapeFlag {
		usage = strings.TrimSpace(usage + fmt.Sprintf(" (default %v)", spec.Default))
	}
	if spec.Required {
		usage = strings.TrimSpace(usage + " (required)")
	}
	return usage
}

// useLine renders the Use string with required leaves as positional tokens
// when the style allows positional fallback.
func useLine(name string, node *CommandNode, style Style) string {
	if !node.Leaf() || style != RequiredPositional {
		return name
	}
	parts := []string{name}
	for _, spec := range node.Params.LeafSpecs() {
		if !spec.Required {
			continue
		}
		if spec.Shape == cli.ShapeMulti {
			parts = append(parts, fmt.Sprintf("<%s>...", spec.Path))
		} else {
			parts = append(parts, fmt.Sprintf("<%s>", spec.Path))
		}
	}
	return strings.Join(parts, " ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ToCommandName normalizes an identifier to a command or flag name:
// kebab-case, lowercase.
func ToCommandName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	s = camelToKebab(s)
	return strings.ToLower(s)
}

// camelToKebab converts camelCase to kebab-case, leaving runs of capitals
// (acronyms) intact.
func camelToKebab(s string) string {
	var result strings.Builder
	prevWasUpper := false
	for i, r := range s {
		isUpper := r >= 'A' && r <= 'Z'
		if i > 0 && isUpper && !prevWasUpper {
			result.WriteRune('-')
		}
		result.WriteRune(r)
		prevWasUpper = isUpper
	}
	return result.String()
}
