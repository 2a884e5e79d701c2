// Package flatten implements the composite flattening engine: it expands
// record-typed parameters into a flat namespace of dotted-path leaf specs
// and provides the inverse that reassembles the nested values after parsing.
package flatten

import (
	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/resolve"
)

// DefaultMaxDepth bounds record nesting before flattening is rejected.
const DefaultMaxDepth = 16

// Options configures flattening.
type Options struct {
	// MaxDepth is the maximum record nesting depth; DefaultMaxDepth if zero.
	MaxDepth int
	// Translate maps declared names onto flag path segments; identity if nil.
	Translate func(string) string
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o Options) translate(name string) string {
	if o.Translate != nil {
		return o.Translate(name)
	}
	return name
}

// FlatSet is the flattened parameter arena for one signature. Top-level
// parameters are the roots; Leaves lists leaf indexes in declaration order,
// depth-first, which fixes flag ordering and positional fallback.
type FlatSet struct {
	Specs  []cli.ParameterSpec
	Roots  []int
	Leaves []int

	// origins maps each dotted path to the declaration it came from, so
	// collisions can name both sides.
	origins map[string]string
}

type flattener struct {
	reg     *resolve.Registry
	records cli.RecordSet
	opts    Options
	owner   string
	set     *FlatSet
}

// Flatten expands every parameter of sig into the dotted-path arena. owner
// names the signature in collision and cycle reports. All construction-time
// guards run here: unsupported types, unknown records, cycles, excessive
// depth, and duplicate dotted paths.
func Flatten(reg *resolve.Registry, records cli.RecordSet, owner string, sig cli.Signature, opts Options) (*FlatSet, error) {
	f := &flattener{
		reg:     reg,
		records: records,
		opts:    opts,
		owner:   owner,
		set: &FlatSet{
			origins: make(map[string]string),
		},
	}
	for _, param := range sig.Params {
		origin := owner + "(" + param.Name + ")"
		idx, err := f.expand(param, -1, "", origin, false, 0, nil)
		if err != nil {
			return nil, err
		}
		f.set.Roots = append(f.set.Roots, idx)
	}
	return f.set, nil
}

// expand adds the spec for one field and, for composites, all of its
// descendants. trail carries the record names on the current traversal path
// for cycle detection. forcedOptional is set inside optional composites.
func (f *flattener) expand(field cli.Field, parent int, prefix, origin string, forcedOptional bool, depth int, trail []string) (int, error) {
	path := f.opts.translate(field.Name)
	if prefix != "" {
		path = prefix + "." + path
	}

	if prev, taken := f.set.origins[path]; taken {
		return 0, &cli.DuplicateFlagError{Path: path, First: prev, Second: origin}
	}
	f.set.origins[path] = origin

	inner, declaredOptional := field.Type.Unwrap()
	shape := f.reg.Shape(field.Type, field.HasDefault)

	if shape != cli.ShapeComposite {
		if err := f.reg.Check(path, field.Type); err != nil {
			return 0, err
		}
		spec := cli.ParameterSpec{
			Name:       field.Name,
			Path:       path,
			Type:       field.Type,
			Shape:      shape,
			Required:   !field.HasDefault && !declaredOptional && !forcedOptional,
			Default:    field.Default,
			HasDefault: field.HasDefault,
			Help:       field.Help,
			Parent:     parent,
		}
		idx := f.add(spec)
		f.set.Leaves = append(f.set.Leaves, idx)
		return idx, nil
	}

	record, ok := f.records.Lookup(inner.Record)
	if !ok {
		return 0, &cli.UnknownRecordError{Path: path, Record: inner.Record}
	}
	for _, seen := range trail {
		if seen == record.Name {
			return 0, &cli.CyclicCompositeError{Path: path, Record: record.Name}
		}
	}
	if depth+1 > f.opts.maxDepth() {
		return 0, &cli.CompositeTooDeepError{Path: path, Depth: f.opts.maxDepth()}
	}

	spec := cli.ParameterSpec{
		Name:       field.Name,
		Path:       path,
		Type:       field.Type,
		Shape:      cli.ShapeComposite,
		Default:    field.Default,
		HasDefault: field.HasDefault,
		Help:       field.Help,
		Composite:  true,
		Parent:     parent,
	}
	idx := f.add(spec)

	trail = append(trail, record.Name)
	childForced := forcedOptional || declaredOptional
	required := false
	for _, child := range record.Fields {
		cidx, err := f.expand(child, idx, path, origin, childForced, depth+1, trail)
		if err != nil {
			return 0, err
		}
		f.set.Specs[idx].Children = append(f.set.Specs[idx].Children, cidx)
		if f.set.Specs[cidx].Required {
			required = true
		}
	}

	// A composite is required iff any descendant is; never set directly.
	f.set.Specs[idx].Required = required
	return idx, nil
}

func (f *flattener) add(spec cli.ParameterSpec) int {
	f.set.Specs = append(f.set.Specs, spec)
	return len(f.set.Specs) - 1
}

// LeafSpecs returns the leaf specs in flattened order.
func (s *FlatSet) LeafSpecs() []cli.ParameterSpec {
	out := make([]cli.ParameterSpec, 0, len(s.Leaves))
	for _, idx := range s.Leaves {
		out = append(out, s.Specs[idx])
	}
	return out
}

// Spec returns the spec at the given dotted path.
func (s *FlatSet) Spec(path string) (cli.ParameterSpec, bool) {
	for _, spec := range s.Specs {
		if spec.Path == path {
			return spec, true
		}
	}
	return cli.ParameterSpec{}, false
}

// CheckDisjoint verifies that no dotted path appears in both sets. Shared
// class-initializer flags and per-method flags live in one namespace at
// invocation time, so they must not collide.
func (s *FlatSet) CheckDisjoint(other *FlatSet) error {
	for path, origin := range other.origins {
		if prev, taken := s.origins[path]; taken {
			return &cli.DuplicateFlagError{Path: path, First: prev, Second: origin}
		}
	}
	return nil
}

// declaredOptional reports whether the spec's type carries an absent variant.
func declaredOptional(spec cli.ParameterSpec) bool {
	_, opt := spec.Type.Unwrap()
	return opt
}
