package flatten

import (
	"github.com/cmdforge/cmdforge/pkg/cli"
)

// Assemble rebuilds the nested top-level values from resolved leaf values.
// values holds the converted value for every leaf that was supplied;
// present marks the leaves the end user actually supplied (command line,
// pipe, or config), as opposed to leaves filled from declared defaults.
//
// Records come back as map[field name]value in declaration order of use.
// An optional composite with zero present leaves assembles to nil. With
// some leaves present, missing leaves take their declared defaults; a
// missing leaf with no default fails with IncompleteCompositeError naming
// it. The result maps top-level parameter names to their values.
func (s *FlatSet) Assemble(values cli.Resolved, present map[string]bool) (map[string]any, error) {
	out := make(map[string]any, len(s.Roots))
	for _, idx := range s.Roots {
		v, _, missing, err := s.assemble(idx, values, present)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			// Leaves under a required composite surface individually.
			return nil, &cli.MissingArgumentError{Path: missing[0]}
		}
		out[s.Specs[idx].Name] = v
	}
	return out, nil
}

// assemble resolves one arena node bottom-up. It returns the node's value,
// whether any leaf of its subtree was present, and the dotted paths of
// leaves that are missing with no default and not yet accounted for by an
// optional ancestor.
func (s *FlatSet) assemble(idx int, values cli.Resolved, present map[string]bool) (any, bool, []string, error) {
	spec := s.Specs[idx]

	if !spec.Composite {
		if present[spec.Path] {
			v, ok := values[spec.Path]
			if !ok {
				return nil, false, nil, &cli.MissingArgumentError{Path: spec.Path}
			}
			return v, true, nil, nil
		}
		if spec.HasDefault {
			return spec.Default, false, nil, nil
		}
		if spec.Required {
			return nil, false, nil, &cli.MissingArgumentError{Path: spec.Path}
		}
		if declaredOptional(spec) {
			// Absent optional leaf maps to the nil sentinel, not an error.
			if spec.Shape == cli.ShapeMulti {
				return []any{}, false, nil, nil
			}
			return nil, false, nil, nil
		}
		if spec.Shape == cli.ShapeMulti {
			// Absent non-required list yields an empty sequence.
			return []any{}, false, nil, nil
		}
		// Forced optional inside an optional composite: the nearest optional
		// ancestor decides whether this is absence or an incomplete record.
		return nil, false, []string{spec.Path}, nil
	}

	record := make(map[string]any, len(spec.Children))
	anyPresent := false
	var missing []string
	for _, cidx := range spec.Children {
		v, childPresent, childMissing, err := s.assemble(cidx, values, present)
		if err != nil {
			return nil, false, nil, err
		}
		record[s.Specs[cidx].Name] = v
		anyPresent = anyPresent || childPresent
		missing = append(missing, childMissing...)
	}

	if declaredOptional(spec) {
		if !anyPresent {
			return nil, false, nil, nil
		}
		if len(missing) > 0 {
			return nil, false, nil, &cli.IncompleteCompositeError{Path: spec.Path, Missing: missing}
		}
		return record, true, nil, nil
	}
	return record, anyPresent, missing, nil
}
