package flatten

import (
	"errors"
	"strings"
	"testing"

	"github.com/cmdforge/cmdforge/pkg/cli"
	"github.com/cmdforge/cmdforge/pkg/resolve"
)

func userRecords() cli.RecordSet {
	return cli.NewRecordSet(
		&cli.RecordType{
			Name: "Address",
			Fields: []cli.Field{
				{Name: "city", Type: cli.String()},
				{Name: "zip", Type: cli.Int()},
			},
		},
		&cli.RecordType{
			Name: "User",
			Fields: []cli.Field{
				{Name: "name", Type: cli.String()},
				{Name: "age", Type: cli.Int(), Default: 0, HasDefault: true},
				{Name: "address", Type: cli.Optional(cli.Record("Address"))},
			},
		},
	)
}

func userSet(t *testing.T) *FlatSet {
	t.Helper()
	sig := cli.Signature{Params: []cli.Field{
		{Name: "user", Type: cli.Record("User")},
	}}
	set, err := Flatten(resolve.NewRegistry(), userRecords(), "describe", sig, Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	return set
}

func TestFlattenScalarSignature(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "name", Type: cli.String()},
		{Name: "times", Type: cli.Int(), Default: 1, HasDefault: true},
	}}
	set, err := Flatten(resolve.NewRegistry(), nil, "greet", sig, Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	leaves := set.LeafSpecs()
	if len(leaves) != 2 {
		t.Fatalf("got %d leaves, want 2", len(leaves))
	}
	if leaves[0].Path != "name" || leaves[1].Path != "times" {
		t.Fatalf("leaf paths = %q, %q", leaves[0].Path, leaves[1].Path)
	}
	if !leaves[0].Required {
		t.Errorf("name should be required")
	}
	if leaves[1].Required {
		t.Errorf("times has a default and must not be required")
	}
	if leaves[0].Shape != cli.ShapeScalar || leaves[1].Shape != cli.ShapeScalar {
		t.Errorf("shapes = %s, %s, want scalar", leaves[0].Shape, leaves[1].Shape)
	}
}

func TestFlattenRecordPaths(t *testing.T) {
	set := userSet(t)

	want := []string{"user.name", "user.age", "user.address.city", "user.address.zip"}
	leaves := set.LeafSpecs()
	if len(leaves) != len(want) {
		t.Fatalf("got %d leaves, want %d", len(leaves), len(want))
	}
	for i, spec := range leaves {
		if spec.Path != want[i] {
			t.Errorf("leaf %d path = %q, want %q", i, spec.Path, want[i])
		}
	}

	user, ok := set.Spec("user")
	if !ok || !user.Composite {
		t.Fatalf("user should be a composite spec")
	}
	if !user.Required {
		t.Errorf("user must be required: its name leaf has no default")
	}

	address, ok := set.Spec("user.address")
	if !ok || !address.Composite {
		t.Fatalf("user.address should be a composite spec")
	}
	if address.Required {
		t.Errorf("declared-optional composite must not be required")
	}

	// Leaves under an optional composite lose their own required status;
	// absence is judged by the optional ancestor instead.
	city, _ := set.Spec("user.address.city")
	if city.Required {
		t.Errorf("user.address.city must not be individually required")
	}
}

func TestFlattenShapes(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "verbose", Type: cli.Bool(), Default: false, HasDefault: true},
		{Name: "strict", Type: cli.Bool()},
		{Name: "tags", Type: cli.List(cli.String())},
	}}
	set, err := Flatten(resolve.NewRegistry(), nil, "run", sig, Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	verbose, _ := set.Spec("verbose")
	if verbose.Shape != cli.ShapeFlag {
		t.Errorf("defaulted bool shape = %s, want flag", verbose.Shape)
	}
	strict, _ := set.Spec("strict")
	if strict.Shape != cli.ShapeScalar {
		t.Errorf("undefaulted bool shape = %s, want scalar", strict.Shape)
	}
	tags, _ := set.Spec("tags")
	if tags.Shape != cli.ShapeMulti {
		t.Errorf("list shape = %s, want multi", tags.Shape)
	}
	if !tags.Required {
		t.Errorf("an undefaulted list is still required")
	}
}

func TestFlattenTranslate(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "max_retries", Type: cli.Int()},
	}}
	opts := Options{Translate: func(name string) string {
		return strings.ReplaceAll(name, "_", "-")
	}}
	set, err := Flatten(resolve.NewRegistry(), nil, "fetch", sig, opts)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if _, ok := set.Spec("max-retries"); !ok {
		t.Fatalf("translated path max-retries not found")
	}
	spec, _ := set.Spec("max-retries")
	if spec.Name != "max_retries" {
		t.Errorf("declared name must survive translation, got %q", spec.Name)
	}
}

func TestFlattenDuplicatePath(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "outFile", Type: cli.String()},
		{Name: "out_file", Type: cli.String()},
	}}
	opts := Options{Translate: func(name string) string {
		return strings.ReplaceAll(strings.ToLower(name), "_", "")
	}}
	_, err := Flatten(resolve.NewRegistry(), nil, "save", sig, opts)

	var dup *cli.DuplicateFlagError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateFlagError", err)
	}
	if dup.Path != "outfile" {
		t.Errorf("colliding path = %q, want outfile", dup.Path)
	}
	if dup.First == dup.Second {
		t.Errorf("both origins read %q; they must name distinct declarations", dup.First)
	}
}

func TestFlattenCycle(t *testing.T) {
	records := cli.NewRecordSet(&cli.RecordType{
		Name: "Node",
		Fields: []cli.Field{
			{Name: "label", Type: cli.String()},
			{Name: "next", Type: cli.Optional(cli.Record("Node"))},
		},
	})
	sig := cli.Signature{Params: []cli.Field{
		{Name: "node", Type: cli.Record("Node")},
	}}
	_, err := Flatten(resolve.NewRegistry(), records, "walk", sig, Options{})

	var cyc *cli.CyclicCompositeError
	if !errors.As(err, &cyc) {
		t.Fatalf("got %v, want CyclicCompositeError", err)
	}
	if cyc.Record != "Node" {
		t.Errorf("cycle record = %q, want Node", cyc.Record)
	}
	if cyc.Path != "node.next" {
		t.Errorf("cycle path = %q, want node.next", cyc.Path)
	}
}

func TestFlattenDepthLimit(t *testing.T) {
	records := cli.NewRecordSet(
		&cli.RecordType{Name: "A", Fields: []cli.Field{{Name: "b", Type: cli.Record("B")}}},
		&cli.RecordType{Name: "B", Fields: []cli.Field{{Name: "c", Type: cli.Record("C")}}},
		&cli.RecordType{Name: "C", Fields: []cli.Field{{Name: "x", Type: cli.Int()}}},
	)
	sig := cli.Signature{Params: []cli.Field{
		{Name: "a", Type: cli.Record("A")},
	}}

	if _, err := Flatten(resolve.NewRegistry(), records, "deep", sig, Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should fit: %v", err)
	}

	_, err := Flatten(resolve.NewRegistry(), records, "deep", sig, Options{MaxDepth: 2})
	var deep *cli.CompositeTooDeepError
	if !errors.As(err, &deep) {
		t.Fatalf("got %v, want CompositeTooDeepError", err)
	}
	if deep.Path != "a.b.c" {
		t.Errorf("offending path = %q, want a.b.c", deep.Path)
	}
}

func TestFlattenUnknownRecord(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "payload", Type: cli.Record("Missing")},
	}}
	_, err := Flatten(resolve.NewRegistry(), cli.NewRecordSet(), "send", sig, Options{})

	var unknown *cli.UnknownRecordError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want UnknownRecordError", err)
	}
	if unknown.Record != "Missing" {
		t.Errorf("record = %q, want Missing", unknown.Record)
	}
}

func TestFlattenUnsupportedType(t *testing.T) {
	sig := cli.Signature{Params: []cli.Field{
		{Name: "matrix", Type: cli.List(cli.List(cli.Int()))},
	}}
	_, err := Flatten(resolve.NewRegistry(), nil, "plot", sig, Options{})

	var unsupported *cli.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want UnsupportedTypeError", err)
	}
	if unsupported.Path != "matrix" {
		t.Errorf("path = %q, want matrix", unsupported.Path)
	}
}

func TestFlattenNamedConverterMakesRecordALeaf(t *testing.T) {
	reg := resolve.NewRegistry()
	reg.RegisterNamed("Address", func(raw string) (any, error) { return raw, nil })

	sig := cli.Signature{Params: []cli.Field{
		{Name: "address", Type: cli.Record("Address")},
	}}
	set, err := Flatten(reg, userRecords(), "ship", sig, Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	spec, ok := set.Spec("address")
	if !ok {
		t.Fatalf("address spec not found")
	}
	if spec.Composite || spec.Shape != cli.ShapeScalar {
		t.Errorf("record with a named converter must stay a scalar leaf, got shape %s", spec.Shape)
	}
	if len(set.Leaves) != 1 {
		t.Errorf("got %d leaves, want 1", len(set.Leaves))
	}
}

func TestCheckDisjoint(t *testing.T) {
	reg := resolve.NewRegistry()
	init, err := Flatten(reg, nil, "Counter", cli.Signature{Params: []cli.Field{
		{Name: "step", Type: cli.Int(), Default: 1, HasDefault: true},
	}}, Options{})
	if err != nil {
		t.Fatalf("Flatten init: %v", err)
	}

	ok, err := Flatten(reg, nil, "add", cli.Signature{Params: []cli.Field{
		{Name: "n", Type: cli.Int()},
	}}, Options{})
	if err != nil {
		t.Fatalf("Flatten method: %v", err)
	}
	if err := init.CheckDisjoint(ok); err != nil {
		t.Errorf("disjoint namespaces flagged: %v", err)
	}

	clash, err := Flatten(reg, nil, "reset", cli.Signature{Params: []cli.Field{
		{Name: "step", Type: cli.Int()},
	}}, Options{})
	if err != nil {
		t.Fatalf("Flatten clashing method: %v", err)
	}
	var dup *cli.DuplicateFlagError
	if err := init.CheckDisjoint(clash); !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateFlagError", err)
	}
	if dup.Path != "step" {
		t.Errorf("colliding path = %q, want step", dup.Path)
	}
}
