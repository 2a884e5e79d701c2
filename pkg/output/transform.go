package output

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Transformer applies an expr expression to a result before formatting.
// The expression sees the result as the variable "result"; for map results
// the fields are also available directly.
type Transformer struct {
	source  string
	program *vm.Program
}

// NewTransformer compiles the expression. An empty expression yields a
// pass-through transformer.
func NewTransformer(expression string) (*Transformer, error) {
	t := &Transformer{source: expression}
	if expression == "" {
		return t, nil
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid transform expression %q: %w", expression, err)
	}
	t.program = program
	return t, nil
}

// Apply evaluates the expression against the result.
func (t *Transformer) Apply(result any) (any, error) {
	if t.program == nil {
		return result, nil
	}
	env := map[string]any{"result": result}
	if fields, ok := result.(map[string]any); ok {
		for k, v := range fields {
			env[k] = v
		}
	}
	out, err := expr.Run(t.program, env)
	if err != nil {
		return nil, fmt.Errorf("transform %q failed: %w", t.source, err)
	}
	return out, nil
}
