package query

import (
	"fmt"

	"github.com/effectus/effectus-query/schema/types"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Program is a compiled expression with its bound parameters. A Program is
// immutable and may be run concurrently.
type Program struct {
	source  string
	params  map[string]interface{}
	program *vm.Program
}

// Compile renders and compiles an expression. When env is non-nil it is used
// to type check the source; its values only need the right types.
func Compile(e Expression, env map[string]interface{}) (*Program, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	source, params, err := RenderChecked(e)
	if err != nil {
		return nil, err
	}

	var opts []expr.Option
	if env != nil {
		opts = append(opts, expr.Env(mergeEnv(env, params)))
	}
	if typ := e.Type(); typ != nil && typ.Shape == types.ShapeBoolean {
		opts = append(opts, expr.AsBool())
	}

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, err)
	}

	return &Program{source: source, params: params, program: program}, nil
}

// Source returns the rendered expr-lang source
func (p *Program) Source() string {
	return p.source
}

// Params returns the parameters bound during rendering
func (p *Program) Params() map[string]interface{} {
	return p.params
}

// Run evaluates the program against env
func (p *Program) Run(env map[string]interface{}) (interface{}, error) {
	result, err := expr.Run(p.program, mergeEnv(env, p.params))
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", p.source, err)
	}
	return result, nil
}

// Test runs a boolean program
func (p *Program) Test(env map[string]interface{}) (bool, error) {
	result, err := p.Run(env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q yielded %T, not bool", p.source, result)
	}
	return b, nil
}

// Evaluate compiles and runs a predicate against env
func Evaluate(pred *Predicate, env map[string]interface{}) (bool, error) {
	if pred == nil {
		return false, fmt.Errorf("nil predicate")
	}
	program, err := Compile(pred, env)
	if err != nil {
		return false, err
	}
	return program.Test(env)
}

// Filter returns the items for which pred holds when each item is bound to
// the variable root. The predicate is compiled once.
func Filter[T any](pred *Predicate, root string, items []T) ([]T, error) {
	if pred == nil {
		return nil, fmt.Errorf("nil predicate")
	}

	var zero T
	var typeEnv map[string]interface{}
	if interface{}(zero) != nil {
		typeEnv = map[string]interface{}{root: zero}
	}
	program, err := Compile(pred, typeEnv)
	if err != nil {
		return nil, err
	}

	var out []T
	env := make(map[string]interface{}, 1)
	for _, item := range items {
		env[root] = item
		ok, err := program.Test(env)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func mergeEnv(env, params map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(env)+len(params))
	for k, v := range env {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
