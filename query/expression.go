// Package query holds the expression tree that path capabilities build, and
// renders and evaluates it with expr-lang.
package query

import (
	"regexp"
	"strings"

	"github.com/effectus/effectus-query/schema/types"
)

// Expression is a typed node of a query expression tree
type Expression interface {
	// Type returns the declared type of the value the expression yields
	Type() *types.Type

	// Render writes the expression as expr-lang source
	Render(r *Renderer)
}

// Constant is a literal value. Constants are always bound as parameters.
type Constant[D any] struct {
	value D
	typ   *types.Type
}

// ConstantOf creates a constant expression
func ConstantOf[D any](value D) *Constant[D] {
	typ := types.Of[D]()
	if typ.Shape == types.ShapeAny {
		if inferred := types.FromValue(value); inferred.Shape != types.ShapeAny {
			typ = inferred
		}
	}
	return &Constant[D]{value: value, typ: typ}
}

// Value returns the constant value
func (c *Constant[D]) Value() D {
	return c.value
}

// Type returns the declared type of the constant
func (c *Constant[D]) Type() *types.Type {
	return c.typ
}

// Render binds the value as a parameter
func (c *Constant[D]) Render(r *Renderer) {
	r.WriteParam(c.value)
}

// Operation applies an operator to its arguments
type Operation struct {
	op   Operator
	args []Expression
	typ  *types.Type
}

// NewOperation creates an operation yielding typ
func NewOperation(typ *types.Type, op Operator, args ...Expression) *Operation {
	return &Operation{op: op, args: args, typ: typ}
}

// Operator returns the operator
func (o *Operation) Operator() Operator {
	return o.op
}

// Args returns the operands
func (o *Operation) Args() []Expression {
	return o.args
}

// Arg returns the operand at i
func (o *Operation) Arg(i int) Expression {
	return o.args[i]
}

// Type returns the declared result type
func (o *Operation) Type() *types.Type {
	return o.typ
}

// Render writes the operation as expr-lang source
func (o *Operation) Render(r *Renderer) {
	r.writeOperation(o)
}

// String returns the rendered expr-lang source
func (o *Operation) String() string {
	src, _ := Render(o)
	return src
}

var boolType = types.Of[bool]()

// Predicate is a boolean operation
type Predicate struct {
	*Operation
}

// NewPredicate creates a boolean operation
func NewPredicate(op Operator, args ...Expression) *Predicate {
	return &Predicate{Operation: NewOperation(boolType, op, args...)}
}

// And returns p && other
func (p *Predicate) And(other *Predicate) *Predicate {
	return And(p, other)
}

// Or returns p || other
func (p *Predicate) Or(other *Predicate) *Predicate {
	return Or(p, other)
}

// Not returns !p
func (p *Predicate) Not() *Predicate {
	return NewPredicate(OpNot, p)
}

// And combines predicates with &&, skipping nil entries. It returns nil when
// nothing remains.
func And(preds ...*Predicate) *Predicate {
	return combine(OpAnd, preds)
}

// Or combines predicates with ||, skipping nil entries. It returns nil when
// nothing remains.
func Or(preds ...*Predicate) *Predicate {
	return combine(OpOr, preds)
}

func combine(op Operator, preds []*Predicate) *Predicate {
	var result *Predicate
	for _, p := range preds {
		if p == nil {
			continue
		}
		if result == nil {
			result = p
			continue
		}
		result = NewPredicate(op, result, p)
	}
	return result
}

// LikePattern converts a SQL LIKE pattern ('%' any run, '_' any single
// character) into an anchored regular expression. Wildcards match newlines.
func LikePattern(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
