package path

import (
	"github.com/effectus/effectus-query/query"
	"github.com/effectus/effectus-query/schema/types"
)

// equality provides Eq, Ne, In and NotIn for any expression of type D
type equality[D any] struct {
	self query.Expression
}

// Eq holds when the value equals v
func (e equality[D]) Eq(v D) *query.Predicate {
	return query.NewPredicate(query.OpEq, e.self, query.ConstantOf(v))
}

// EqExpr holds when the value equals another expression
func (e equality[D]) EqExpr(other query.Expression) *query.Predicate {
	return query.NewPredicate(query.OpEq, e.self, other)
}

// Ne holds when the value differs from v
func (e equality[D]) Ne(v D) *query.Predicate {
	return query.NewPredicate(query.OpNe, e.self, query.ConstantOf(v))
}

// In holds when the value is one of values
func (e equality[D]) In(values ...D) *query.Predicate {
	return query.NewPredicate(query.OpIn, e.self, query.ConstantOf(values))
}

// NotIn holds when the value is none of values
func (e equality[D]) NotIn(values ...D) *query.Predicate {
	return query.NewPredicate(query.OpNotIn, e.self, query.ConstantOf(values))
}

// ordering adds the ordering operators
type ordering[D any] struct {
	equality[D]
}

func newOrdering[D any](self query.Expression) ordering[D] {
	return ordering[D]{equality: equality[D]{self: self}}
}

// Lt holds when the value is less than v
func (o ordering[D]) Lt(v D) *query.Predicate {
	return query.NewPredicate(query.OpLt, o.self, query.ConstantOf(v))
}

// Gt holds when the value is greater than v
func (o ordering[D]) Gt(v D) *query.Predicate {
	return query.NewPredicate(query.OpGt, o.self, query.ConstantOf(v))
}

// Loe holds when the value is less than or equal to v
func (o ordering[D]) Loe(v D) *query.Predicate {
	return query.NewPredicate(query.OpLoe, o.self, query.ConstantOf(v))
}

// Goe holds when the value is greater than or equal to v
func (o ordering[D]) Goe(v D) *query.Predicate {
	return query.NewPredicate(query.OpGoe, o.self, query.ConstantOf(v))
}

// Between holds when from <= value <= to
func (o ordering[D]) Between(from, to D) *query.Predicate {
	return query.NewPredicate(query.OpBetween, o.self, query.ConstantOf(from), query.ConstantOf(to))
}

// arithmetic builds derived numeric expressions
type arithmetic[D any] struct {
	self query.Expression
}

func (a arithmetic[D]) apply(op query.Operator, v D) *NumberExpression[D] {
	return newNumberExpression[D](query.NewOperation(a.self.Type(), op, a.self, query.ConstantOf(v)))
}

// Add returns value + v
func (a arithmetic[D]) Add(v D) *NumberExpression[D] {
	return a.apply(query.OpAdd, v)
}

// Subtract returns value - v
func (a arithmetic[D]) Subtract(v D) *NumberExpression[D] {
	return a.apply(query.OpSub, v)
}

// Multiply returns value * v
func (a arithmetic[D]) Multiply(v D) *NumberExpression[D] {
	return a.apply(query.OpMul, v)
}

// Divide returns value / v
func (a arithmetic[D]) Divide(v D) *NumberExpression[D] {
	return a.apply(query.OpDiv, v)
}

// NumberExpression is a derived numeric value, such as an arithmetic result
// or a length. It orders and computes like a numeric path.
type NumberExpression[D any] struct {
	query.Expression
	ordering[D]
	arithmetic[D]
}

func newNumberExpression[D any](e query.Expression) *NumberExpression[D] {
	return &NumberExpression[D]{
		Expression: e,
		ordering:   newOrdering[D](e),
		arithmetic: arithmetic[D]{self: e},
	}
}

var intType = types.Of[int]()

func length(self query.Expression) *NumberExpression[int] {
	return newNumberExpression[int](query.NewOperation(intType, query.OpLen, self))
}

// text provides the string matching operators
type text struct {
	self query.Expression
}

// StartsWith holds when the value starts with prefix
func (t text) StartsWith(prefix string) *query.Predicate {
	return query.NewPredicate(query.OpStartsWith, t.self, query.ConstantOf(prefix))
}

// EndsWith holds when the value ends with suffix
func (t text) EndsWith(suffix string) *query.Predicate {
	return query.NewPredicate(query.OpEndsWith, t.self, query.ConstantOf(suffix))
}

// Contains holds when the value contains substr
func (t text) Contains(substr string) *query.Predicate {
	return query.NewPredicate(query.OpContains, t.self, query.ConstantOf(substr))
}

// Like holds when the value matches a SQL LIKE pattern
func (t text) Like(pattern string) *query.Predicate {
	return query.NewPredicate(query.OpLike, t.self, query.ConstantOf(query.LikePattern(pattern)))
}

// Matches holds when the value matches the regular expression
func (t text) Matches(regex string) *query.Predicate {
	return query.NewPredicate(query.OpMatches, t.self, query.ConstantOf(regex))
}

// EqualsIgnoreCase holds when the value equals v ignoring case
func (t text) EqualsIgnoreCase(v string) *query.Predicate {
	return query.NewPredicate(query.OpEqIgnoreCase, t.self, query.ConstantOf(v))
}

// IsEmpty holds for the empty string
func (t text) IsEmpty() *query.Predicate {
	return query.NewPredicate(query.OpIsEmpty, t.self)
}

// Length returns the length of the value
func (t text) Length() *NumberExpression[int] {
	return length(t.self)
}

// Lower returns the value in lower case
func (t text) Lower() *StringExpression {
	return newStringExpression(query.NewOperation(stringType, query.OpLower, t.self))
}

// Upper returns the value in upper case
func (t text) Upper() *StringExpression {
	return newStringExpression(query.NewOperation(stringType, query.OpUpper, t.self))
}

var stringType = types.Of[string]()

// StringExpression is a derived string value
type StringExpression struct {
	query.Expression
	ordering[string]
	text
}

func newStringExpression(e query.Expression) *StringExpression {
	return &StringExpression{Expression: e, ordering: newOrdering[string](e), text: text{self: e}}
}
