// Package path provides typed path expressions. Each variant exposes only
// the capabilities valid for its shape: ordering for comparable paths, text
// matching for strings, navigation for containers.
package path

import (
	"cmp"

	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/query"
	"github.com/effectus/effectus-query/schema/types"
)

// Path is a typed expression bound to a position in a domain object graph
type Path interface {
	query.Expression

	// Metadata returns the path context
	Metadata() pathutil.Metadata

	// String returns the dotted path
	String() string
}

// Numeric is satisfied by the built-in number types
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Ordered is satisfied by types supporting < and >
type Ordered = cmp.Ordered

// Temporal is satisfied by date and time types ordered through Compare, such
// as time.Time
type Temporal[D any] interface {
	Compare(D) int
}

// base carries what every path has: its metadata and declared type
type base struct {
	md  pathutil.Metadata
	typ *types.Type
}

func newBase(md pathutil.Metadata, typ *types.Type) base {
	return base{md: md, typ: typ}
}

// Metadata returns the path context
func (b base) Metadata() pathutil.Metadata {
	return b.md
}

// Type returns the declared type
func (b base) Type() *types.Type {
	return b.typ
}

// Render writes the path
func (b base) Render(r *query.Renderer) {
	r.WritePath(b.md)
}

// String returns the dotted path
func (b base) String() string {
	return b.md.String()
}

// IsNil holds when the value at the path is nil
func (b base) IsNil() *query.Predicate {
	return query.NewPredicate(query.OpIsNil, b)
}

// IsNotNil holds when the value at the path is not nil
func (b base) IsNotNil() *query.Predicate {
	return query.NewPredicate(query.OpIsNotNil, b)
}

// Simple is a path of any type with no capability beyond equality
type Simple[D any] struct {
	base
	equality[D]
}

// NewSimple creates a Simple path
func NewSimple[D any](md pathutil.Metadata, typ *types.Type) *Simple[D] {
	b := newBase(md, typ.WithShape(types.ShapeAny))
	return &Simple[D]{base: b, equality: equality[D]{self: b}}
}
