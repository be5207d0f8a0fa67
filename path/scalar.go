package path

import (
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/query"
	"github.com/effectus/effectus-query/schema/types"
)

// Boolean is a boolean path
type Boolean struct {
	base
	equality[bool]
}

// NewBoolean creates a Boolean path
func NewBoolean(md pathutil.Metadata, typ *types.Type) *Boolean {
	b := newBase(md, typ.WithShape(types.ShapeBoolean))
	return &Boolean{base: b, equality: equality[bool]{self: b}}
}

// IsTrue holds when the value is true
func (p *Boolean) IsTrue() *query.Predicate {
	return p.Eq(true)
}

// IsFalse holds when the value is false
func (p *Boolean) IsFalse() *query.Predicate {
	return p.Eq(false)
}

// Predicate uses the path itself as a condition
func (p *Boolean) Predicate() *query.Predicate {
	return p.IsTrue()
}

// Comparable is an orderable path
type Comparable[D any] struct {
	base
	ordering[D]
}

// NewComparable creates a Comparable path
func NewComparable[D any](md pathutil.Metadata, typ *types.Type) *Comparable[D] {
	b := newBase(md, typ.WithShape(types.ShapeComparable))
	return &Comparable[D]{base: b, ordering: newOrdering[D](b)}
}

// Number is a numeric path: orderable and usable in arithmetic
type Number[D any] struct {
	base
	ordering[D]
	arithmetic[D]
}

// NewNumber creates a Number path
func NewNumber[D any](md pathutil.Metadata, typ *types.Type) *Number[D] {
	b := newBase(md, typ.WithShape(types.ShapeNumber))
	return &Number[D]{base: b, ordering: newOrdering[D](b), arithmetic: arithmetic[D]{self: b}}
}

// temporal adds Before and After to ordering
type temporal[D any] struct {
	ordering[D]
}

// Before holds when the value is strictly before v
func (t temporal[D]) Before(v D) *query.Predicate {
	return t.Lt(v)
}

// After holds when the value is strictly after v
func (t temporal[D]) After(v D) *query.Predicate {
	return t.Gt(v)
}

// Date is a calendar date path
type Date[D any] struct {
	base
	temporal[D]
}

// NewDate creates a Date path
func NewDate[D any](md pathutil.Metadata, typ *types.Type) *Date[D] {
	b := newBase(md, typ.WithShape(types.ShapeDate))
	return &Date[D]{base: b, temporal: temporal[D]{newOrdering[D](b)}}
}

// Time is a time-of-day path
type Time[D any] struct {
	base
	temporal[D]
}

// NewTime creates a Time path
func NewTime[D any](md pathutil.Metadata, typ *types.Type) *Time[D] {
	b := newBase(md, typ.WithShape(types.ShapeTime))
	return &Time[D]{base: b, temporal: temporal[D]{newOrdering[D](b)}}
}

// DateTime is a timestamp path
type DateTime[D any] struct {
	base
	temporal[D]
}

// NewDateTime creates a DateTime path
func NewDateTime[D any](md pathutil.Metadata, typ *types.Type) *DateTime[D] {
	b := newBase(md, typ.WithShape(types.ShapeDateTime))
	return &DateTime[D]{base: b, temporal: temporal[D]{newOrdering[D](b)}}
}

// String is a string path with text matching
type String struct {
	base
	ordering[string]
	text
}

// NewString creates a String path
func NewString(md pathutil.Metadata, typ *types.Type) *String {
	b := newBase(md, typ.WithShape(types.ShapeString))
	return &String{base: b, ordering: newOrdering[string](b), text: text{self: b}}
}
