package path

import (
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
)

// array records the element count observed when the path was created
type array struct {
	length int
}

// Len returns the element count of the array the path was created from
func (a array) Len() int {
	return a.length
}

// BooleanArray is an array of booleans
type BooleanArray struct {
	base
	array
	collection[bool]
}

// NewBooleanArray creates a BooleanArray path
func NewBooleanArray(md pathutil.Metadata, typ *types.Type, length int) *BooleanArray {
	b := newBase(md, typ.WithShape(types.ShapeBooleanArray))
	return &BooleanArray{base: b, array: array{length: length}, collection: collection[bool]{self: b}}
}

// Get returns the element at index
func (a *BooleanArray) Get(index int) *Boolean {
	return NewBoolean(pathutil.ForListAccess(a.md, index), elementType(a.typ))
}

// StringArray is an array of strings
type StringArray struct {
	base
	array
	collection[string]
}

// NewStringArray creates a StringArray path
func NewStringArray(md pathutil.Metadata, typ *types.Type, length int) *StringArray {
	b := newBase(md, typ.WithShape(types.ShapeStringArray))
	return &StringArray{base: b, array: array{length: length}, collection: collection[string]{self: b}}
}

// Get returns the element at index
func (a *StringArray) Get(index int) *String {
	return NewString(pathutil.ForListAccess(a.md, index), elementType(a.typ))
}

// ComparableArray is an array of orderable values
type ComparableArray[D any] struct {
	base
	array
	collection[D]
}

// NewComparableArray creates a ComparableArray path
func NewComparableArray[D any](md pathutil.Metadata, typ *types.Type, length int) *ComparableArray[D] {
	b := newBase(md, typ.WithShape(types.ShapeComparableArray))
	return &ComparableArray[D]{base: b, array: array{length: length}, collection: collection[D]{self: b}}
}

// Get returns the element at index
func (a *ComparableArray[D]) Get(index int) *Comparable[D] {
	return NewComparable[D](pathutil.ForListAccess(a.md, index), elementType(a.typ))
}
