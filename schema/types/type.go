// Package types provides the declared-type tags carried by path expressions
package types

import (
	"reflect"
	"time"
)

// Shape is the categorical kind of a property
type Shape int

const (
	// ShapeAny is the catch-all shape with equality only
	ShapeAny Shape = iota

	// ShapeBoolean represents a boolean property
	ShapeBoolean

	// ShapeNumber represents a numeric, orderable property
	ShapeNumber

	// ShapeComparable represents an orderable property
	ShapeComparable

	// ShapeDate represents a date property
	ShapeDate

	// ShapeTime represents a time-of-day property
	ShapeTime

	// ShapeDateTime represents a timestamp property
	ShapeDateTime

	// ShapeString represents a string property
	ShapeString

	// ShapeEntity represents a reference to a domain object
	ShapeEntity

	// ShapeList represents an ordered, index-addressable sequence
	ShapeList

	// ShapeCollection represents an unordered collection
	ShapeCollection

	// ShapeMap represents a key/value mapping
	ShapeMap

	// ShapeBooleanArray represents an array of booleans
	ShapeBooleanArray

	// ShapeStringArray represents an array of strings
	ShapeStringArray

	// ShapeComparableArray represents an array of orderable values
	ShapeComparableArray
)

var shapeNames = [...]string{
	ShapeAny:             "any",
	ShapeBoolean:         "boolean",
	ShapeNumber:          "number",
	ShapeComparable:      "comparable",
	ShapeDate:            "date",
	ShapeTime:            "time",
	ShapeDateTime:        "datetime",
	ShapeString:          "string",
	ShapeEntity:          "entity",
	ShapeList:            "list",
	ShapeCollection:      "collection",
	ShapeMap:             "map",
	ShapeBooleanArray:    "boolean[]",
	ShapeStringArray:     "string[]",
	ShapeComparableArray: "comparable[]",
}

// String returns the canonical name of the shape
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// Valid reports whether s is one of the declared shapes
func (s Shape) Valid() bool {
	return s >= ShapeAny && int(s) < len(shapeNames)
}

// IsOrdered returns true if paths of this shape expose ordering operators
func (s Shape) IsOrdered() bool {
	switch s {
	case ShapeNumber, ShapeComparable, ShapeDate, ShapeTime, ShapeDateTime, ShapeString:
		return true
	}
	return false
}

// IsTemporal returns true for the date, time and date-time shapes
func (s Shape) IsTemporal() bool {
	return s == ShapeDate || s == ShapeTime || s == ShapeDateTime
}

// IsArray returns true for the fixed array shapes
func (s Shape) IsArray() bool {
	return s == ShapeBooleanArray || s == ShapeStringArray || s == ShapeComparableArray
}

// IsContainer returns true if the shape holds other values
func (s Shape) IsContainer() bool {
	return s == ShapeList || s == ShapeCollection || s == ShapeMap || s.IsArray()
}

// Type is the declared type of a path expression
type Type struct {
	// Shape is the property shape
	Shape Shape

	// Name is the Go type name, e.g. "int" or "time.Time"
	Name string

	// ElementType is the element type for lists, collections and arrays
	ElementType *Type

	// KeyType and ValueType describe map types
	KeyType   *Type
	ValueType *Type

	goType reflect.Type
}

var timeType = reflect.TypeFor[time.Time]()

// maxDepth bounds inference through self-referential container types
const maxDepth = 16

// Of returns the declared type for the static type D
func Of[D any]() *Type {
	return FromReflect(reflect.TypeFor[D]())
}

// FromValue infers a Type from a Go value. Untyped nil yields ShapeAny.
func FromValue(value interface{}) *Type {
	if value == nil {
		return NewAnyType()
	}
	return FromReflect(reflect.TypeOf(value))
}

// FromReflect infers a Type from a reflect.Type
func FromReflect(rt reflect.Type) *Type {
	return fromReflect(rt, 0)
}

func fromReflect(rt reflect.Type, depth int) *Type {
	if rt == nil {
		return NewAnyType()
	}
	t := &Type{Name: rt.String(), goType: rt}
	if depth > maxDepth {
		t.Shape = ShapeAny
		return t
	}

	if rt == timeType {
		t.Shape = ShapeDateTime
		return t
	}

	switch rt.Kind() {
	case reflect.Bool:
		t.Shape = ShapeBoolean
		return t
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		t.Shape = ShapeNumber
		return t
	case reflect.String:
		t.Shape = ShapeString
		return t
	}

	if HasCompare(rt) {
		t.Shape = ShapeComparable
		return t
	}

	switch rt.Kind() {
	case reflect.Struct:
		t.Shape = ShapeEntity
	case reflect.Pointer:
		if rt.Elem().Kind() == reflect.Struct {
			t.Shape = ShapeEntity
		} else {
			t.Shape = ShapeAny
		}
	case reflect.Slice, reflect.Array:
		elem := fromReflect(rt.Elem(), depth+1)
		t.ElementType = elem
		switch {
		case elem.Shape == ShapeBoolean:
			t.Shape = ShapeBooleanArray
		case elem.Shape == ShapeString:
			t.Shape = ShapeStringArray
		case elem.Shape == ShapeNumber || elem.Shape == ShapeComparable:
			t.Shape = ShapeComparableArray
		default:
			t.Shape = ShapeList
		}
	case reflect.Map:
		t.Shape = ShapeMap
		t.KeyType = fromReflect(rt.Key(), depth+1)
		t.ValueType = fromReflect(rt.Elem(), depth+1)
		// map[K]struct{} is a set of K
		if isEmptyStruct(rt.Elem()) {
			t.Shape = ShapeCollection
			t.ElementType = t.KeyType
		}
	default:
		t.Shape = ShapeAny
	}
	return t
}

// HasCompare reports whether rt has a method Compare(rt) int
func HasCompare(rt reflect.Type) bool {
	if rt == nil {
		return false
	}
	m, ok := rt.MethodByName("Compare")
	if !ok {
		return false
	}
	mt := m.Type
	// Method types from reflect.Type include the receiver as the first input.
	if rt.Kind() == reflect.Interface {
		return mt.NumIn() == 1 && mt.In(0) == rt && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Int
	}
	return mt.NumIn() == 2 && mt.In(1) == rt && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Int
}

// OrderedByCompare reports whether values of this type are ordered through
// a Compare method instead of the built-in operators. Temporal shapes always
// are; other types are when they have Compare and are not numbers or strings.
func (t *Type) OrderedByCompare() bool {
	if t == nil {
		return false
	}
	if t.Shape.IsTemporal() {
		return true
	}
	rt := t.goType
	if rt == nil || !HasCompare(rt) {
		return false
	}
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return false
	}
	return true
}

func isEmptyStruct(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt.NumField() == 0
}

// NewAnyType creates a type that can hold any value
func NewAnyType() *Type {
	return &Type{Shape: ShapeAny, Name: "interface {}"}
}

// GoType returns the Go type the declared type was inferred from, if any
func (t *Type) GoType() reflect.Type {
	if t == nil {
		return nil
	}
	return t.goType
}

// WithShape returns a copy of the type declared with another shape
func (t *Type) WithShape(shape Shape) *Type {
	clone := t.Clone()
	if clone == nil {
		clone = NewAnyType()
	}
	clone.Shape = shape
	return clone
}

// Clone creates a deep copy of this type
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}

	return &Type{
		Shape:       t.Shape,
		Name:        t.Name,
		ElementType: t.ElementType.Clone(),
		KeyType:     t.KeyType.Clone(),
		ValueType:   t.ValueType.Clone(),
		goType:      t.goType,
	}
}

// Equals checks if two types are equivalent
func (t *Type) Equals(other *Type) bool {
	if t == nil && other == nil {
		return true
	}

	if t == nil || other == nil {
		return false
	}

	if t.Shape != other.Shape || t.Name != other.Name {
		return false
	}

	return t.ElementType.Equals(other.ElementType) &&
		t.KeyType.Equals(other.KeyType) &&
		t.ValueType.Equals(other.ValueType)
}

// String returns the string representation of the type
func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}

	switch t.Shape {
	case ShapeBoolean, ShapeString, ShapeAny:
		return t.Shape.String()
	case ShapeList, ShapeCollection:
		return t.Shape.String() + "<" + t.ElementType.String() + ">"
	case ShapeBooleanArray, ShapeStringArray, ShapeComparableArray:
		return t.ElementType.String() + "[]"
	case ShapeMap:
		return "map<" + t.KeyType.String() + "," + t.ValueType.String() + ">"
	default:
		if t.Name == "" {
			return t.Shape.String()
		}
		return t.Shape.String() + "<" + t.Name + ">"
	}
}
