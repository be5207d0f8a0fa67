package path

import (
	"reflect"

	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/query"
	"github.com/effectus/effectus-query/schema/types"
)

// Entity is a reference to a domain object. Properties are reached with
// alias.Get, or by building child metadata with Property.
type Entity[D any] struct {
	base
	equality[D]
}

// NewEntity creates an Entity path
func NewEntity[D any](md pathutil.Metadata, typ *types.Type) *Entity[D] {
	b := newBase(md, typ.WithShape(types.ShapeEntity))
	return &Entity[D]{base: b, equality: equality[D]{self: b}}
}

// Property returns the metadata of the named property below this entity
func (e *Entity[D]) Property(name string) pathutil.Metadata {
	return pathutil.ForProperty(e.md, name)
}

// collection holds the capabilities shared by lists, collections and arrays
type collection[E any] struct {
	self query.Expression
}

// Size returns the number of elements
func (c collection[E]) Size() *NumberExpression[int] {
	return length(c.self)
}

// IsEmpty holds when there are no elements
func (c collection[E]) IsEmpty() *query.Predicate {
	return query.NewPredicate(query.OpIsEmpty, c.self)
}

// IsNotEmpty holds when there is at least one element
func (c collection[E]) IsNotEmpty() *query.Predicate {
	return query.NewPredicate(query.OpIsNotEmpty, c.self)
}

// Contains holds when v is an element
func (c collection[E]) Contains(v E) *query.Predicate {
	return query.NewPredicate(query.OpContainsElement, c.self, query.ConstantOf(v))
}

func elementType(typ *types.Type) *types.Type {
	if typ != nil && typ.ElementType != nil {
		return typ.ElementType
	}
	return types.NewAnyType()
}

// List is an ordered, index-addressable sequence of entities
type List[D any] struct {
	base
	collection[D]
}

// NewList creates a List path
func NewList[D any](md pathutil.Metadata, typ *types.Type) *List[D] {
	b := newBase(md, typ.WithShape(types.ShapeList))
	return &List[D]{base: b, collection: collection[D]{self: b}}
}

// Get returns the element at index
func (l *List[D]) Get(index int) *Entity[D] {
	return NewEntity[D](pathutil.ForListAccess(l.md, index), elementType(l.typ))
}

// Any holds when fn's condition holds for at least one element
func (l *List[D]) Any(fn func(elem *Entity[D]) *query.Predicate) *query.Predicate {
	elem := NewEntity[D](pathutil.ForCollectionAny(l.md), elementType(l.typ))
	return query.NewPredicate(query.OpAny, l.base, fn(elem))
}

// Collection is an unordered collection of entities. Elements have no index.
type Collection[D any] struct {
	base
	collection[D]
}

// NewCollection creates a Collection path
func NewCollection[D any](md pathutil.Metadata, typ *types.Type) *Collection[D] {
	b := newBase(md, typ.WithShape(types.ShapeCollection))
	return &Collection[D]{base: b, collection: collection[D]{self: b}}
}

// Any holds when fn's condition holds for at least one element
func (c *Collection[D]) Any(fn func(elem *Entity[D]) *query.Predicate) *query.Predicate {
	elem := NewEntity[D](pathutil.ForCollectionAny(c.md), elementType(c.typ))
	op := query.OpAny
	// Sets are maps keyed by element; iterate their keys.
	if gt := c.typ.GoType(); gt != nil && gt.Kind() == reflect.Map {
		op = query.OpAnyKey
	}
	return query.NewPredicate(op, c.base, fn(elem))
}

// Map is a key/value mapping navigable by key
type Map[K comparable, V any] struct {
	base
	equality[map[K]V]
}

// NewMap creates a Map path
func NewMap[K comparable, V any](md pathutil.Metadata, typ *types.Type) *Map[K, V] {
	b := newBase(md, typ.WithShape(types.ShapeMap))
	return &Map[K, V]{base: b, equality: equality[map[K]V]{self: b}}
}

// Get returns the value at key. Like a list element it is an entity: it
// compares by equality and, for struct or string-keyed map values, its
// properties can be navigated.
func (m *Map[K, V]) Get(key K) *Entity[V] {
	return NewEntity[V](pathutil.ForMapAccess(m.md, key), m.valueType())
}

// Value returns the value at key as the variant matching the value's
// declared shape, e.g. a *Number[any] for map[string]int
func (m *Map[K, V]) Value(key K) Path {
	typ := m.valueType()
	return New(typ.Shape, pathutil.ForMapAccess(m.md, key), typ, 0)
}

func (m *Map[K, V]) valueType() *types.Type {
	if m.typ != nil && m.typ.ValueType != nil {
		return m.typ.ValueType
	}
	return types.NewAnyType()
}

// ContainsKey holds when key is present
func (m *Map[K, V]) ContainsKey(key K) *query.Predicate {
	return query.NewPredicate(query.OpContainsKey, m.base, query.ConstantOf(key))
}

// ContainsValue holds when some entry has value v
func (m *Map[K, V]) ContainsValue(v V) *query.Predicate {
	return query.NewPredicate(query.OpContainsValue, m.base, query.ConstantOf(v))
}

// Size returns the number of entries
func (m *Map[K, V]) Size() *NumberExpression[int] {
	return length(m.base)
}

// IsEmpty holds when the map has no entries
func (m *Map[K, V]) IsEmpty() *query.Predicate {
	return query.NewPredicate(query.OpIsEmpty, m.base)
}
