// Package alias builds typed path expressions for the properties of domain
// objects.
//
// The generic Create functions carry the capability contract in their type
// parameters and cannot fail. Factory offers the same operations for values
// only known at run time and reports ErrShapeMismatch, ErrNullInput and
// ErrUnsupportedShape instead.
package alias

import (
	"cmp"

	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
)

// declared returns the declared type for D, looking at arg when D is an
// interface type
func declared[D any](arg D) *types.Type {
	typ := types.Of[D]()
	if typ.Shape == types.ShapeAny {
		if inferred := types.FromValue(arg); inferred.GoType() != nil {
			return inferred
		}
	}
	return typ
}

// CreateAny creates a path with equality only
func CreateAny[D any](md pathutil.Metadata, arg D) *path.Simple[D] {
	return path.NewSimple[D](md, declared(arg))
}

// CreateBoolean creates a boolean path
func CreateBoolean(md pathutil.Metadata, arg bool) *path.Boolean {
	return path.NewBoolean(md, types.Of[bool]())
}

// CreateBooleanArray creates a boolean array path with the element count of args
func CreateBooleanArray(md pathutil.Metadata, args []bool) *path.BooleanArray {
	return path.NewBooleanArray(md, types.Of[[]bool](), len(args))
}

// CreateNumber creates a numeric path
func CreateNumber[D path.Numeric](md pathutil.Metadata, arg D) *path.Number[D] {
	return path.NewNumber[D](md, types.Of[D]())
}

// CreateComparable creates an orderable path
func CreateComparable[D cmp.Ordered](md pathutil.Metadata, arg D) *path.Comparable[D] {
	return path.NewComparable[D](md, types.Of[D]())
}

// CreateDate creates a date path
func CreateDate[D path.Temporal[D]](md pathutil.Metadata, arg D) *path.Date[D] {
	return path.NewDate[D](md, types.Of[D]())
}

// CreateTime creates a time path
func CreateTime[D path.Temporal[D]](md pathutil.Metadata, arg D) *path.Time[D] {
	return path.NewTime[D](md, types.Of[D]())
}

// CreateDateTime creates a date-time path
func CreateDateTime[D path.Temporal[D]](md pathutil.Metadata, arg D) *path.DateTime[D] {
	return path.NewDateTime[D](md, types.Of[D]())
}

// CreateEntity creates an entity path
func CreateEntity[D any](md pathutil.Metadata, arg D) *path.Entity[D] {
	return path.NewEntity[D](md, declared(arg))
}

// CreateList creates a list path
func CreateList[D any](md pathutil.Metadata, arg []D) *path.List[D] {
	return path.NewList[D](md, types.Of[[]D]())
}

// CreateMap creates a map path
func CreateMap[K comparable, V any](md pathutil.Metadata, arg map[K]V) *path.Map[K, V] {
	return path.NewMap[K, V](md, types.Of[map[K]V]())
}

// CreateEntityCollection creates a collection path. The element order of arg
// carries no meaning.
func CreateEntityCollection[D any](md pathutil.Metadata, arg []D) *path.Collection[D] {
	return path.NewCollection[D](md, types.Of[[]D]())
}

// CreateComparableArray creates an array path of orderable elements
func CreateComparableArray[D cmp.Ordered](md pathutil.Metadata, args []D) *path.ComparableArray[D] {
	return path.NewComparableArray[D](md, types.Of[[]D](), len(args))
}

// CreateString creates a string path
func CreateString(md pathutil.Metadata, arg string) *path.String {
	return path.NewString(md, types.Of[string]())
}

// CreateStringArray creates a string array path with the element count of args
func CreateStringArray(md pathutil.Metadata, args []string) *path.StringArray {
	return path.NewStringArray(md, types.Of[[]string](), len(args))
}

// Var creates the root entity path for a variable
func Var[D any](name string, sample D) *path.Entity[D] {
	return CreateEntity(pathutil.ForVariable(name), sample)
}
