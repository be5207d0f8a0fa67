package alias

import (
	"reflect"

	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
)

// PathFactory creates path expressions for values whose type is only known
// at run time. Every operation fails with ErrNullInput for an untyped nil
// and with ErrShapeMismatch when the value does not fit the shape.
type PathFactory interface {
	CreateAny(md pathutil.Metadata, arg interface{}) (*path.Simple[any], error)
	CreateBoolean(md pathutil.Metadata, arg interface{}) (*path.Boolean, error)
	CreateBooleanArray(md pathutil.Metadata, args interface{}) (*path.BooleanArray, error)
	CreateNumber(md pathutil.Metadata, arg interface{}) (*path.Number[any], error)
	CreateComparable(md pathutil.Metadata, arg interface{}) (*path.Comparable[any], error)
	CreateDate(md pathutil.Metadata, arg interface{}) (*path.Date[any], error)
	CreateTime(md pathutil.Metadata, arg interface{}) (*path.Time[any], error)
	CreateDateTime(md pathutil.Metadata, arg interface{}) (*path.DateTime[any], error)
	CreateEntity(md pathutil.Metadata, arg interface{}) (*path.Entity[any], error)
	CreateList(md pathutil.Metadata, arg interface{}) (*path.List[any], error)
	CreateMap(md pathutil.Metadata, arg interface{}) (*path.Map[any, any], error)
	CreateEntityCollection(md pathutil.Metadata, arg interface{}) (*path.Collection[any], error)
	CreateComparableArray(md pathutil.Metadata, args interface{}) (*path.ComparableArray[any], error)
	CreateString(md pathutil.Metadata, arg interface{}) (*path.String, error)
	CreateStringArray(md pathutil.Metadata, args interface{}) (*path.StringArray, error)
}

// Factory is the stateless PathFactory. The zero value is ready to use and
// safe for concurrent use.
type Factory struct{}

var _ PathFactory = Factory{}

// NewFactory returns a Factory
func NewFactory() Factory {
	return Factory{}
}

// source is a checked input: its Go type and, for arrays, its length
type source struct {
	rt     reflect.Type
	length int
}

func inspect(op string, shape types.Shape, arg interface{}) (source, error) {
	if arg == nil {
		return source{}, &ShapeError{Op: op, Shape: shape, Err: ErrNullInput}
	}
	rv := reflect.ValueOf(arg)
	rt := rv.Type()
	if !fits(shape, rt) {
		return source{}, &ShapeError{Op: op, Shape: shape, GoType: rt, Err: ErrShapeMismatch}
	}
	src := source{rt: rt}
	if rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array {
		src.length = rv.Len()
	}
	return src, nil
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isOrdered(rt reflect.Type) bool {
	return isNumberKind(rt.Kind()) || rt.Kind() == reflect.String || types.HasCompare(rt)
}

func isSequence(rt reflect.Type) bool {
	return rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array
}

// fits reports whether values of rt can back a path of the given shape
func fits(shape types.Shape, rt reflect.Type) bool {
	switch shape {
	case types.ShapeAny:
		return true
	case types.ShapeBoolean:
		return rt.Kind() == reflect.Bool
	case types.ShapeNumber:
		return isNumberKind(rt.Kind())
	case types.ShapeComparable:
		return isOrdered(rt)
	case types.ShapeDate, types.ShapeTime, types.ShapeDateTime:
		return types.HasCompare(rt)
	case types.ShapeString:
		return rt.Kind() == reflect.String
	case types.ShapeEntity:
		switch rt.Kind() {
		case reflect.Struct:
			return true
		case reflect.Pointer:
			return rt.Elem().Kind() == reflect.Struct
		case reflect.Map:
			return rt.Key().Kind() == reflect.String
		}
		return false
	case types.ShapeList:
		return isSequence(rt)
	case types.ShapeCollection:
		return isSequence(rt) || (rt.Kind() == reflect.Map && rt.Elem().Kind() == reflect.Struct && rt.Elem().NumField() == 0)
	case types.ShapeMap:
		return rt.Kind() == reflect.Map
	case types.ShapeBooleanArray:
		return isSequence(rt) && rt.Elem().Kind() == reflect.Bool
	case types.ShapeStringArray:
		return isSequence(rt) && rt.Elem().Kind() == reflect.String
	case types.ShapeComparableArray:
		return isSequence(rt) && isOrdered(rt.Elem())
	}
	return false
}

// build creates the path for a checked source
func build(shape types.Shape, md pathutil.Metadata, src source) path.Path {
	return path.New(shape, md, types.FromReflect(src.rt), src.length)
}

func create[P path.Path](op string, shape types.Shape, md pathutil.Metadata, arg interface{}) (P, error) {
	var zero P
	src, err := inspect(op, shape, arg)
	if err != nil {
		return zero, err
	}
	return build(shape, md, src).(P), nil
}

// CreateAny creates a path with equality only
func (Factory) CreateAny(md pathutil.Metadata, arg interface{}) (*path.Simple[any], error) {
	return create[*path.Simple[any]]("createAny", types.ShapeAny, md, arg)
}

// CreateBoolean creates a boolean path
func (Factory) CreateBoolean(md pathutil.Metadata, arg interface{}) (*path.Boolean, error) {
	return create[*path.Boolean]("createBoolean", types.ShapeBoolean, md, arg)
}

// CreateBooleanArray creates a boolean array path
func (Factory) CreateBooleanArray(md pathutil.Metadata, args interface{}) (*path.BooleanArray, error) {
	return create[*path.BooleanArray]("createBooleanArray", types.ShapeBooleanArray, md, args)
}

// CreateNumber creates a numeric path
func (Factory) CreateNumber(md pathutil.Metadata, arg interface{}) (*path.Number[any], error) {
	return create[*path.Number[any]]("createNumber", types.ShapeNumber, md, arg)
}

// CreateComparable creates an orderable path
func (Factory) CreateComparable(md pathutil.Metadata, arg interface{}) (*path.Comparable[any], error) {
	return create[*path.Comparable[any]]("createComparable", types.ShapeComparable, md, arg)
}

// CreateDate creates a date path
func (Factory) CreateDate(md pathutil.Metadata, arg interface{}) (*path.Date[any], error) {
	return create[*path.Date[any]]("createDate", types.ShapeDate, md, arg)
}

// CreateTime creates a time path
func (Factory) CreateTime(md pathutil.Metadata, arg interface{}) (*path.Time[any], error) {
	return create[*path.Time[any]]("createTime", types.ShapeTime, md, arg)
}

// CreateDateTime creates a date-time path
func (Factory) CreateDateTime(md pathutil.Metadata, arg interface{}) (*path.DateTime[any], error) {
	return create[*path.DateTime[any]]("createDateTime", types.ShapeDateTime, md, arg)
}

// CreateEntity creates an entity path from a struct, a struct pointer or a
// string-keyed map
func (Factory) CreateEntity(md pathutil.Metadata, arg interface{}) (*path.Entity[any], error) {
	return create[*path.Entity[any]]("createEntity", types.ShapeEntity, md, arg)
}

// CreateList creates a list path
func (Factory) CreateList(md pathutil.Metadata, arg interface{}) (*path.List[any], error) {
	return create[*path.List[any]]("createList", types.ShapeList, md, arg)
}

// CreateMap creates a map path
func (Factory) CreateMap(md pathutil.Metadata, arg interface{}) (*path.Map[any, any], error) {
	return create[*path.Map[any, any]]("createMap", types.ShapeMap, md, arg)
}

// CreateEntityCollection creates a collection path from a slice, an array or
// a set (map[K]struct{})
func (Factory) CreateEntityCollection(md pathutil.Metadata, arg interface{}) (*path.Collection[any], error) {
	return create[*path.Collection[any]]("createEntityCollection", types.ShapeCollection, md, arg)
}

// CreateComparableArray creates an array path of orderable elements
func (Factory) CreateComparableArray(md pathutil.Metadata, args interface{}) (*path.ComparableArray[any], error) {
	return create[*path.ComparableArray[any]]("createComparableArray", types.ShapeComparableArray, md, args)
}

// CreateString creates a string path
func (Factory) CreateString(md pathutil.Metadata, arg interface{}) (*path.String, error) {
	return create[*path.String]("createString", types.ShapeString, md, arg)
}

// CreateStringArray creates a string array path
func (Factory) CreateStringArray(md pathutil.Metadata, args interface{}) (*path.StringArray, error) {
	return create[*path.StringArray]("createStringArray", types.ShapeStringArray, md, args)
}

// Create infers the shape of v and builds the matching path. Values of no
// known shape get a Simple path.
func (Factory) Create(md pathutil.Metadata, v interface{}) (path.Path, error) {
	if v == nil {
		return nil, &ShapeError{Op: "create", Shape: types.ShapeAny, Err: ErrNullInput}
	}
	src, err := inspect("create", types.ShapeAny, v)
	if err != nil {
		return nil, err
	}
	return build(types.FromReflect(src.rt).Shape, md, src), nil
}

// CreateAs builds a path of the requested shape for v
func (Factory) CreateAs(shape types.Shape, md pathutil.Metadata, v interface{}) (path.Path, error) {
	if !shape.Valid() {
		return nil, &ShapeError{Op: "createAs", Shape: shape, Err: ErrUnsupportedShape}
	}
	src, err := inspect("createAs", shape, v)
	if err != nil {
		return nil, err
	}
	return build(shape, md, src), nil
}
