package path

import (
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
)

// New creates the variant for shape, using the [any] instantiation of the
// generic variants. length is the observed element count of array shapes.
// Unknown shapes yield a Simple path.
func New(shape types.Shape, md pathutil.Metadata, typ *types.Type, length int) Path {
	switch shape {
	case types.ShapeBoolean:
		return NewBoolean(md, typ)
	case types.ShapeNumber:
		return NewNumber[any](md, typ)
	case types.ShapeComparable:
		return NewComparable[any](md, typ)
	case types.ShapeDate:
		return NewDate[any](md, typ)
	case types.ShapeTime:
		return NewTime[any](md, typ)
	case types.ShapeDateTime:
		return NewDateTime[any](md, typ)
	case types.ShapeString:
		return NewString(md, typ)
	case types.ShapeEntity:
		return NewEntity[any](md, typ)
	case types.ShapeList:
		return NewList[any](md, typ)
	case types.ShapeCollection:
		return NewCollection[any](md, typ)
	case types.ShapeMap:
		return NewMap[any, any](md, typ)
	case types.ShapeBooleanArray:
		return NewBooleanArray(md, typ, length)
	case types.ShapeStringArray:
		return NewStringArray(md, typ, length)
	case types.ShapeComparableArray:
		return NewComparableArray[any](md, typ, length)
	default:
		return NewSimple[any](md, typ)
	}
}
