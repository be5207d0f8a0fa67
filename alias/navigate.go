package alias

import (
	"fmt"
	"reflect"

	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
	"github.com/iancoleman/strcase"
)

// Get navigates from an entity path to one of its properties. The child path
// is built from the property's static type: a struct field by its exported
// name, or an entry of a string-keyed map. Struct fields may also be named
// in snake or lower camel case, e.g. joined_at for JoinedAt.
func (Factory) Get(parent path.Path, name string) (path.Path, error) {
	if parent == nil {
		return nil, &ShapeError{Op: "get", Shape: types.ShapeEntity, Err: ErrNullInput}
	}

	typ := parent.Type()
	rt := typ.GoType()
	if rt == nil || typ.Shape != types.ShapeEntity {
		return nil, &ShapeError{Op: "get", Shape: types.ShapeEntity, GoType: rt, Err: ErrShapeMismatch}
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	var child reflect.Type
	switch rt.Kind() {
	case reflect.Struct:
		field, ok := rt.FieldByName(name)
		if !ok {
			field, ok = rt.FieldByName(strcase.ToCamel(name))
		}
		if !ok || !field.IsExported() {
			return nil, fmt.Errorf("%s has no property %q: %w", parent, name, ErrUnknownProperty)
		}
		name = field.Name
		child = field.Type
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, &ShapeError{Op: "get", Shape: types.ShapeEntity, GoType: rt, Err: ErrShapeMismatch}
		}
		child = rt.Elem()
	default:
		return nil, &ShapeError{Op: "get", Shape: types.ShapeEntity, GoType: rt, Err: ErrShapeMismatch}
	}

	src := source{rt: child}
	if child.Kind() == reflect.Array {
		src.length = child.Len()
	}
	md := pathutil.ForProperty(parent.Metadata(), name)
	return build(types.FromReflect(child).Shape, md, src), nil
}

// Get navigates from an entity path to one of its properties
func Get(parent path.Path, name string) (path.Path, error) {
	return Factory{}.Get(parent, name)
}

// Field navigates to a property and asserts the path variant, e.g.
//
//	age, err := alias.Field[*path.Number[any]](customer, "Age")
func Field[P path.Path](parent path.Path, name string) (P, error) {
	var zero P
	child, err := Get(parent, name)
	if err != nil {
		return zero, err
	}
	p, ok := child.(P)
	if !ok {
		return zero, fmt.Errorf("%s is a %s path, not %T: %w", child, child.Type().Shape, zero, ErrShapeMismatch)
	}
	return p, nil
}
