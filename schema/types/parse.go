package types

import (
	"fmt"
	"strings"
)

// ParseShape converts a shape name into a Shape.
func ParseShape(name string) (Shape, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ShapeAny, nil
	}

	lower := strings.ToLower(trimmed)
	switch lower {
	case "any", "unknown", "simple":
		return ShapeAny, nil
	case "bool", "boolean":
		return ShapeBoolean, nil
	case "number", "numeric", "int", "integer", "float", "double":
		return ShapeNumber, nil
	case "comparable", "ordered":
		return ShapeComparable, nil
	case "date":
		return ShapeDate, nil
	case "time":
		return ShapeTime, nil
	case "datetime", "timestamp":
		return ShapeDateTime, nil
	case "string", "text":
		return ShapeString, nil
	case "entity", "object":
		return ShapeEntity, nil
	case "list":
		return ShapeList, nil
	case "collection", "set":
		return ShapeCollection, nil
	case "map":
		return ShapeMap, nil
	}

	if strings.HasSuffix(lower, "[]") {
		elem, err := ParseShape(strings.TrimSuffix(lower, "[]"))
		if err != nil {
			return ShapeAny, err
		}
		switch elem {
		case ShapeBoolean:
			return ShapeBooleanArray, nil
		case ShapeString:
			return ShapeStringArray, nil
		case ShapeNumber, ShapeComparable:
			return ShapeComparableArray, nil
		}
		return ShapeAny, fmt.Errorf("no array shape for element shape %s", elem)
	}

	return ShapeAny, fmt.Errorf("unknown shape name: %s", name)
}
