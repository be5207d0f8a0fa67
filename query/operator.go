package query

// Operator identifies the operation an Operation node performs
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpLt
	OpGt
	OpLoe
	OpGoe
	OpBetween
	OpIn
	OpNotIn
	OpIsNil
	OpIsNotNil

	OpAnd
	OpOr
	OpNot

	OpStartsWith
	OpEndsWith
	OpContains
	OpMatches
	OpLike
	OpEqIgnoreCase
	OpLower
	OpUpper

	OpLen
	OpIsEmpty
	OpIsNotEmpty
	OpContainsElement
	OpContainsKey
	OpContainsValue
	OpAny
	OpAnyKey

	OpAdd
	OpSub
	OpMul
	OpDiv
)

var operatorNames = map[Operator]string{
	OpEq:              "eq",
	OpNe:              "ne",
	OpLt:              "lt",
	OpGt:              "gt",
	OpLoe:             "loe",
	OpGoe:             "goe",
	OpBetween:         "between",
	OpIn:              "in",
	OpNotIn:           "notIn",
	OpIsNil:           "isNil",
	OpIsNotNil:        "isNotNil",
	OpAnd:             "and",
	OpOr:              "or",
	OpNot:             "not",
	OpStartsWith:      "startsWith",
	OpEndsWith:        "endsWith",
	OpContains:        "contains",
	OpMatches:         "matches",
	OpLike:            "like",
	OpEqIgnoreCase:    "equalsIgnoreCase",
	OpLower:           "lower",
	OpUpper:           "upper",
	OpLen:             "len",
	OpIsEmpty:         "isEmpty",
	OpIsNotEmpty:      "isNotEmpty",
	OpContainsElement: "containsElement",
	OpContainsKey:     "containsKey",
	OpContainsValue:   "containsValue",
	OpAny:             "any",
	OpAnyKey:          "anyKey",
	OpAdd:             "add",
	OpSub:             "sub",
	OpMul:             "mul",
	OpDiv:             "div",
}

// String returns the operator name
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "unknown"
}

// infix maps binary operators to their expr-lang spelling
var infix = map[Operator]string{
	OpEq:         "==",
	OpNe:         "!=",
	OpLt:         "<",
	OpGt:         ">",
	OpLoe:        "<=",
	OpGoe:        ">=",
	OpIn:         "in",
	OpAnd:        "&&",
	OpOr:         "||",
	OpStartsWith: "startsWith",
	OpEndsWith:   "endsWith",
	OpContains:   "contains",
	OpMatches:    "matches",
	OpLike:       "matches",
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
}

// compareOps are rendered through Compare for operands ordered by it
var compareOps = map[Operator]string{
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpGt:  ">",
	OpLoe: "<=",
	OpGoe: ">=",
}
