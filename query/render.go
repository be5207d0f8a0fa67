package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/effectus/effectus-query/pathutil"
)

const (
	// paramPrefix names bound parameters: _arg0, _arg1, ...
	paramPrefix = "_arg"

	// elemPrefix names closure elements referenced from a nested closure
	elemPrefix = "_el"
)

// closure is an any() body being rendered. elem is the wildcard metadata of
// its element; name is set when nested closures refer to the element.
type closure struct {
	elem pathutil.Metadata
	name string
}

// Renderer accumulates expr-lang source and the parameters it binds
type Renderer struct {
	b        strings.Builder
	params   map[string]interface{}
	closures []closure
	names    int
	err      error
}

// NewRenderer creates an empty renderer
func NewRenderer() *Renderer {
	return &Renderer{params: make(map[string]interface{})}
}

// Render renders an expression into expr-lang source and its parameters.
// Use RenderChecked to also learn whether the expression could be rendered.
func Render(e Expression) (string, map[string]interface{}) {
	r := NewRenderer()
	r.WriteExpression(e)
	return r.String(), r.Params()
}

// RenderChecked renders an expression and reports the first path that has
// no valid expr-lang form, such as an element wildcard outside any().
func RenderChecked(e Expression) (string, map[string]interface{}, error) {
	r := NewRenderer()
	r.WriteExpression(e)
	return r.String(), r.Params(), r.Err()
}

// String returns the source written so far
func (r *Renderer) String() string {
	return r.b.String()
}

// Params returns the bound parameters
func (r *Renderer) Params() map[string]interface{} {
	return r.params
}

// Err returns the first rendering error
func (r *Renderer) Err() error {
	return r.err
}

func (r *Renderer) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

// WriteString writes raw source
func (r *Renderer) WriteString(s string) {
	r.b.WriteString(s)
}

// WriteParam binds value to a fresh parameter name and writes the name
func (r *Renderer) WriteParam(value interface{}) {
	name := paramPrefix + strconv.Itoa(len(r.params))
	r.params[name] = value
	r.b.WriteString(name)
}

// WriteExpression writes a nested expression
func (r *Renderer) WriteExpression(e Expression) {
	if e == nil {
		r.b.WriteString("nil")
		return
	}
	e.Render(r)
}

// WritePath writes a path. A path through an element wildcard is written
// relative to the element of the enclosing any() closure over that
// collection: '#' for the innermost closure, its bound name for outer ones.
func (r *Renderer) WritePath(md pathutil.Metadata) {
	segments := md.Segments()
	start := 0
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Kind() != pathutil.SegmentCollectionAny {
			continue
		}
		if !r.closureFor(segments[i]) {
			r.fail("path %s: element wildcard %s is not inside any() over that collection", md, segments[i])
		}
		start = i
		break
	}

	for i := start; i < len(segments); i++ {
		seg := segments[i]
		switch seg.Kind() {
		case pathutil.SegmentVariable:
			r.b.WriteString(seg.Name())
		case pathutil.SegmentCollectionAny:
			r.b.WriteString(r.elementRef(seg))
		case pathutil.SegmentProperty:
			if i > start {
				r.b.WriteString(".")
			}
			r.b.WriteString(seg.Name())
		case pathutil.SegmentListIndex:
			r.b.WriteString("[")
			r.b.WriteString(strconv.Itoa(seg.Index()))
			r.b.WriteString("]")
		case pathutil.SegmentMapKey:
			r.b.WriteString("[")
			r.WriteParam(seg.Key())
			r.b.WriteString("]")
		}
	}
}

func (r *Renderer) closureFor(elem pathutil.Metadata) bool {
	for i := len(r.closures) - 1; i >= 0; i-- {
		if r.closures[i].elem.Equal(elem) {
			return true
		}
	}
	return false
}

// elementRef returns how the element matching elem is referenced from the
// current closure
func (r *Renderer) elementRef(elem pathutil.Metadata) string {
	for i := len(r.closures) - 1; i >= 0; i-- {
		c := r.closures[i]
		if !c.elem.Equal(elem) {
			continue
		}
		if i == len(r.closures)-1 {
			return "#"
		}
		return c.name
	}
	return "#"
}

// writeClosure writes the body of an any() over coll. When the body holds a
// nested closure the element is bound to a name so inner bodies can reach it.
func (r *Renderer) writeClosure(coll, body Expression) {
	c := closure{}
	if p, ok := coll.(interface{ Metadata() pathutil.Metadata }); ok {
		c.elem = pathutil.ForCollectionAny(p.Metadata())
	}

	r.b.WriteString("{")
	if hasClosure(body) {
		c.name = elemPrefix + strconv.Itoa(r.names)
		r.names++
		r.b.WriteString("let ")
		r.b.WriteString(c.name)
		r.b.WriteString(" = #; ")
	}
	r.closures = append(r.closures, c)
	r.WriteExpression(body)
	r.closures = r.closures[:len(r.closures)-1]
	r.b.WriteString("}")
}

func hasClosure(e Expression) bool {
	var o *Operation
	switch e := e.(type) {
	case *Operation:
		o = e
	case *Predicate:
		if e == nil {
			return false
		}
		o = e.Operation
	default:
		return false
	}
	if o == nil {
		return false
	}
	if o.op == OpAny || o.op == OpAnyKey {
		return true
	}
	for _, arg := range o.args {
		if hasClosure(arg) {
			return true
		}
	}
	return false
}

func (r *Renderer) writeOperation(o *Operation) {
	args := o.args
	switch o.op {
	case OpNot:
		r.b.WriteString("!")
		r.writeGroup(args[0])
	case OpIsNil:
		r.writeBinary(args[0], "==", nil)
	case OpIsNotNil:
		r.writeBinary(args[0], "!=", nil)
	case OpNotIn:
		r.b.WriteString("!")
		r.writeBinary(args[0], "in", args[1])
	case OpContainsElement, OpContainsKey:
		r.writeBinary(args[1], "in", args[0])
	case OpContainsValue:
		r.b.WriteString("(")
		r.WriteExpression(args[1])
		r.b.WriteString(" in values(")
		r.WriteExpression(args[0])
		r.b.WriteString("))")
	case OpBetween:
		r.b.WriteString("(")
		r.writeCompare(args[0], OpGoe, args[1])
		r.b.WriteString(" && ")
		r.writeCompare(args[0], OpLoe, args[2])
		r.b.WriteString(")")
	case OpEqIgnoreCase:
		r.b.WriteString("(")
		r.writeCall("lower", args[0])
		r.b.WriteString(" == ")
		r.writeCall("lower", args[1])
		r.b.WriteString(")")
	case OpLower:
		r.writeCall("lower", args[0])
	case OpUpper:
		r.writeCall("upper", args[0])
	case OpLen:
		r.writeCall("len", args[0])
	case OpIsEmpty:
		r.b.WriteString("(")
		r.writeCall("len", args[0])
		r.b.WriteString(" == 0)")
	case OpIsNotEmpty:
		r.b.WriteString("(")
		r.writeCall("len", args[0])
		r.b.WriteString(" > 0)")
	case OpAny, OpAnyKey:
		r.b.WriteString("any(")
		if o.op == OpAnyKey {
			r.writeCall("keys", args[0])
		} else {
			r.WriteExpression(args[0])
		}
		r.b.WriteString(", ")
		r.writeClosure(args[0], args[1])
		r.b.WriteString(")")
	default:
		if _, ok := compareOps[o.op]; ok {
			r.writeCompare(args[0], o.op, args[1])
			return
		}
		token, ok := infix[o.op]
		if !ok {
			panic(fmt.Sprintf("query: operator %s cannot be rendered", o.op))
		}
		r.writeBinary(args[0], token, args[1])
	}
}

// writeCompare renders ordering and equality. Operands ordered by a Compare
// method, such as time.Time, compare through it.
func (r *Renderer) writeCompare(left Expression, op Operator, right Expression) {
	token := compareOps[op]
	if left.Type().OrderedByCompare() {
		r.b.WriteString("(")
		r.WriteExpression(left)
		r.b.WriteString(".Compare(")
		r.WriteExpression(right)
		r.b.WriteString(") ")
		r.b.WriteString(token)
		r.b.WriteString(" 0)")
		return
	}
	r.writeBinary(left, token, right)
}

func (r *Renderer) writeBinary(left Expression, token string, right Expression) {
	r.b.WriteString("(")
	r.WriteExpression(left)
	r.b.WriteString(" ")
	r.b.WriteString(token)
	r.b.WriteString(" ")
	r.WriteExpression(right)
	r.b.WriteString(")")
}

func (r *Renderer) writeCall(name string, arg Expression) {
	r.b.WriteString(name)
	r.b.WriteString("(")
	r.WriteExpression(arg)
	r.b.WriteString(")")
}

func (r *Renderer) writeGroup(e Expression) {
	if _, ok := e.(*Predicate); ok {
		r.WriteExpression(e)
		return
	}
	r.b.WriteString("(")
	r.WriteExpression(e)
	r.b.WriteString(")")
}
