package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/effectus/effectus-query/alias"
	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/query"
	"github.com/spf13/cobra"
)

var (
	errUnsupportedOp = errors.New("unsupported operator")
	errOperand       = errors.New("invalid operand")
)

func newEvalCommand(opts *rootOptions) *cobra.Command {
	var (
		queryFile string
		explain   bool
	)

	cmd := &cobra.Command{
		Use:   "eval --query <query.yaml> <facts.json>...",
		Short: "Evaluate a condition set against JSON facts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadQueryConfig(queryFile)
			if err != nil {
				return err
			}
			facts, err := opts.loadFacts(args)
			if err != nil {
				return err
			}
			opts.logf("Evaluating %d conditions (match %s)", len(cfg.Conditions), cfg.Match)

			pred, err := buildQuery(opts, cfg, facts)
			if err != nil {
				return err
			}
			if explain {
				if err := writeExplain(cmd.OutOrStdout(), pred); err != nil {
					return err
				}
			}

			ok, err := query.Evaluate(pred, facts.values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}

	cmd.Flags().StringVarP(&queryFile, "query", "q", "", "Condition set file (YAML or JSON)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Print the rendered expression and its parameters")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func writeExplain(w io.Writer, pred *query.Predicate) error {
	source, params, err := query.RenderChecked(pred)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, source)
	for _, name := range slices.Sorted(maps.Keys(params)) {
		fmt.Fprintf(w, "  %s = %#v\n", name, params[name])
	}

	refs, err := query.References(source)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  reads %s\n", strings.Join(refs, ", "))
	return nil
}

// buildQuery builds every condition and combines them
func buildQuery(opts *rootOptions, cfg *queryConfig, facts *factsDocument) (*query.Predicate, error) {
	preds := make([]*query.Predicate, 0, len(cfg.Conditions))
	for i, c := range cfg.Conditions {
		pred, err := buildCondition(opts.factory, facts, c)
		if err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}
		opts.logf("Condition %d: %s", i, pred)
		preds = append(preds, pred)
	}

	if cfg.Match == matchAny {
		return query.Or(preds...), nil
	}
	return query.And(preds...), nil
}

// buildCondition samples the fact at the condition path to pick the path
// variant, then applies the named capability. A path through element
// wildcards, e.g. customer.orders[*].total, holds when the capability holds
// for some element.
func buildCondition(f alias.Factory, facts *factsDocument, c conditionConfig) (*query.Predicate, error) {
	md, err := pathutil.Parse(c.Path)
	if err != nil {
		return nil, err
	}

	sample, ok := pathutil.LookupValue(facts.raw, md)
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.Path, errPathNotFound)
	}
	wildcards := wildcardSegments(md)
	sample = firstElement(sample, len(wildcards))

	var p path.Path
	if sample = normalize(sample); sample == nil {
		p = alias.CreateAny[interface{}](md, nil)
	} else if p, err = f.Create(md, sample); err != nil {
		return nil, err
	}
	pred, err := applyOp(p, c)
	if err != nil {
		return nil, err
	}

	for i := len(wildcards) - 1; i >= 0; i-- {
		coll, _ := wildcards[i].Parent()
		pred = query.NewPredicate(query.OpAny, alias.CreateList[interface{}](coll, nil), pred)
	}
	return pred, nil
}

// wildcardSegments returns the element wildcards of md, outermost first
func wildcardSegments(md pathutil.Metadata) []pathutil.Metadata {
	var out []pathutil.Metadata
	for _, seg := range md.Segments() {
		if seg.Kind() == pathutil.SegmentCollectionAny {
			out = append(out, seg)
		}
	}
	return out
}

// firstElement returns the first non-null value of a gjson result nested
// depth arrays deep, one level per wildcard
func firstElement(v interface{}, depth int) interface{} {
	if depth == 0 {
		return v
	}
	elems, ok := v.([]interface{})
	if !ok {
		return nil
	}
	for _, e := range elems {
		if first := firstElement(e, depth-1); first != nil {
			return first
		}
	}
	return nil
}

type nilCheck interface {
	IsNil() *query.Predicate
	IsNotNil() *query.Predicate
}

type anyEquality interface {
	Eq(v any) *query.Predicate
	Ne(v any) *query.Predicate
	In(values ...any) *query.Predicate
	NotIn(values ...any) *query.Predicate
}

type anyOrdering interface {
	anyEquality
	Lt(v any) *query.Predicate
	Gt(v any) *query.Predicate
	Loe(v any) *query.Predicate
	Goe(v any) *query.Predicate
	Between(from, to any) *query.Predicate
}

type anyTemporal interface {
	Before(v any) *query.Predicate
	After(v any) *query.Predicate
}

type anyContainer interface {
	Contains(v any) *query.Predicate
}

type emptiable interface {
	IsEmpty() *query.Predicate
}

type sized interface {
	Size() *path.NumberExpression[int]
}

func applyOp(p path.Path, c conditionConfig) (*query.Predicate, error) {
	unsupported := fmt.Errorf("%s: %w %q for %s paths", c.Path, errUnsupportedOp, c.Op, p.Type().Shape)
	value := operand(c.Value)

	switch c.Op {
	case "isNil", "isNotNil":
		n, ok := p.(nilCheck)
		if !ok {
			return nil, unsupported
		}
		if c.Op == "isNil" {
			return n.IsNil(), nil
		}
		return n.IsNotNil(), nil

	case "eq", "ne", "in", "notIn":
		return equalityOp(p, c, value, unsupported)

	case "lt", "gt", "loe", "goe", "between":
		return orderingOp(p, c, value, unsupported)

	case "before", "after":
		t, ok := p.(anyTemporal)
		if !ok {
			return nil, unsupported
		}
		if c.Op == "before" {
			return t.Before(value), nil
		}
		return t.After(value), nil

	case "isTrue", "isFalse":
		b, ok := p.(*path.Boolean)
		if !ok {
			return nil, unsupported
		}
		if c.Op == "isTrue" {
			return b.IsTrue(), nil
		}
		return b.IsFalse(), nil

	case "startsWith", "endsWith", "like", "matches", "equalsIgnoreCase":
		s, ok := p.(*path.String)
		if !ok {
			return nil, unsupported
		}
		text, err := asString(c, c.Value)
		if err != nil {
			return nil, err
		}
		switch c.Op {
		case "startsWith":
			return s.StartsWith(text), nil
		case "endsWith":
			return s.EndsWith(text), nil
		case "like":
			return s.Like(text), nil
		case "matches":
			return s.Matches(text), nil
		default:
			return s.EqualsIgnoreCase(text), nil
		}

	case "contains":
		return containsOp(p, c, value, unsupported)

	case "isEmpty", "isNotEmpty":
		e, ok := p.(emptiable)
		if !ok {
			return nil, unsupported
		}
		if c.Op == "isEmpty" {
			return e.IsEmpty(), nil
		}
		return e.IsEmpty().Not(), nil

	case "size", "sizeGt", "sizeLt":
		var size *path.NumberExpression[int]
		switch s := p.(type) {
		case sized:
			size = s.Size()
		case *path.String:
			size = s.Length()
		default:
			return nil, unsupported
		}
		n, err := asInt(c, value)
		if err != nil {
			return nil, err
		}
		switch c.Op {
		case "sizeGt":
			return size.Gt(n), nil
		case "sizeLt":
			return size.Lt(n), nil
		default:
			return size.Eq(n), nil
		}

	case "containsKey", "containsValue":
		m, ok := p.(*path.Map[any, any])
		if !ok {
			return nil, unsupported
		}
		if c.Op == "containsKey" {
			return m.ContainsKey(value), nil
		}
		return m.ContainsValue(value), nil
	}

	return nil, unsupported
}

func equalityOp(p path.Path, c conditionConfig, value interface{}, unsupported error) (*query.Predicate, error) {
	switch t := p.(type) {
	case *path.Boolean:
		values, err := typedOperands[bool](c, c.Value)
		if err != nil {
			return nil, err
		}
		return equalityOf(c.Op, values, t.Eq, t.Ne, t.In, t.NotIn), nil
	case *path.String:
		values, err := typedOperands[string](c, c.Value)
		if err != nil {
			return nil, err
		}
		return equalityOf(c.Op, values, t.Eq, t.Ne, t.In, t.NotIn), nil
	case anyEquality:
		values := append([]interface{}{value}, operands(c.Values)...)
		return equalityOf(c.Op, values, t.Eq, t.Ne, t.In, t.NotIn), nil
	}
	return nil, unsupported
}

// equalityOf applies op; values[0] is the single operand and values[1:] the
// list operands
func equalityOf[D any](op string, values []D, eq, ne func(D) *query.Predicate, in, notIn func(...D) *query.Predicate) *query.Predicate {
	switch op {
	case "eq":
		return eq(values[0])
	case "ne":
		return ne(values[0])
	case "in":
		return in(values[1:]...)
	default:
		return notIn(values[1:]...)
	}
}

func orderingOp(p path.Path, c conditionConfig, value interface{}, unsupported error) (*query.Predicate, error) {
	if c.Op == "between" && len(c.Values) != 2 {
		return nil, fmt.Errorf("%s: between needs two values: %w", c.Path, errOperand)
	}

	switch t := p.(type) {
	case *path.String:
		values, err := typedOperands[string](c, c.Value)
		if err != nil {
			return nil, err
		}
		return orderingOf(c.Op, values, t.Lt, t.Gt, t.Loe, t.Goe, t.Between), nil
	case anyOrdering:
		values := append([]interface{}{value}, operands(c.Values)...)
		return orderingOf(c.Op, values, t.Lt, t.Gt, t.Loe, t.Goe, t.Between), nil
	}
	return nil, unsupported
}

func orderingOf[D any](op string, values []D, lt, gt, loe, goe func(D) *query.Predicate, between func(D, D) *query.Predicate) *query.Predicate {
	switch op {
	case "lt":
		return lt(values[0])
	case "gt":
		return gt(values[0])
	case "loe":
		return loe(values[0])
	case "goe":
		return goe(values[0])
	default:
		return between(values[1], values[2])
	}
}

func containsOp(p path.Path, c conditionConfig, value interface{}, unsupported error) (*query.Predicate, error) {
	switch t := p.(type) {
	case *path.String:
		text, err := asString(c, c.Value)
		if err != nil {
			return nil, err
		}
		return t.Contains(text), nil
	case *path.StringArray:
		text, err := asString(c, c.Value)
		if err != nil {
			return nil, err
		}
		return t.Contains(text), nil
	case *path.BooleanArray:
		b, ok := value.(bool)
		if !ok {
			return nil, operandError(c, "bool", value)
		}
		return t.Contains(b), nil
	case anyContainer:
		return t.Contains(value), nil
	}
	return nil, unsupported
}

// operand converts a configured value to the types facts decode to: numbers
// are float64 and timestamps time.Time
func operand(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return normalize(v)
}

func operands(vs []interface{}) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = operand(v)
	}
	return out
}

func operandError(c conditionConfig, want string, got interface{}) error {
	return fmt.Errorf("%s: %s needs a %s operand, got %T: %w", c.Path, c.Op, want, got, errOperand)
}

// typedOperands returns value followed by the list operands, all of type D
func typedOperands[D any](c conditionConfig, value interface{}) ([]D, error) {
	raw := append([]interface{}{value}, c.Values...)
	out := make([]D, len(raw))
	for i, v := range raw {
		if i == 0 && v == nil && listOp(c.Op) {
			continue
		}
		d, ok := v.(D)
		if !ok {
			var zero D
			return nil, operandError(c, fmt.Sprintf("%T", zero), v)
		}
		out[i] = d
	}
	return out, nil
}

// listOp reports whether op takes its operands from values
func listOp(op string) bool {
	return op == "in" || op == "notIn" || op == "between"
}

func asString(c conditionConfig, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", operandError(c, "string", v)
	}
	return s, nil
}

func asInt(c conditionConfig, v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, operandError(c, "integer", v)
	}
	return int(f), nil
}
