package query

import (
	"cmp"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/schema/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPath is a minimal path node for exercising the renderer
type testPath struct {
	md  pathutil.Metadata
	typ *types.Type
}

func (p testPath) Type() *types.Type           { return p.typ }
func (p testPath) Render(r *Renderer)          { r.WritePath(p.md) }
func (p testPath) Metadata() pathutil.Metadata { return p.md }

func pathOf[D any](path string) testPath {
	return testPath{md: pathutil.MustParse(path), typ: types.Of[D]()}
}

type testOrder struct {
	ID    string
	Total float64
	Lines []testLine
}

type testLine struct {
	SKU string
	Qty int
}

// testVersion is ordered by its Compare method only
type testVersion struct {
	Major, Minor int
}

func (v testVersion) Compare(other testVersion) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	return cmp.Compare(v.Minor, other.Minor)
}

type testRelease struct {
	Name    string
	Version testVersion
}

type testCustomer struct {
	Name   string
	Age    int
	Active bool
	Joined time.Time
	Tags   []string
	Attrs  map[string]string
	Orders []testOrder
}

func TestRenderComparisons(t *testing.T) {
	age := pathOf[int]("c.Age")
	joined := testPath{md: pathutil.MustParse("c.Joined"), typ: types.Of[time.Time]().WithShape(types.ShapeDate)}

	tests := []struct {
		name   string
		expr   Expression
		source string
		params map[string]interface{}
	}{
		{
			name:   "eq",
			expr:   NewPredicate(OpEq, age, ConstantOf(18)),
			source: "(c.Age == _arg0)",
			params: map[string]interface{}{"_arg0": 18},
		},
		{
			name:   "between",
			expr:   NewPredicate(OpBetween, age, ConstantOf(18), ConstantOf(65)),
			source: "((c.Age >= _arg0) && (c.Age <= _arg1))",
			params: map[string]interface{}{"_arg0": 18, "_arg1": 65},
		},
		{
			name:   "temporal",
			expr:   NewPredicate(OpLt, joined, ConstantOf(time.Unix(0, 0).UTC())),
			source: "(c.Joined.Compare(_arg0) < 0)",
			params: map[string]interface{}{"_arg0": time.Unix(0, 0).UTC()},
		},
		{
			name:   "is nil",
			expr:   NewPredicate(OpIsNil, age),
			source: "(c.Age == nil)",
			params: map[string]interface{}{},
		},
		{
			name:   "not in",
			expr:   NewPredicate(OpNotIn, age, ConstantOf([]int{1, 2})),
			source: "!(c.Age in _arg0)",
			params: map[string]interface{}{"_arg0": []int{1, 2}},
		},
		{
			name:   "ignore case",
			expr:   NewPredicate(OpEqIgnoreCase, pathOf[string]("c.Name"), ConstantOf("ann")),
			source: "(lower(c.Name) == lower(_arg0))",
			params: map[string]interface{}{"_arg0": "ann"},
		},
		{
			name:   "arithmetic",
			expr:   NewPredicate(OpGt, NewOperation(types.Of[int](), OpAdd, age, ConstantOf(1)), ConstantOf(20)),
			source: "((c.Age + _arg0) > _arg1)",
			params: map[string]interface{}{"_arg0": 1, "_arg1": 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, params := Render(tt.expr)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestRenderContainers(t *testing.T) {
	attrs := pathOf[map[string]string](`c.Attrs`)
	tags := pathOf[[]string]("c.Tags")
	orders := pathOf[[]testOrder]("c.Orders")
	total := pathOf[float64]("c.Orders[*].Total")

	source, params := Render(NewPredicate(OpEq, pathOf[string](`c.Attrs["tier"]`), ConstantOf("gold")))
	assert.Equal(t, "(c.Attrs[_arg0] == _arg1)", source)
	assert.Equal(t, map[string]interface{}{"_arg0": "tier", "_arg1": "gold"}, params)

	source, _ = Render(NewPredicate(OpContainsKey, attrs, ConstantOf("tier")))
	assert.Equal(t, "(_arg0 in c.Attrs)", source)

	source, _ = Render(NewPredicate(OpContainsValue, attrs, ConstantOf("gold")))
	assert.Equal(t, "(_arg0 in values(c.Attrs))", source)

	source, _ = Render(NewPredicate(OpIsEmpty, tags))
	assert.Equal(t, "(len(c.Tags) == 0)", source)

	source, _ = Render(NewPredicate(OpAny, orders, NewPredicate(OpGt, total, ConstantOf(100.0))))
	assert.Equal(t, "any(c.Orders, {(#.Total > _arg0)})", source)

	source, _ = Render(NewPredicate(OpAnyKey, pathOf[map[string]struct{}]("c.Set"), NewPredicate(OpEq, pathOf[string]("c.Set[*]"), ConstantOf("x"))))
	assert.Equal(t, "any(keys(c.Set), {(# == _arg0)})", source)
}

func TestRenderNestedClosures(t *testing.T) {
	orders := pathOf[[]testOrder]("c.Orders")
	lines := pathOf[[]testLine]("c.Orders[*].Lines")
	qty := pathOf[int]("c.Orders[*].Lines[*].Qty")
	id := pathOf[string]("c.Orders[*].ID")

	pred := NewPredicate(OpAny, orders, NewPredicate(OpAny, lines, And(
		NewPredicate(OpGt, qty, ConstantOf(1)),
		NewPredicate(OpEq, id, ConstantOf("o2")),
	)))

	source, params, err := RenderChecked(pred)
	require.NoError(t, err)
	assert.Equal(t, "any(c.Orders, {let _el0 = #; any(#.Lines, {((#.Qty > _arg0) && (_el0.ID == _arg1))})})", source)
	assert.Equal(t, map[string]interface{}{"_arg0": 1, "_arg1": "o2"}, params)

	refs, err := References(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.Orders"}, refs)

	c := newCustomer()
	c.Orders[0].Lines = []testLine{{SKU: "a", Qty: 5}}
	c.Orders[1].Lines = []testLine{{SKU: "b", Qty: 1}}
	ok, err := Evaluate(pred, map[string]interface{}{"c": c})
	require.NoError(t, err)
	assert.False(t, ok)

	c.Orders[1].Lines = append(c.Orders[1].Lines, testLine{SKU: "c", Qty: 3})
	ok, err = Evaluate(pred, map[string]interface{}{"c": c})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenderWildcardOutsideClosure(t *testing.T) {
	total := pathOf[float64]("c.Orders[*].Total")

	tests := []struct {
		name string
		pred *Predicate
	}{
		{"no closure", NewPredicate(OpGt, total, ConstantOf(1.0))},
		{"closure over another collection", NewPredicate(OpAny, pathOf[[]string]("c.Tags"), NewPredicate(OpGt, total, ConstantOf(1.0)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := RenderChecked(tt.pred)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "c.Orders[*]")

			_, err = Compile(tt.pred, nil)
			assert.Error(t, err)
		})
	}
}

func TestCompareMethodOrdering(t *testing.T) {
	version := pathOf[testVersion]("r.Version")
	require.Equal(t, types.ShapeComparable, version.Type().Shape)

	source, _ := Render(NewPredicate(OpGt, version, ConstantOf(testVersion{1, 0})))
	assert.Equal(t, "(r.Version.Compare(_arg0) > 0)", source)

	env := map[string]interface{}{"r": testRelease{Name: "x", Version: testVersion{2, 1}}}
	tests := []struct {
		name string
		pred *Predicate
		want bool
	}{
		{"gt", NewPredicate(OpGt, version, ConstantOf(testVersion{2, 0})), true},
		{"lt", NewPredicate(OpLt, version, ConstantOf(testVersion{2, 0})), false},
		{"goe", NewPredicate(OpGoe, version, ConstantOf(testVersion{2, 1})), true},
		{"eq", NewPredicate(OpEq, version, ConstantOf(testVersion{2, 1})), true},
		{"between", NewPredicate(OpBetween, version, ConstantOf(testVersion{1, 0}), ConstantOf(testVersion{3, 0})), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Evaluate(tt.pred, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	releases := []testRelease{{Name: "a", Version: testVersion{1, 9}}, {Name: "b", Version: testVersion{2, 0}}}
	got, err := Filter(NewPredicate(OpGoe, version, ConstantOf(testVersion{2, 0})), "r", releases)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)
}

func TestProgramReferences(t *testing.T) {
	program, err := Compile(NewPredicate(OpAny, pathOf[[]testOrder]("c.Orders"), NewPredicate(OpGt, pathOf[float64]("c.Orders[*].Total"), ConstantOf(1.0))), nil)
	require.NoError(t, err)

	refs, err := program.References()
	require.NoError(t, err)
	assert.Equal(t, []string{"c.Orders"}, refs)
}

func TestCombine(t *testing.T) {
	a := NewPredicate(OpIsNotNil, pathOf[string]("c.Name"))
	b := NewPredicate(OpGt, pathOf[int]("c.Age"), ConstantOf(1))

	assert.Nil(t, And())
	assert.Nil(t, Or(nil, nil))
	assert.Same(t, a, And(nil, a))

	source, _ := Render(a.And(b).Or(b.Not()))
	assert.Equal(t, "(((c.Name != nil) && (c.Age > _arg0)) || !(c.Age > _arg1))", source)
}

func TestLikePattern(t *testing.T) {
	pattern := LikePattern("J_hn%.com")
	assert.Equal(t, `(?s)^J.hn.*\.com$`, pattern)

	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("John@example.com"))
	assert.True(t, re.MatchString("John\n@example.com"))
	assert.False(t, re.MatchString("Jhn@example.com"))
	assert.False(t, re.MatchString("John@example.org"))
}

func newCustomer() *testCustomer {
	return &testCustomer{
		Name:   "Ann",
		Age:    34,
		Active: true,
		Joined: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		Tags:   []string{"vip", "beta"},
		Attrs:  map[string]string{"tier": "gold"},
		Orders: []testOrder{{ID: "o1", Total: 40}, {ID: "o2", Total: 140}},
	}
}

func TestEvaluateStruct(t *testing.T) {
	env := map[string]interface{}{"c": newCustomer()}
	joined := testPath{md: pathutil.MustParse("c.Joined"), typ: types.Of[time.Time]()}

	tests := []struct {
		name string
		pred *Predicate
		want bool
	}{
		{"eq", NewPredicate(OpEq, pathOf[string]("c.Name"), ConstantOf("Ann")), true},
		{"goe", NewPredicate(OpGoe, pathOf[int]("c.Age"), ConstantOf(40)), false},
		{"between", NewPredicate(OpBetween, pathOf[int]("c.Age"), ConstantOf(30), ConstantOf(40)), true},
		{"before", NewPredicate(OpLt, joined, ConstantOf(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))), true},
		{"temporal eq", NewPredicate(OpEq, joined, ConstantOf(time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC))), true},
		{"starts with", NewPredicate(OpStartsWith, pathOf[string]("c.Name"), ConstantOf("A")), true},
		{"like", NewPredicate(OpLike, pathOf[string]("c.Name"), ConstantOf(LikePattern("a%"))), false},
		{"ignore case", NewPredicate(OpEqIgnoreCase, pathOf[string]("c.Name"), ConstantOf("ANN")), true},
		{"contains element", NewPredicate(OpContainsElement, pathOf[[]string]("c.Tags"), ConstantOf("vip")), true},
		{"map key", NewPredicate(OpEq, pathOf[string](`c.Attrs["tier"]`), ConstantOf("gold")), true},
		{"contains value", NewPredicate(OpContainsValue, pathOf[map[string]string]("c.Attrs"), ConstantOf("silver")), false},
		{"index", NewPredicate(OpEq, pathOf[string]("c.Orders[1].ID"), ConstantOf("o2")), true},
		{"any", NewPredicate(OpAny, pathOf[[]testOrder]("c.Orders"), NewPredicate(OpGt, pathOf[float64]("c.Orders[*].Total"), ConstantOf(100.0))), true},
		{"not", NewPredicate(OpEq, pathOf[bool]("c.Active"), ConstantOf(true)).Not(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.pred, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateMap(t *testing.T) {
	env := map[string]interface{}{
		"customer": map[string]interface{}{
			"age":  30.0,
			"tags": []interface{}{"a", "b"},
		},
	}

	ok, err := Evaluate(NewPredicate(OpGoe, pathOf[any]("customer.age"), ConstantOf(18)), env)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(NewPredicate(OpContainsElement, pathOf[any]("customer.tags"), ConstantOf("c")), env)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(nil, nil)
	assert.Error(t, err)

	env := map[string]interface{}{"c": newCustomer()}
	_, err = Evaluate(NewPredicate(OpEq, pathOf[string]("c.Missing"), ConstantOf("x")), env)
	assert.Error(t, err)

	_, err = Compile(nil, nil)
	assert.Error(t, err)
}

func TestProgramRun(t *testing.T) {
	sum := NewOperation(types.Of[int](), OpMul, pathOf[int]("c.Age"), ConstantOf(2))
	program, err := Compile(sum, map[string]interface{}{"c": newCustomer()})
	require.NoError(t, err)
	assert.Equal(t, "(c.Age * _arg0)", program.Source())
	assert.Equal(t, map[string]interface{}{"_arg0": 2}, program.Params())

	result, err := program.Run(map[string]interface{}{"c": newCustomer()})
	require.NoError(t, err)
	assert.Equal(t, 68, result)

	_, err = program.Test(map[string]interface{}{"c": newCustomer()})
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	orders := []testOrder{{ID: "a", Total: 10}, {ID: "b", Total: 200}, {ID: "c", Total: 75}}
	pred := NewPredicate(OpGt, pathOf[float64]("o.Total"), ConstantOf(50.0))

	got, err := Filter(pred, "o", orders)
	require.NoError(t, err)
	assert.Equal(t, []testOrder{{ID: "b", Total: 200}, {ID: "c", Total: 75}}, got)

	anyItems := []interface{}{map[string]interface{}{"Total": 60.0}, map[string]interface{}{"Total": 1.0}}
	gotAny, err := Filter(pred, "o", anyItems)
	require.NoError(t, err)
	assert.Len(t, gotAny, 1)

	_, err = Filter[testOrder](nil, "o", orders)
	assert.Error(t, err)
}

func TestProgramConcurrentRun(t *testing.T) {
	program, err := Compile(NewPredicate(OpGt, pathOf[int]("c.Age"), ConstantOf(30)), map[string]interface{}{"c": newCustomer()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newCustomer()
			c.Age = i
			ok, err := program.Test(map[string]interface{}{"c": c})
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.Equal(t, i > 30, ok, "age %d", i)
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"(c.Age >= _arg0)", []string{"c.Age"}},
		{"((c.Age > _arg0) && (c.Name startsWith _arg1))", []string{"c.Age", "c.Name"}},
		{"(c.Attrs[_arg0] == _arg1)", []string{"c.Attrs[*]"}},
		{"(c.Tags[0] == _arg0)", []string{"c.Tags[0]"}},
		{"any(c.Orders, {(#.Total > _arg0)})", []string{"c.Orders"}},
		{"(c.Joined.Compare(_arg0) < 0)", []string{"c.Joined"}},
		{"(lower(c.Name) == lower(_arg0))", []string{"c.Name"}},
		{"(_arg0 in values(m))", []string{"m"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			refs, err := References(tt.source)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, refs)
				return
			}
			assert.Equal(t, tt.want, refs)
		})
	}

	_, err := References("(c.Age >")
	assert.Error(t, err)
}
