package alias

import (
	"testing"
	"time"

	"github.com/effectus/effectus-query/path"
	"github.com/effectus/effectus-query/pathutil"
	"github.com/effectus/effectus-query/query"
	"github.com/effectus/effectus-query/schema/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildsChildFromStaticType(t *testing.T) {
	c := Var("c", customer{})

	tests := []struct {
		name  string
		shape types.Shape
	}{
		{"Name", types.ShapeString},
		{"Age", types.ShapeNumber},
		{"Active", types.ShapeBoolean},
		{"Joined", types.ShapeDateTime},
		{"Tags", types.ShapeStringArray},
		{"Flags", types.ShapeBooleanArray},
		{"Ratings", types.ShapeComparableArray},
		{"Attrs", types.ShapeMap},
		{"Roles", types.ShapeCollection},
		{"Orders", types.ShapeList},
		{"Manager", types.ShapeEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Get(c, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, p.Type().Shape)
			assert.Equal(t, "c."+tt.name, p.String())
		})
	}
}

func TestGetConvertsCase(t *testing.T) {
	c := Var("c", customer{})

	for _, name := range []string{"joined", "Joined"} {
		p, err := Get(c, name)
		require.NoError(t, err)
		assert.Equal(t, "c.Joined", p.String())
	}

	p, err := Get(c, "manager")
	require.NoError(t, err)
	assert.Equal(t, "c.Manager", p.String())
}

func TestGetFixedArrayLength(t *testing.T) {
	c := Var("c", customer{})
	sum, err := Field[*path.ComparableArray[any]](c, "Checksum")
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Len())
}

func TestGetThroughPointer(t *testing.T) {
	c := Var("c", &customer{})
	manager, err := Field[*path.Entity[any]](c, "Manager")
	require.NoError(t, err)

	name, err := Field[*path.String](manager, "Name")
	require.NoError(t, err)
	assert.Equal(t, "c.Manager.Name", name.String())
}

func TestGetStringKeyedMap(t *testing.T) {
	doc := Var("doc", map[string]int{})
	count, err := Field[*path.Number[any]](doc, "count")
	require.NoError(t, err)

	ok, err := query.Evaluate(count.Gt(2), map[string]interface{}{"doc": map[string]int{"count": 3}})
	require.NoError(t, err)
	assert.True(t, ok)
}

type address struct {
	City string
	Zip  string
}

type account struct {
	Owner     string
	Addresses map[string]address
}

func TestGetThroughMapValue(t *testing.T) {
	a := Var("a", account{})
	addrs, err := Field[*path.Map[any, any]](a, "Addresses")
	require.NoError(t, err)

	home := addrs.Get("home")
	assert.Equal(t, types.ShapeEntity, home.Type().Shape)
	city, err := Field[*path.String](home, "City")
	require.NoError(t, err)
	assert.Equal(t, `a.Addresses["home"].City`, city.String())

	zip, err := Field[*path.String](addrs.Value("home"), "zip")
	require.NoError(t, err)
	assert.Equal(t, `a.Addresses["home"].Zip`, zip.String())

	typed := CreateMap(pathutil.ForProperty(pathutil.ForVariable("a"), "Addresses"), map[string]address{})
	typedCity, err := Field[*path.String](typed.Get("home"), "City")
	require.NoError(t, err)
	assert.Equal(t, city.String(), typedCity.String())

	source, _ := query.Render(city.Eq("Paris"))
	assert.Equal(t, "(a.Addresses[_arg0].City == _arg1)", source)

	env := map[string]interface{}{"a": account{Addresses: map[string]address{"home": {City: "Paris", Zip: "75001"}}}}
	ok, err := query.Evaluate(query.And(city.Eq("Paris"), zip.StartsWith("75")), env)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Get(addrs.Value("home"), "Country")
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestGetErrors(t *testing.T) {
	c := Var("c", customer{})

	_, err := Get(c, "Missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	_, err = Get(c, "internal")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	age, err := Get(c, "Age")
	require.NoError(t, err)
	_, err = Get(age, "Value")
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Field[*path.String](c, "Age")
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Get(nil, "Age")
	assert.ErrorIs(t, err, ErrNullInput)
}

func TestNavigatedPathsEvaluate(t *testing.T) {
	c := Var("c", customer{})

	orders, err := Field[*path.List[any]](c, "Orders")
	require.NoError(t, err)
	bigOrder := orders.Any(func(o *path.Entity[any]) *query.Predicate {
		total, err := Field[*path.Number[any]](o, "Total")
		require.NoError(t, err)
		return total.Gt(100.0)
	})

	source, _ := query.Render(bigOrder)
	assert.Equal(t, "any(c.Orders, {(#.Total > _arg0)})", source)

	roles, err := Field[*path.Collection[any]](c, "Roles")
	require.NoError(t, err)
	admin := roles.Any(func(r *path.Entity[any]) *query.Predicate {
		return r.Eq("admin")
	})

	attrs, err := Field[*path.Map[any, any]](c, "Attrs")
	require.NoError(t, err)
	gold := attrs.Get("tier").Eq("gold")

	joined, err := Field[*path.DateTime[any]](c, "Joined")
	require.NoError(t, err)
	recent := joined.After(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	customers := []customer{
		{
			Name:   "a",
			Orders: []order{{ID: "1", Total: 150}},
			Roles:  map[string]struct{}{"admin": {}},
			Attrs:  map[string]string{"tier": "gold"},
			Joined: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:   "b",
			Orders: []order{{ID: "2", Total: 50}},
			Roles:  map[string]struct{}{"admin": {}},
			Attrs:  map[string]string{"tier": "gold"},
			Joined: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:   "c",
			Orders: []order{{ID: "3", Total: 500}},
			Roles:  map[string]struct{}{},
			Attrs:  map[string]string{"tier": "gold"},
			Joined: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:   "d",
			Orders: []order{{ID: "4", Total: 500}},
			Roles:  map[string]struct{}{"admin": {}},
			Attrs:  map[string]string{"tier": "gold"},
			Joined: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	matched, err := query.Filter(query.And(bigOrder, admin, gold, recent), "c", customers)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "a", matched[0].Name)
}
