package plan

import (
	"testing"

	"github.com/kcl-lang/kclcore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictOf(pairs ...interface{}) value.Value {
	d := value.NewDict()
	for i := 0; i < len(pairs); i += 2 {
		d.Dict().Set(pairs[i].(string), pairs[i+1].(value.Value), value.OpOverride, i/2)
	}
	return d
}

func TestPlanScalarAttributes(t *testing.T) {
	v := dictOf("name", value.Str("alice"), "age", value.Int(30))
	jsonOut, yamlOut, err := Plan(v, Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"name": "alice", "age": 30}`, jsonOut)
	assert.Equal(t, "name: alice\nage: 30", yamlOut)
}

func TestPlanHidesPrivateAttrsByDefault(t *testing.T) {
	v := dictOf("name", value.Str("alice"), "_secret", value.Str("x"))
	jsonOut, _, err := Plan(v, Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"name": "alice"}`, jsonOut)
}

func TestPlanShowHiddenIncludesPrivateAttrs(t *testing.T) {
	v := dictOf("name", value.Str("alice"), "_secret", value.Str("x"))
	jsonOut, _, err := Plan(v, Options{ShowHidden: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name": "alice", "_secret": "x"}`, jsonOut)
}

func TestPlanDisableNoneDropsNoneAttrs(t *testing.T) {
	v := dictOf("name", value.Str("alice"), "nickname", value.None())
	jsonOut, _, err := Plan(v, Options{DisableNone: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name": "alice"}`, jsonOut)
}

func TestPlanSortKeys(t *testing.T) {
	v := dictOf("b", value.Int(2), "a", value.Int(1))
	jsonOut, _, err := Plan(v, Options{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": 2}`, jsonOut)
}

func TestPlanEmptyListRetainedUnlessDisabled(t *testing.T) {
	v := dictOf("items", value.NewList())
	jsonOut, _, err := Plan(v, Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"items": []}`, jsonOut)

	jsonOut2, _, err := Plan(v, Options{DisableEmptyList: true})
	require.NoError(t, err)
	assert.Equal(t, `{}`, jsonOut2)
}

func TestPlanSchemaTypePathTag(t *testing.T) {
	v := dictOf("name", value.Str("alice"))
	v.AsSchema("Person", nil, nil, nil)
	jsonOut, _, err := Plan(v, Options{IncludeSchemaTypePath: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name": "alice", "_type": "Person"}`, jsonOut)
}

func TestPlanListOfSchemasExpandsToMultipleDocuments(t *testing.T) {
	p1 := dictOf("name", value.Str("a"))
	p1.AsSchema("Person", nil, nil, nil)
	p2 := dictOf("name", value.Str("b"))
	p2.AsSchema("Person", nil, nil, nil)
	v := value.NewList(p1, p2)

	jsonOut, yamlOut, err := Plan(v, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\"name\": \"a\"}\n{\"name\": \"b\"}", jsonOut)
	assert.Equal(t, "name: a\n---\nname: b", yamlOut)
}

func TestPlanQueryPathsSinglePath(t *testing.T) {
	inner := dictOf("city", value.Str("nyc"))
	v := dictOf("address", inner)
	jsonOut, _, err := Plan(v, Options{QueryPaths: []string{"address.city"}})
	require.NoError(t, err)
	assert.Equal(t, `"nyc"`, jsonOut)
}

func TestPlanQueryPathsMultiplePaths(t *testing.T) {
	v := dictOf("a", value.Int(1), "b", value.Int(2))
	jsonOut, _, err := Plan(v, Options{QueryPaths: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", jsonOut)
}

func TestPlanQueryPathMissingReturnsError(t *testing.T) {
	v := dictOf("a", value.Int(1))
	_, _, err := Plan(v, Options{QueryPaths: []string{"missing"}})
	assert.Error(t, err)
}

func TestPlanCustomSeparator(t *testing.T) {
	p1 := dictOf("a", value.Int(1))
	p1.AsSchema("S", nil, nil, nil)
	p2 := dictOf("a", value.Int(2))
	p2.AsSchema("S", nil, nil, nil)
	v := value.NewList(p1, p2)
	sep := "\n===\n"
	_, yamlOut, err := Plan(v, Options{Sep: &sep})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n===\na: 2", yamlOut)
}
