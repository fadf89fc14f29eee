package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONSchemaProjectsAttrs(t *testing.T) {
	ps, _, sess := resolveSrc(t, "schema S:\n    name: str\n    age?: int\n")
	require.Empty(t, sess.Diagnostics)
	st, ok := ps.Schemas["S"]
	require.True(t, ok)

	js := ToJSONSchema(st)
	assert.Equal(t, "object", js.Type)
	require.Contains(t, js.Properties, "name")
	assert.Equal(t, "string", js.Properties["name"].Type)
	require.Contains(t, js.Properties, "age")
	assert.Equal(t, "integer", js.Properties["age"].Type)
	assert.Contains(t, js.Required, "name")
	assert.NotContains(t, js.Required, "age")
}

func TestToJSONSchemaInheritsBaseAttrs(t *testing.T) {
	ps, _, sess := resolveSrc(t, "schema Base:\n    id: int\n\nschema Child(Base):\n    name: str\n")
	require.Empty(t, sess.Diagnostics)
	st, ok := ps.Schemas["Child"]
	require.True(t, ok)

	js := ToJSONSchema(st)
	assert.Contains(t, js.Properties, "id")
	assert.Contains(t, js.Properties, "name")
}
