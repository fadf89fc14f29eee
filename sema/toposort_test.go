package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInheritsFromForwardDeclaredBase(t *testing.T) {
	// Child is declared before its base in source order.
	src := "schema Child(Base):\n    name: str\n\nschema Base:\n    id: int\n"
	ps, _, sess := resolveSrc(t, src)
	require.Empty(t, sess.Diagnostics)

	st, ok := ps.Schemas["Child"]
	require.True(t, ok)
	assert.Contains(t, st.Attrs, "id")
	assert.Contains(t, st.Attrs, "name")
}

func TestTopoSortSchemasOrdersBaseBeforeChild(t *testing.T) {
	ps, _, sess := resolveSrc(t, "schema A(B):\n    x: int\n\nschema B:\n    y: int\n\nschema C(A):\n    z: int\n")
	require.Empty(t, sess.Diagnostics)

	require.Contains(t, ps.Schemas, "C")
	assert.Contains(t, ps.Schemas["C"].Attrs, "x")
	assert.Contains(t, ps.Schemas["C"].Attrs, "y")
}
