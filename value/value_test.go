package value

import (
	"testing"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictOf(t *testing.T, entries map[string]Value) Value {
	t.Helper()
	d := NewEmptyDict()
	for k, v := range entries {
		d.Set(k, v, OpUnion, -1)
	}
	return FromDict(d)
}

func TestDeepCopySharesNothing(t *testing.T) {
	inner := dictOf(t, map[string]Value{"a": Int(1)})
	outer := dictOf(t, map[string]Value{"inner": inner})
	copy := DeepCopy(outer)
	copy.Dict().Values["inner"].Dict().Set("a", Int(2), OpOverride, -1)
	orig, _ := outer.Dict().Get("inner")
	assert.EqualValues(t, 1, orig.Dict().Values["a"].Int())
}

func TestCmpEqualNumericMixing(t *testing.T) {
	assert.True(t, CmpEqual(Int(1), Float(1.0)))
	assert.True(t, CmpEqual(Bool(true), Int(1)))
	assert.False(t, CmpEqual(Str("1"), Int(1)))
}

func TestCompareLists(t *testing.T) {
	a := NewList(Int(1), Int(2))
	b := NewList(Int(1), Int(3))
	c, err := Compare(a, b)
	require.NoError(t, err)
	assert.Negative(t, c)
}

func TestCompareUnsupportedTypeErrors(t *testing.T) {
	_, err := Compare(dictOf(t, nil), dictOf(t, nil))
	assert.Error(t, err)
}

func TestSubsumeDict(t *testing.T) {
	wide := dictOf(t, map[string]Value{"a": Int(1), "b": Int(2)})
	narrow := dictOf(t, map[string]Value{"a": Int(1)})
	assert.True(t, Subsume(wide, narrow))
	assert.False(t, Subsume(narrow, wide))
}

func TestMergeUnionInsertsNewKey(t *testing.T) {
	target := dictOf(t, map[string]Value{"a": Int(1)})
	d := NewEmptyDict()
	d.Set("b", Int(2), OpUnion, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{}, nil, diagnostic.Span{}))
	v, ok := target.Dict().Get("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, v.Int())
}

func TestMergeOverrideReplaces(t *testing.T) {
	target := dictOf(t, map[string]Value{"a": Int(1)})
	d := NewEmptyDict()
	d.Set("a", Int(99), OpOverride, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{}, nil, diagnostic.Span{}))
	v, _ := target.Dict().Get("a")
	assert.EqualValues(t, 99, v.Int())
}

func TestMergeInsertAppendsToList(t *testing.T) {
	target := dictOf(t, map[string]Value{"a": NewList(Int(1))})
	d := NewEmptyDict()
	d.Set("a", NewList(Int(2), Int(3)), OpInsert, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{}, nil, diagnostic.Span{}))
	v, _ := target.Dict().Get("a")
	require.Len(t, v.List(), 3)
	assert.EqualValues(t, 3, v.List()[2].Int())
}

func TestMergeUnionNestedDict(t *testing.T) {
	target := dictOf(t, map[string]Value{"inner": dictOf(t, map[string]Value{"a": Int(1)})})
	innerDelta := NewEmptyDict()
	innerDelta.Set("b", Int(2), OpUnion, -1)
	d := NewEmptyDict()
	d.Set("inner", FromDict(innerDelta), OpUnion, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{}, nil, diagnostic.Span{}))
	inner, _ := target.Dict().Get("inner")
	require.Len(t, inner.Dict().Keys, 2)
}

func TestMergeUnionConflictReportsWhenIdempotentCheckOn(t *testing.T) {
	sess := diagnostic.NewSession()
	target := dictOf(t, map[string]Value{"a": Int(1)})
	d := NewEmptyDict()
	d.Set("a", Int(2), OpUnion, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{IdempotentCheck: true}, sess, diagnostic.Span{}))
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindMergeConflict, sess.Diagnostics[0].Kind)
}

func TestMergeUnionNoConflictWhenSubsumed(t *testing.T) {
	sess := diagnostic.NewSession()
	target := dictOf(t, map[string]Value{"a": Int(1)})
	d := NewEmptyDict()
	d.Set("a", Int(1), OpUnion, -1)
	delta := FromDict(d)
	require.NoError(t, Merge(target, delta, Opts{IdempotentCheck: true}, sess, diagnostic.Span{}))
	assert.Empty(t, sess.Diagnostics)
}

func TestDictWriteLogRecordsEveryWriteIncludingDuplicates(t *testing.T) {
	d := NewEmptyDict()
	d.Set("a", Int(1), OpOverride, -1)
	d.Set("b", Int(2), OpOverride, -1)
	d.Set("a", Int(3), OpOverride, -1)
	assert.Equal(t, []string{"a", "b"}, d.Keys)
	assert.Equal(t, []string{"a", "b", "a"}, d.WriteLog)
}

func TestAsSchemaConfigKeysComeFromWriteLogNotKeys(t *testing.T) {
	d := NewEmptyDict()
	d.Set("a", Int(1), OpOverride, -1)
	d.Set("a", Int(2), OpOverride, -1)
	d.Set("b", Int(3), OpOverride, -1)
	v := FromDict(d)
	v.AsSchema("S", nil, nil, nil)
	assert.Equal(t, []string{"a", "a", "b"}, v.ConfigKeys())
	assert.Equal(t, []string{"a", "b"}, d.Keys)
}

func TestDeepCopyPreservesWriteLogDuplicates(t *testing.T) {
	d := NewEmptyDict()
	d.Set("a", Int(1), OpOverride, -1)
	d.Set("a", Int(2), OpOverride, -1)
	v := FromDict(d)
	v.AsSchema("S", nil, nil, nil)
	cp := DeepCopy(v)
	assert.Equal(t, []string{"a", "a"}, cp.ConfigKeys())
}

func TestMergeInvokesOnSchemaResolveForSchemaUnion(t *testing.T) {
	target := NewEmptyDict()
	target.Set("a", Int(1), OpOverride, -1)
	targetVal := FromDict(target)
	targetVal.AsSchema("S", nil, nil, nil)

	delta := NewEmptyDict()
	delta.Set("a", Int(2), OpOverride, -1)
	deltaVal := FromDict(delta)

	var gotName string
	var gotKeys []string
	opts := Opts{
		IdempotentCheck: true,
		ConfigResolve:   true,
		OnSchemaResolve: func(name string, result Value, keys []string, span diagnostic.Span) {
			gotName = name
			gotKeys = append([]string(nil), keys...)
		},
	}
	require.NoError(t, Merge(targetVal, deltaVal, opts, nil, diagnostic.Span{}))
	assert.Equal(t, "S", gotName)
	assert.Equal(t, []string{"a", "a"}, gotKeys)
}

func TestMergeSkipsOnSchemaResolveForPlainDictUnion(t *testing.T) {
	target := dictOf(t, map[string]Value{"a": Int(1)})
	d := NewEmptyDict()
	d.Set("b", Int(2), OpUnion, -1)
	delta := FromDict(d)

	called := false
	opts := Opts{
		ConfigResolve:   true,
		OnSchemaResolve: func(string, Value, []string, diagnostic.Span) { called = true },
	}
	require.NoError(t, Merge(target, delta, opts, nil, diagnostic.Span{}))
	assert.False(t, called, "a plain dict∪dict merge must not trigger schema resolution")
}
