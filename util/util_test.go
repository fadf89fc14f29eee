package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformSlice(t *testing.T) {
	out := TransformSlice([]int{1, 2, 3}, func(i int) string {
		return string(rune('a' + i))
	})
	assert.Equal(t, []string{"b", "c", "d"}, out)
}

func TestCanonicalMapIterYieldsSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	var keys []string
	for k := range CanonicalMapIter(m) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
