package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeJSON hand-writes JSON rather than calling encoding/json directly:
// the standard marshaler has no notion of an ordered map, and preserving
// insertion order (or honoring sort_keys) is exactly what §4.7 requires.
// indent of 0 means single-line output with ", " / ": " separators; a
// positive indent pretty-prints with that many spaces per nesting level.
func encodeJSON(n node, sortKeys bool, indent int) string {
	var b strings.Builder
	writeJSON(&b, n, sortKeys, indent, 0)
	return b.String()
}

func writeJSON(b *strings.Builder, n node, sortKeys bool, indent, depth int) {
	switch v := n.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		b.WriteString(strconv.Quote(v))
	case []node:
		writeJSONList(b, v, sortKeys, indent, depth)
	case *omap:
		writeJSONMap(b, v, sortKeys, indent, depth)
	default:
		b.WriteString(fmt.Sprintf("%q", fmt.Sprint(v)))
	}
}

func writeJSONList(b *strings.Builder, items []node, sortKeys bool, indent, depth int) {
	if len(items) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
			if indent == 0 {
				b.WriteByte(' ')
			}
		}
		newline(b, indent, depth+1)
		writeJSON(b, it, sortKeys, indent, depth+1)
	}
	newline(b, indent, depth)
	b.WriteByte(']')
}

func writeJSONMap(b *strings.Builder, m *omap, sortKeys bool, indent, depth int) {
	keys := m.sortedKeys(sortKeys)
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
			if indent == 0 {
				b.WriteByte(' ')
			}
		}
		newline(b, indent, depth+1)
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		writeJSON(b, m.Vals[k], sortKeys, indent, depth+1)
	}
	newline(b, indent, depth)
	b.WriteByte('}')
}

func newline(b *strings.Builder, indent, depth int) {
	if indent <= 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", indent*depth))
}
