package plan

import (
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// encodeYAML converts a node tree into yaml.v2's ordered MapSlice/interface{}
// shapes and marshals it. yaml.v2 (the teacher's own YAML dependency) is
// used here specifically for its MapSlice type, the one place in the
// ecosystem that lets an ordered map survive a YAML round trip without
// hand-rolling a second emitter alongside the JSON one in json.go.
func encodeYAML(n node, sortKeys bool) string {
	out, err := yaml.Marshal(toYAMLValue(n, sortKeys))
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(string(out), "\n")
}

func toYAMLValue(n node, sortKeys bool) interface{} {
	switch v := n.(type) {
	case *omap:
		keys := v.sortedKeys(sortKeys)
		slice := make(yaml.MapSlice, 0, len(keys))
		for _, k := range keys {
			slice = append(slice, yaml.MapItem{Key: k, Value: toYAMLValue(v.Vals[k], sortKeys)})
		}
		return slice
	case []node:
		out := make([]interface{}, len(v))
		for i, it := range v {
			out[i] = toYAMLValue(it, sortKeys)
		}
		return out
	default:
		return v
	}
}
