package plan

import "sort"

// node is the planner's own small tree shape, distinct from value.Value:
// by the time a value reaches here it has already been filtered, so node
// only needs to carry what actually gets serialized. An *omap remembers
// insertion order (§4.7 "insertion order unless sort_keys"); sortedKeys
// returns the order serializers should walk.
type node interface{}

type omap struct {
	Keys []string
	Vals map[string]node
}

func newOmap() *omap {
	return &omap{Vals: map[string]node{}}
}

func (m *omap) set(k string, v node) {
	if _, ok := m.Vals[k]; !ok {
		m.Keys = append(m.Keys, k)
	}
	m.Vals[k] = v
}

func (m *omap) sortedKeys(sortKeys bool) []string {
	if !sortKeys {
		return m.Keys
	}
	keys := append([]string(nil), m.Keys...)
	sort.Strings(keys)
	return keys
}
