package plan

import (
	"github.com/kcl-lang/kclcore/value"
)

// schemaTypeAttr is the key a schema's full type path is recorded under
// when include_schema_type_path is requested (§4.7).
const schemaTypeAttr = "_type"

// privatePrefix marks an attribute as hidden from plan output unless
// show_hidden is set (§4.7).
const privatePrefix = "_"

// isSchemaLike reports whether v should go through handleSchema: either it
// already is a schema value, or it is a plain dict the resolver tagged as a
// "potential schema" (§4.5/§4.6, GLOSSARY "Potential schema") — a dict built
// from a schema-typed config entry that was never explicitly instantiated
// but still carries its target schema's name for planning purposes.
func isSchemaLike(v value.Value) bool {
	if v.Kind() == value.KindSchema {
		return true
	}
	return v.Kind() == value.KindDict && v.Dict().PotentialSchema != ""
}

// filterResults ports val_plan.rs's `filter_results`: it returns the "main"
// filtered value at index 0, plus any standalone results nested schema/dict
// values produced, which bubble straight onto this same returned slice so
// that promotion propagates all the way up to the top-level result list.
func filterResults(v value.Value, opts Options) []node {
	switch v.Kind() {
	case value.KindList:
		return filterListRoot(v, opts)
	case value.KindSchema:
		return handleSchema(v, opts)
	case value.KindDict:
		if v.Dict().PotentialSchema != "" {
			return handleSchema(v, opts)
		}
		return filterDict(v, opts)
	case value.KindUndefined, value.KindFunc:
		return nil
	default:
		// A bare scalar reaches here only as a plan root (e.g. a
		// query_paths narrowing onto a leaf attribute); wrap it as the
		// sole result so it still serializes.
		return []node{convertScalar(v, opts)}
	}
}

// filterListRoot handles a list encountered as the value being planned in
// its own right (top-level result, or a query_paths narrowing onto a list).
// When every element is itself config-shaped, each one expands into its own
// standalone document instead of nesting under a key — this is KCl's
// classic "list of schema instances becomes a multi-document YAML stream"
// idiom.
func filterListRoot(v value.Value, opts Options) []node {
	items := v.List()
	if len(items) == 0 {
		return nil
	}
	if allConfigs(items) || opts.Sep != nil {
		var results []node
		for _, it := range items {
			results = append(results, filterResults(it, opts)...)
		}
		return results
	}

	elems, standalones := filterListAttr(v, opts)
	results := []node{elems}
	results = append(results, standalones...)
	return results
}

func allConfigs(items []value.Value) bool {
	for _, it := range items {
		if it.Kind() != value.KindDict && it.Kind() != value.KindSchema {
			return false
		}
	}
	return true
}

// handleSchema ports val_plan.rs's `handle_schema`: filter the value as a
// dict, then stamp the schema type path onto the main result when
// include_schema_type_path is set.
func handleSchema(v value.Value, opts Options) []node {
	filtered := filterDict(v, opts)
	if len(filtered) == 0 {
		return filtered
	}
	if opts.IncludeSchemaTypePath {
		if m, ok := filtered[0].(*omap); ok {
			m.set(schemaTypeAttr, typePath(v))
		}
	}
	return filtered
}

// typePath names the schema a value was instantiated as. The current
// resolver only populates the __main__ package, so the full name and the
// short name coincide; this is noted in DESIGN.md as a simplification
// pending cross-package schema resolution.
func typePath(v value.Value) string {
	return v.SchemaName()
}

// filterDict ports the dict branch of `filter_results`/`handle_schema`: walk
// each attribute, skipping undefined/function values, hidden (`_`-prefixed)
// attributes unless show_hidden, and none values when disable_none is set.
// A nested schema/dict attribute's own standalone results are appended onto
// the same results slice this call returns, not dropped.
func filterDict(v value.Value, opts Options) []node {
	d := v.Dict()
	main := newOmap()
	results := []node{main}

	for _, key := range d.Keys {
		val := d.Values[key]
		if val.IsUndefined() || val.Kind() == value.KindFunc {
			continue
		}
		if key != "" && key[0:1] == privatePrefix && !opts.ShowHidden {
			continue
		}
		if val.IsNone() && opts.DisableNone {
			continue
		}

		switch {
		case isSchemaLike(val):
			filtered := handleSchema(val, opts)
			if len(filtered) == 0 {
				continue
			}
			main.set(key, filtered[0])
			results = append(results, filtered[1:]...)

		case val.Kind() == value.KindDict:
			filtered := filterDict(val, opts)
			if len(filtered) == 0 {
				continue
			}
			main.set(key, filtered[0])
			results = append(results, filtered[1:]...)

		case val.Kind() == value.KindList:
			items := val.List()
			if len(items) == 0 {
				if !opts.DisableEmptyList {
					main.set(key, []node{})
				}
				continue
			}
			elems, standalones := filterListAttr(val, opts)
			if elems != nil {
				main.set(key, elems)
			}
			results = append(results, standalones...)

		default:
			main.set(key, convertScalar(val, opts))
		}
	}

	return results
}

// filterListAttr ports the list-attribute path of `filter_results`: every
// config-shaped element is filtered in place (flattening its own nested
// dict results into the list), and any additional standalone results it
// produced bubble out as a second return value rather than being lost.
func filterListAttr(v value.Value, opts Options) (elems []node, standalones []node) {
	items := v.List()
	ignored := 0
	list := make([]node, 0, len(items))

	for _, it := range items {
		switch {
		case isSchemaLike(it):
			filtered := handleSchema(it, opts)
			if len(filtered) == 0 {
				ignored++
				continue
			}
			list = append(list, filtered[0])
			standalones = append(standalones, filtered[1:]...)

		case it.Kind() == value.KindDict:
			filtered := filterDict(it, opts)
			if len(filtered) == 0 {
				ignored++
				continue
			}
			list = append(list, filtered...)

		case it.IsNone() && opts.DisableNone:
			ignored++

		case it.IsUndefined():
			ignored++

		default:
			list = append(list, convertScalar(it, opts))
		}
	}

	if ignored < len(items) {
		elems = list
		if elems == nil {
			elems = []node{}
		}
	}
	return
}

// convertScalar turns a leaf (non-dict, non-schema) value into its node
// representation, recursing into nested lists element-wise. Nested lists
// here are not themselves filtered (no hidden/none pruning), matching
// val_plan.rs's behavior of cloning a plain list attribute's contents as-is.
func convertScalar(v value.Value, opts Options) node {
	switch v.Kind() {
	case value.KindNone:
		return nil
	case value.KindBool:
		return v.Bool()
	case value.KindInt:
		return v.Int()
	case value.KindFloat:
		return v.Float()
	case value.KindStr:
		return v.Str()
	case value.KindList:
		items := v.List()
		out := make([]node, len(items))
		for i, it := range items {
			switch it.Kind() {
			case value.KindDict, value.KindSchema:
				filtered := filterDict(it, opts)
				if len(filtered) > 0 {
					out[i] = filtered[0]
				}
			default:
				out[i] = convertScalar(it, opts)
			}
		}
		return out
	default:
		return nil
	}
}
