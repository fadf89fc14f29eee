// Package plan implements the planner (§4.7): turning a dynamic Value
// produced by the evaluator into JSON and YAML projections. Grounded on
// sqldef's own `schema.GenerateDDLs` output-formatting step — the part of
// sqldef that turns an in-memory diff into the text a caller actually
// wants — generalized from "render a DDL statement list" to "render a
// dynamic value as JSON/YAML documents, possibly several of them".
package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kcl-lang/kclcore/value"
)

// Options mirrors §4.7's `{sort_keys, include_schema_type_path,
// show_hidden, disable_none, disable_empty_list, query_paths, sep}`.
type Options struct {
	SortKeys               bool
	IncludeSchemaTypePath  bool
	ShowHidden             bool
	DisableNone            bool
	DisableEmptyList       bool
	QueryPaths             []string
	Sep                    *string
	Indent                 int // JSON indent width; 0 means single-line spaced
}

// Plan implements `plan(value, options) -> (json, yaml)`.
func Plan(v value.Value, opts Options) (jsonOut string, yamlOut string, err error) {
	target, err := narrow(v, opts.QueryPaths)
	if err != nil {
		return "", "", err
	}

	results := filterResults(target, opts)
	if len(results) == 0 {
		return "", "", nil
	}

	jsonSep := "\n"
	yamlSep := "\n---\n"
	if opts.Sep != nil {
		jsonSep = *opts.Sep
		yamlSep = *opts.Sep
	}

	jsonParts := make([]string, len(results))
	yamlParts := make([]string, len(results))
	for i, r := range results {
		jsonParts[i] = encodeJSON(r, opts.SortKeys, opts.Indent)
		yamlParts[i] = encodeYAML(r, opts.SortKeys)
	}
	return strings.Join(jsonParts, jsonSep), strings.Join(yamlParts, yamlSep), nil
}

// narrow implements the query_paths rule: one path narrows to that path's
// value; several paths narrow to a list of the paths' values.
func narrow(v value.Value, paths []string) (value.Value, error) {
	if len(paths) == 0 {
		return v, nil
	}
	if len(paths) == 1 {
		return lookupPath(v, paths[0])
	}
	out := value.NewList()
	for _, p := range paths {
		pv, err := lookupPath(v, p)
		if err != nil {
			return value.Undefined(), err
		}
		out.AppendList(pv)
	}
	return out, nil
}

func lookupPath(v value.Value, path string) (value.Value, error) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		switch cur.Kind() {
		case value.KindDict, value.KindSchema:
			next, ok := cur.Dict().Get(seg)
			if !ok {
				return value.Undefined(), fmt.Errorf("plan path %q: key %q not found", path, seg)
			}
			cur = next
		case value.KindList:
			idx, convErr := strconv.Atoi(seg)
			if convErr != nil || idx < 0 || idx >= len(cur.List()) {
				return value.Undefined(), fmt.Errorf("plan path %q: index %q out of range", path, seg)
			}
			cur = cur.List()[idx]
		default:
			return value.Undefined(), fmt.Errorf("plan path %q: cannot index into %s", path, cur.Kind())
		}
	}
	return cur, nil
}
