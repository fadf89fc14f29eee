package value

import (
	"fmt"
	"strings"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
)

// Opts configures one merge call per §4.5.
type Opts struct {
	ListOverride    bool
	IdempotentCheck bool
	ConfigResolve   bool

	// OnSchemaResolve is invoked once a Schema∪Schema or Schema∪Dict merge
	// completes, if ConfigResolve is set, with the merged result and the
	// concatenated (duplicate-preserving) config_keys of both sides. This
	// package stays decoupled from ast/evaluator, so the actual schema
	// re-validation/default-resolution logic lives on the callback the
	// evaluator supplies (§4.5: "on completion of a Schema merge, if
	// config_resolve is on, re-run schema validation and default
	// resolution against the combined config_keys").
	OnSchemaResolve func(schemaName string, result Value, configKeys []string, span diagnostic.Span)
}

// Merge implements `merge(target, delta, opts)`, the central operation of
// the value model (§4.5). target is mutated in place; span is attached to
// any conflict diagnostic reported through sess. Dict-x-Schema and
// Schema-x-Dict merges delegate to the same algorithm on the underlying
// config dict, since both KindDict and KindSchema cells carry a *Dict.
func Merge(target, delta Value, opts Opts, sess *diagnostic.Session, span diagnostic.Span) error {
	return mergeAt(target, delta, opts, sess, span, nil)
}

func mergeAt(target, delta Value, opts Opts, sess *diagnostic.Session, span diagnostic.Span, path []string) error {
	if (target.Kind() != KindDict && target.Kind() != KindSchema) ||
		(delta.Kind() != KindDict && delta.Kind() != KindSchema) {
		return fmt.Errorf("merge requires two dict/schema values at path %s", renderPath(path))
	}
	td, dd := target.Dict(), delta.Dict()
	for _, k := range dd.Keys {
		deltaVal := dd.Values[k]
		op := dd.Ops[k]
		insertIdx := dd.InsertIdx[k]
		childPath := append(append([]string(nil), path...), k)

		existing, has := td.Get(k)
		if !has {
			td.Set(k, deltaVal, op, insertIdx)
			continue
		}

		switch op {
		case OpUnion:
			if err := mergeUnion(existing, deltaVal, opts, sess, span, childPath); err != nil {
				return err
			}
			td.Set(k, existing, op, insertIdx)
		case OpOverride:
			if insertIdx < 0 {
				td.Set(k, deltaVal, op, insertIdx)
			} else {
				if existing.Kind() != KindList {
					return fmt.Errorf("override with insert index at %s requires a list", renderPath(childPath))
				}
				if deltaVal.IsNone() || deltaVal.IsUndefined() {
					existing.RemoveListAt(insertIdx)
				} else {
					existing.SetListAt(insertIdx, deltaVal)
				}
				td.Set(k, existing, op, insertIdx)
			}
		case OpInsert:
			list := existing
			if list.Kind() != KindList {
				list = NewList()
				td.Set(k, list, op, insertIdx)
			}
			insertInto(list, deltaVal, insertIdx)
		}
	}
	td.PotentialSchema = dd.PotentialSchema

	if opts.ConfigResolve && opts.OnSchemaResolve != nil {
		schemaName := target.SchemaName()
		if schemaName == "" {
			schemaName = delta.SchemaName()
		}
		if schemaName != "" {
			// td.WriteLog already holds target's pre-merge history plus one
			// entry per key this merge just wrote via td.Set above, so it
			// is already the duplicate-preserving concatenation the
			// original union implementation builds by hand from
			// obj.config_keys + delta.config_keys.
			commonKeys := append([]string(nil), td.WriteLog...)
			opts.OnSchemaResolve(schemaName, target, commonKeys, span)
		}
	}
	return nil
}

// mergeUnion handles the Union dispatch branch: list-pairwise-merge for two
// lists, recursive dict merge for two dicts/schemas, and idempotent-check
// conflict reporting when the recursion bottoms out at incompatible
// scalars.
func mergeUnion(existing, delta Value, opts Opts, sess *diagnostic.Session, span diagnostic.Span, path []string) error {
	if existing.Kind() == KindList && delta.Kind() == KindList && !opts.ListOverride {
		return mergeLists(existing, delta, opts, sess, span, path)
	}
	if (existing.Kind() == KindDict || existing.Kind() == KindSchema) &&
		(delta.Kind() == KindDict || delta.Kind() == KindSchema) {
		return mergeAt(existing, delta, opts, sess, span, path)
	}
	if opts.IdempotentCheck && !Subsume(delta, existing) {
		reportConflict(sess, span, path, existing, delta)
	}
	return nil
}

// mergeLists pairwise-recursively merges up to max(len); extras from delta
// are appended (§4.5 "List merging under union").
func mergeLists(existing, delta Value, opts Opts, sess *diagnostic.Session, span diagnostic.Span, path []string) error {
	el, dl := existing.List(), delta.List()
	for i := 0; i < len(dl); i++ {
		elemPath := append(append([]string(nil), path...), fmt.Sprintf("[%d]", i))
		if i < len(el) {
			if el[i].Kind() == KindList && dl[i].Kind() == KindList {
				if err := mergeLists(el[i], dl[i], opts, sess, span, elemPath); err != nil {
					return err
				}
				continue
			}
			if (el[i].Kind() == KindDict || el[i].Kind() == KindSchema) &&
				(dl[i].Kind() == KindDict || dl[i].Kind() == KindSchema) {
				if err := mergeAt(el[i], dl[i], opts, sess, span, elemPath); err != nil {
					return err
				}
				continue
			}
			existing.SetListAt(i, dl[i])
		} else {
			existing.AppendList(dl[i])
		}
	}
	return nil
}

func insertInto(list, delta Value, insertIdx int) {
	if insertIdx == -1 {
		if delta.Kind() == KindList {
			list.AppendList(delta.List()...)
		} else {
			list.AppendList(delta)
		}
		return
	}
	items := list.List()
	var toInsert []Value
	if delta.Kind() == KindList {
		toInsert = delta.List()
	} else {
		toInsert = []Value{delta}
	}
	if insertIdx > len(items) {
		insertIdx = len(items)
	}
	merged := make([]Value, 0, len(items)+len(toInsert))
	merged = append(merged, items[:insertIdx]...)
	merged = append(merged, toInsert...)
	merged = append(merged, items[insertIdx:]...)
	for i := len(list.List()); i < len(merged); i++ {
		list.AppendList(Undefined())
	}
	for i, v := range merged {
		list.SetListAt(i, v)
	}
}

func renderPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}

// reportConflict builds the multi-part conflict diagnostic §4.5 describes:
// both one-line renderings, the full dotted path, and a suggested `=`
// override.
func reportConflict(sess *diagnostic.Session, span diagnostic.Span, path []string, existing, incoming Value) {
	if sess == nil {
		return
	}
	p := renderPath(path)
	sess.Report(diagnostic.Diagnostic{
		Kind:     diagnostic.KindMergeConflict,
		Severity: diagnostic.SevError,
		Message: fmt.Sprintf(
			"conflicting values for %s: existing %s, incoming %s",
			p, Repr(existing), Repr(incoming),
		),
		Primary:    span,
		Suggestion: fmt.Sprintf("use '%s = %s' to override instead of union", p, Repr(incoming)),
	})
}
