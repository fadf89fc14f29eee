package preprocess

import "github.com/kcl-lang/kclcore/ast"

// MergeTopLevel folds repeated top-level `x = Schema{...}` / `x: Schema{...}`
// statements for the same target name into their last occurrence, per §4.3
// rule 2. Earlier occurrences are dropped from the body once their entries
// have been folded into the retained statement.
func MergeTopLevel(m *ast.Module) {
	type occurrence struct {
		idx     int
		cfg     *ast.ConfigExpr
		isAssig bool
	}
	groups := map[string][]occurrence{}
	order := []string{}

	nameOf := func(e ast.Expr) (string, bool) {
		id, ok := e.(*ast.Identifier)
		if !ok || len(id.Names) != 1 {
			return "", false
		}
		return id.Names[0], true
	}

	for i, s := range m.Body {
		switch s := s.(type) {
		case *ast.AssignStmt:
			if len(s.Targets) != 1 {
				continue
			}
			name, ok := nameOf(s.Targets[0])
			if !ok {
				continue
			}
			sc, ok := s.Value.(*ast.SchemaExpr)
			if !ok || sc.Config == nil {
				continue
			}
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
			groups[name] = append(groups[name], occurrence{idx: i, cfg: sc.Config, isAssig: true})
		case *ast.UnificationStmt:
			name, ok := nameOf(s.Target)
			if !ok || s.Value == nil || s.Value.Config == nil {
				continue
			}
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
			groups[name] = append(groups[name], occurrence{idx: i, cfg: s.Value.Config})
		}
	}

	drop := map[int]bool{}
	for _, name := range order {
		occs := groups[name]
		if len(occs) < 2 {
			continue
		}
		var combined []ast.ConfigEntry
		for _, o := range occs {
			combined = append(combined, o.cfg.Entries...)
		}
		last := occs[len(occs)-1]
		last.cfg.Entries = mergeEntries(combined)
		for _, o := range occs[:len(occs)-1] {
			drop[o.idx] = true
		}
	}

	if len(drop) == 0 {
		return
	}
	kept := make([]ast.Stmt, 0, len(m.Body)-len(drop))
	for i, s := range m.Body {
		if drop[i] {
			continue
		}
		kept = append(kept, s)
	}
	m.Body = kept
}

// mergeEntries buckets entries by key, folding same-key siblings into the
// last schema expression's inner config where one exists in the bucket
// (buckets without one keep all their entries in order), and recurses into
// every surviving entry's value so nested duplication is resolved the same
// way.
func mergeEntries(entries []ast.ConfigEntry) []ast.ConfigEntry {
	type bucket struct {
		key     string
		entries []ast.ConfigEntry
	}
	order := []string{}
	buckets := map[string]*bucket{}
	var passthrough []ast.ConfigEntry

	for _, e := range entries {
		k, ok := entryKey(e)
		if !ok {
			passthrough = append(passthrough, e)
			continue
		}
		b, exists := buckets[k]
		if !exists {
			b = &bucket{key: k}
			buckets[k] = b
			order = append(order, k)
		}
		b.entries = append(b.entries, e)
	}

	var out []ast.ConfigEntry
	for _, k := range order {
		b := buckets[k]
		if len(b.entries) == 1 {
			out = append(out, recurseEntry(b.entries[0]))
			continue
		}
		schemaAt := -1
		for i, e := range b.entries {
			if sc, ok := e.Value.(*ast.SchemaExpr); ok && sc.Config != nil {
				schemaAt = i
			}
		}
		if schemaAt == -1 {
			out = append(out, b.entries...)
			continue
		}
		winner := b.entries[schemaAt]
		cfg := innerConfig(winner.Value)
		var spliced []ast.ConfigEntry
		for i, e := range b.entries {
			if i == schemaAt {
				spliced = append(spliced, cfg.Entries...)
				continue
			}
			if sib := innerConfig(e.Value); sib != nil {
				spliced = append(spliced, sib.Entries...)
			} else {
				spliced = append(spliced, e)
			}
		}
		cfg.Entries = mergeEntries(spliced)
		out = append(out, winner)
	}
	out = append(out, passthrough...)
	return out
}

func recurseEntry(e ast.ConfigEntry) ast.ConfigEntry {
	if cfg := innerConfig(e.Value); cfg != nil {
		cfg.Entries = mergeEntries(cfg.Entries)
	}
	return e
}

// innerConfig returns the ConfigExpr a value folds siblings into: a
// schema constructor's config, or a bare dict literal.
func innerConfig(v ast.Expr) *ast.ConfigExpr {
	switch v := v.(type) {
	case *ast.SchemaExpr:
		return v.Config
	case *ast.ConfigExpr:
		return v
	}
	return nil
}

func entryKey(e ast.ConfigEntry) (string, bool) {
	switch k := e.Key.(type) {
	case *ast.Identifier:
		if len(k.Names) == 1 {
			return "id:" + k.Names[0], true
		}
	case *ast.StringLit:
		return "str:" + k.Value, true
	}
	return "", false
}
