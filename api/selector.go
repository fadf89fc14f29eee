package api

import (
	"fmt"
	"strings"
)

// SymbolSelector is the parsed form of §6's symbol selector string:
// `"pkg.sub:Ident.sub"` splits at the colon into a package path and a
// dotted field path rooted at that package.
type SymbolSelector struct {
	PkgRoot   string
	PkgPath   string
	FieldPath []string
}

// ParseSymbolSelector parses a selector relative to pkgRoot (the package
// root directory a relative pkgpath is resolved against, per §6).
func ParseSymbolSelector(pkgRoot, sel string) (*SymbolSelector, error) {
	parts := strings.SplitN(sel, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("symbol selector %q: expected \"pkgpath:field.path\"", sel)
	}
	return &SymbolSelector{
		PkgRoot:   pkgRoot,
		PkgPath:   parts[0],
		FieldPath: strings.Split(parts[1], "."),
	}, nil
}

// Name is the leaf identifier a rename targets: the last segment of the
// field path.
func (s *SymbolSelector) Name() string {
	if len(s.FieldPath) == 0 {
		return ""
	}
	return s.FieldPath[len(s.FieldPath)-1]
}
