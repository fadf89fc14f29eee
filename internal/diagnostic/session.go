package diagnostic

import (
	"sort"

	"github.com/gofrs/uuid"

	"github.com/kcl-lang/kclcore/internal/klog"
)

// Session is the explicit, passed-everywhere state that §9 ("Global state")
// describes: the interner (here just Go string identity plus the
// SourceMap), the accumulated diagnostics, and an ID used as a cache key by
// a host (e.g. a language server) reusing a CachedScope across
// compilations (§5). Nothing in the pipeline keeps package-level mutable
// state; every pass takes a *Session.
type Session struct {
	ID          uuid.UUID
	SourceMap   *SourceMap
	Diagnostics []Diagnostic
}

// NewSession allocates a Session with a fresh random ID and an empty
// SourceMap. The ID is generated once per compilation; it is not derived
// from source content, so two compilations of identical text still get
// distinct sessions unless a caller chooses to reuse one explicitly.
func NewSession() *Session {
	id, err := uuid.NewV4()
	if err != nil {
		// NewV4 only fails if the system RNG is broken; fall back to the
		// nil UUID rather than panicking a compilation over it.
		id = uuid.Nil
	}
	return &Session{
		ID:        id,
		SourceMap: NewSourceMap(),
	}
}

// Report appends a diagnostic in the order it was produced. Single-pass
// callers rely on this insertion order directly (§5: "Diagnostics are
// emitted in source order when produced by a single pass"). Every report
// is also traced at debug level, ahead of whatever gets rendered to the
// user, so KCL_LOG_LEVEL=debug shows diagnostics as the pipeline finds
// them rather than only once rendering runs.
func (s *Session) Report(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
	klog.L().Debugf("%s: %s", d.Kind, d.Message)
}

// HasErrors reports whether any accumulated diagnostic is Error severity.
// The resolver consults this to decide whether to proceed to evaluation.
func (s *Session) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// SortByPosition orders accumulated diagnostics by (filename, line, column)
// for rendering, per §5: "multi-pass diagnostics are sorted... before
// rendering". Single-pass callers that already emit in source order should
// skip this: it is only needed once diagnostics from more than one pass
// have been merged.
func (s *Session) SortByPosition() {
	sort.SliceStable(s.Diagnostics, func(i, j int) bool {
		a, b := s.Diagnostics[i].Primary, s.Diagnostics[j].Primary
		if a.File != b.File {
			return a.File < b.File
		}
		pa := s.SourceMap.Position(a.File, a.Lo)
		pb := s.SourceMap.Position(b.File, b.Lo)
		if pa.Line != pb.Line {
			return pa.Line < pb.Line
		}
		return pa.Column < pb.Column
	})
}
