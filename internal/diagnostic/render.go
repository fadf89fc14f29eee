package diagnostic

import (
	"fmt"
	"strings"

	"github.com/kcl-lang/kclcore/internal/klog"
)

// Render formats one diagnostic as the multi-line human report this core
// implements in place of the externally-excluded Fluent-template renderer
// (spec §1, §6): kind-to-message templating lives here, `.ftl`
// localization does not.
func Render(sm *SourceMap, d Diagnostic) string {
	var b strings.Builder

	sev := "error"
	switch d.Severity {
	case SevWarning:
		sev = "warning"
	case SevNote:
		sev = "note"
	}

	pos := sm.Position(d.Primary.File, d.Primary.Lo)
	fmt.Fprintf(&b, "%s[%s]: %s\n", sev, d.Kind, d.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", d.Primary.File, pos.Line, pos.Column)

	if snippet := sm.Snippet(d.Primary.File, d.Primary.Lo); snippet != "" {
		fmt.Fprintf(&b, "   |\n")
		fmt.Fprintf(&b, "%2d | %s\n", pos.Line, snippet)
		caretLen := d.Primary.Hi - d.Primary.Lo
		if caretLen < 1 {
			caretLen = 1
		}
		fmt.Fprintf(&b, "   | %s%s\n", strings.Repeat(" ", pos.Column-1), strings.Repeat("^", caretLen))
	}

	for _, sec := range d.Secondary {
		secPos := sm.Position(sec.Span.File, sec.Span.Lo)
		fmt.Fprintf(&b, "note: %s\n  --> %s:%d:%d\n", sec.Message, sec.Span.File, secPos.Line, secPos.Column)
	}

	if d.Note != "" {
		fmt.Fprintf(&b, "note: %s\n", d.Note)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&b, "help: %s\n", d.Suggestion)
	}

	return b.String()
}

// RenderAll renders every diagnostic in session order, separated by a blank
// line, the shape `kcl run`'s error path prints to stderr.
func RenderAll(sm *SourceMap, diags []Diagnostic) string {
	klog.L().Debugf("rendering %d diagnostic(s)", len(diags))
	parts := make([]string, 0, len(diags))
	for _, d := range diags {
		parts = append(parts, Render(sm, d))
	}
	return strings.Join(parts, "\n")
}
