package sema

import (
	"fmt"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
)

// errDiag builds a KindNameNotDefined-or-similar error diagnostic; callers
// that need a specific Kind other than the inferred default should build
// the Diagnostic directly instead (see Resolver.errType for KindTypeError).
func errDiag(span diagnostic.Span, format string, args ...interface{}) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Kind:     diagnostic.KindNameNotDefined,
		Severity: diagnostic.SevError,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	}
}

func attrDiag(span diagnostic.Span, format string, args ...interface{}) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Kind:     diagnostic.KindAttributeNotFound,
		Severity: diagnostic.SevError,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	}
}
