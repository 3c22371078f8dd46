// Package diagnostics implements spec.md §4.11: a pre-order walk over
// every child of a CST (including anonymous/error nodes) that emits one
// diagnostic per ERROR or MISSING node. Grounded on the teacher's
// diagnosticsStore (langserver/diagnostics.go), which keys diagnostics
// by range to naturally dedupe; exception-safety per visited node is
// internal/cst.Walk's job (spec.md §4.11 requires the traversal itself,
// not just this package, to survive a panicking visit).
package diagnostics

import (
	"fmt"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Logger is the minimal logging surface Build needs for panic recovery.
type Logger interface {
	Warningf(format string, args ...interface{})
}

// Build walks root and returns one Error-severity diagnostic per
// ERROR/MISSING node, per spec.md §4.11. log may be nil.
func Build(root cst.Node, log Logger) []protocol.Diagnostic {
	if root == nil {
		return nil
	}
	var diags []protocol.Diagnostic
	cst.Walk(root, func(n cst.Node) bool {
		if !(n.IsError() || n.IsMissing() || n.Type() == "ERROR") {
			return true
		}
		message := "Syntax error"
		if n.IsMissing() {
			message = fmt.Sprintf("Missing: %s", n.Type())
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(n.Points()),
			Severity: protocol.SeverityError,
			Source:   "jasmin-lsp",
			Message:  message,
		})
		return true
	}, func(n cst.Node, r any) {
		if log != nil {
			log.Warningf("diagnostics: recovered panic visiting %s node: %v", n.Type(), r)
		}
	})
	return diags
}

func toRange(pr cst.PointRange) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: pr.Start.Row, Character: pr.Start.Column},
		End:   protocol.Position{Line: pr.End.Row, Character: pr.End.Column},
	}
}
