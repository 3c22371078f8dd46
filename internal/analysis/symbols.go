// Package analysis implements spec.md §4.7–§4.9: the symbol extractor,
// the constant-expression fixpoint evaluator, and the scope-aware
// identifier resolver. All three operate purely over internal/cst's
// interfaces so they are unit-testable without a real jasmin grammar.
// Grounded on the teacher's lsp/symbols.go (single AST-walk producing
// SymbolInformation values, sorted by range) and analyzer.go (which
// evaluates BUILD-file expressions eagerly rather than with a
// fixpoint — this spec's fixpoint requirement is new and has no direct
// teacher analogue; internal/analysis/eval.go is grounded on the
// evaluator shape the spec itself describes).
package analysis

import (
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Kind enumerates the declaration kinds the Symbol Extractor produces.
type Kind int

const (
	Function Kind = iota
	Variable
	Parameter
	Type
	Constant
)

// Symbol is one declared name (spec.md §3).
type Symbol struct {
	Name           string
	Kind           Kind
	DeclRange      cst.PointRange
	SelectionRange cst.PointRange
	URI            protocol.DocumentURI
	Detail         string
	Doc            string
}

// Reference is one occurrence of a name that is not itself being
// extracted as a declaration (spec.md §4.7: "standalone variable /
// identifier nodes are references, never declarations").
type Reference struct {
	Name  string
	Range cst.PointRange
	URI   protocol.DocumentURI
}

// Node/field names the grammar contract the extractor depends on,
// fixed here per spec.md §4.7's table; see internal/resolve/require.go
// for the analogous contract on the require side.
const (
	typeFunctionDefinition = "function_definition"
	typeRegDeclaration     = "reg_declaration"
	typeStackDeclaration   = "stack_declaration"
	typeVarDeclaration     = "var_declaration"
	typeParameter          = "parameter"
	typeParamDecl          = "param_decl"
	typeTopLevelParam      = "param"
	typeTopLevelGlobal     = "global"
	typeTypeDefinition     = "type_definition"
	typeVariableChild      = "variable"
	typeIdentifier         = "identifier"

	fieldName  = "name"
	fieldType  = "type"
	fieldValue = "value"
)

var variableDeclTypes = map[string]bool{
	typeRegDeclaration:   true,
	typeStackDeclaration: true,
	typeVarDeclaration:   true,
}

// ExtractSymbols performs the single pre-order traversal spec.md §4.7
// requires, producing one Symbol per declared name (a declaration node
// that names several variables or parameters yields one Symbol each).
func ExtractSymbols(uri protocol.DocumentURI, root cst.Node, source []byte) []Symbol {
	lines := splitLines(source)
	var symbols []Symbol
	emit := func(sym Symbol) {
		sym.URI = uri
		symbols = append(symbols, sym)
	}

	cst.Walk(root, func(n cst.Node) bool {
		switch {
		case n.Type() == typeFunctionDefinition:
			name := fieldText(n, fieldName, source)
			emit(Symbol{
				Name:           name,
				Kind:           Function,
				DeclRange:      n.Points(),
				SelectionRange: fieldPoints(n, fieldName, n.Points()),
				Detail:         functionSignature(n.Text(source)),
				Doc:            docCommentAbove(lines, n.Points().Start.Row),
			})

		case variableDeclTypes[n.Type()]:
			emitVariableLikeDecl(n, source, lines, Variable, emit)

		case n.Type() == typeParameter:
			name := fieldText(n, fieldName, source)
			emit(Symbol{
				Name:           name,
				Kind:           Parameter,
				DeclRange:      n.Points(),
				SelectionRange: fieldPoints(n, fieldName, n.Points()),
				Detail:         fieldText(n, fieldType, source),
				Doc:            docCommentAbove(lines, n.Points().Start.Row),
			})

		case n.Type() == typeParamDecl:
			emitVariableLikeDecl(n, source, lines, Parameter, emit)
			// The `parameter` children were emitted above; skip them so
			// the typeParameter case does not emit them a second time.
			return false

		case n.Type() == typeTopLevelParam:
			name := fieldText(n, fieldName, source)
			typ := fieldText(n, fieldType, source)
			emit(Symbol{
				Name:           name,
				Kind:           Constant,
				DeclRange:      n.Points(),
				SelectionRange: fieldPoints(n, fieldName, n.Points()),
				Detail:         typ + " = " + valueText(n, source),
				Doc:            docCommentAbove(lines, n.Points().Start.Row),
			})

		case n.Type() == typeTopLevelGlobal:
			name := fieldText(n, fieldName, source)
			detail := fieldText(n, fieldType, source)
			if detail == "" {
				detail = "global"
			}
			emit(Symbol{
				Name:           name,
				Kind:           Variable,
				DeclRange:      n.Points(),
				SelectionRange: fieldPoints(n, fieldName, n.Points()),
				Detail:         detail,
				Doc:            docCommentAbove(lines, n.Points().Start.Row),
			})

		case n.Type() == typeTypeDefinition:
			name := fieldText(n, fieldName, source)
			emit(Symbol{
				Name:           name,
				Kind:           Type,
				DeclRange:      n.Points(),
				SelectionRange: fieldPoints(n, fieldName, n.Points()),
				Detail:         "type",
				Doc:            docCommentAbove(lines, n.Points().Start.Row),
			})
		}
		return true
	}, nil)

	return symbols
}

// emitVariableLikeDecl covers reg/stack/var declarations and
// param_decl: each carries one or more `variable`/`parameter` children
// naming the declared identifiers, with a shared type prefix running
// from the declaration's start to the first such child.
func emitVariableLikeDecl(n cst.Node, source []byte, lines []string, kind Kind, emit func(Symbol)) {
	childType := typeVariableChild
	if kind == Parameter {
		childType = typeParameter
	}
	var first cst.Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || c.Type() != childType {
			continue
		}
		if first == nil {
			first = c
		}
	}
	prefix := ""
	if first != nil {
		prefix = typePrefix(n, first, source)
	}
	doc := docCommentAbove(lines, n.Points().Start.Row)
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || c.Type() != childType {
			continue
		}
		emit(Symbol{
			Name:           c.Text(source),
			Kind:           kind,
			DeclRange:      n.Points(),
			SelectionRange: c.Points(),
			Detail:         prefix,
			Doc:            doc,
		})
	}
}

// ExtractReferences is the separate traversal spec.md §4.7 requires
// for standalone identifier/variable occurrences. It makes no attempt
// to exclude declaration sites; callers (e.g. the references handler)
// decide whether to include the declaration themselves.
func ExtractReferences(uri protocol.DocumentURI, root cst.Node, source []byte) []Reference {
	var refs []Reference
	cst.Walk(root, func(n cst.Node) bool {
		if n.Type() == typeVariableChild || n.Type() == typeIdentifier {
			refs = append(refs, Reference{Name: n.Text(source), Range: n.Points(), URI: uri})
		}
		return true
	}, nil)
	return refs
}

func fieldText(n cst.Node, field string, source []byte) string {
	f := n.Field(field)
	if f == nil {
		return ""
	}
	return f.Text(source)
}

func fieldPoints(n cst.Node, field string, fallback cst.PointRange) cst.PointRange {
	f := n.Field(field)
	if f == nil {
		return fallback
	}
	return f.Points()
}

// valueText returns the text of a top-level param's value expression:
// everything in the node's text after the first `=`.
func valueText(n cst.Node, source []byte) string {
	text := n.Text(source)
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		value := text[idx+1:]
		value = strings.TrimSuffix(strings.TrimSpace(value), ";")
		return strings.TrimSpace(value)
	}
	return ""
}

// functionSignature synthesizes `fn NAME(PARAMS) -> RET` by taking the
// function node's text up to its opening brace, per spec.md §4.7.
func functionSignature(text string) string {
	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}

// typePrefix returns the verbatim text from a declaration node's start
// to the start of its first declared-name child, per spec.md §4.7.
func typePrefix(decl, firstChild cst.Node, source []byte) string {
	declStart := decl.Bytes().Start
	childStart := firstChild.Bytes().Start
	if childStart <= declStart || int(childStart) > len(source) {
		return ""
	}
	return strings.TrimSpace(string(source[declStart:childStart]))
}

func splitLines(source []byte) []string {
	return strings.Split(string(source), "\n")
}

// docCommentAbove implements spec.md §4.7's doc-comment attachment
// rule: contiguous `//` lines immediately above a declaration (one
// blank line tolerated), or a verbatim `/* ... */` block ending just
// above it, with comment markers stripped.
func docCommentAbove(lines []string, declStartRow int) string {
	row := declStartRow - 1
	if row >= 0 && row < len(lines) && strings.TrimSpace(lines[row]) == "" {
		row--
	}
	if row < 0 || row >= len(lines) {
		return ""
	}

	trimmed := strings.TrimSpace(lines[row])
	if strings.HasSuffix(trimmed, "*/") {
		end := row
		start := row
		for start >= 0 && !strings.Contains(lines[start], "/*") {
			start--
		}
		if start < 0 {
			return ""
		}
		block := strings.Join(lines[start:end+1], "\n")
		block = strings.TrimSpace(block)
		block = strings.TrimPrefix(block, "/*")
		block = strings.TrimSuffix(block, "*/")
		return strings.TrimSpace(block)
	}

	if strings.HasPrefix(trimmed, "//") {
		var collected []string
		for row >= 0 {
			t := strings.TrimSpace(lines[row])
			if !strings.HasPrefix(t, "//") {
				break
			}
			collected = append([]string{strings.TrimSpace(strings.TrimPrefix(t, "//"))}, collected...)
			row--
		}
		return strings.Join(collected, "\n")
	}

	return ""
}
