package analysis

import "github.com/jasmin-lang/jasmin-lsp/internal/cst"

// FindIdentifierAtPoint implements spec.md §4.9's
// `find_identifier_at_point`: descends into the innermost node whose
// range contains point and whose type is `identifier` or `variable`.
// Returns nil if point lands on punctuation or a keyword.
func FindIdentifierAtPoint(root cst.Node, point cst.Point) cst.Node {
	n := cst.NodeAtPoint(root, point)
	for n != nil {
		if n.Type() == typeIdentifier || n.Type() == typeVariableChild {
			return n
		}
		n = n.Parent()
	}
	return nil
}

// FindDefinitionAtPosition implements spec.md §4.9's
// `find_definition_at_position`: restricts Variable/Parameter
// candidates to the containing function's row range (when inside one),
// then prefers Parameter > Variable > first remaining.
func FindDefinitionAtPosition(symbols []Symbol, name string, point cst.Point) *Symbol {
	containing := containingFunction(symbols, point)

	var candidates []Symbol
	for _, s := range symbols {
		if s.Name == name {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if containing != nil {
		var restricted []Symbol
		for _, c := range candidates {
			if c.Kind == Variable || c.Kind == Parameter {
				if !withinRowRange(c.DeclRange.Start.Row, containing.DeclRange) {
					continue
				}
			}
			restricted = append(restricted, c)
		}
		candidates = restricted
	}
	if len(candidates) == 0 {
		return nil
	}

	if p := firstOfKind(candidates, Parameter); p != nil {
		return p
	}
	if v := firstOfKind(candidates, Variable); v != nil {
		return v
	}
	first := candidates[0]
	return &first
}

func containingFunction(symbols []Symbol, point cst.Point) *Symbol {
	for i := range symbols {
		s := &symbols[i]
		if s.Kind != Function {
			continue
		}
		if s.DeclRange.Start.Row <= point.Row && point.Row <= s.DeclRange.End.Row {
			return s
		}
	}
	return nil
}

func withinRowRange(row int, r cst.PointRange) bool {
	return r.Start.Row <= row && row <= r.End.Row
}

func firstOfKind(symbols []Symbol, kind Kind) *Symbol {
	for i := range symbols {
		if symbols[i].Kind == kind {
			return &symbols[i]
		}
	}
	return nil
}
