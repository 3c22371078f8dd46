package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
)

func rowRange(start, end int) cst.PointRange {
	return cst.PointRange{Start: cst.Point{Row: start}, End: cst.Point{Row: end}}
}

func TestFindIdentifierAtPointDescendsToIdentifier(t *testing.T) {
	ident := newFakeNode(typeIdentifier, 0, 0)
	ident.startPt = cst.Point{Row: 0, Column: 5}
	ident.endPt = cst.Point{Row: 0, Column: 6}

	stmt := newFakeNode("expression_statement", 0, 0)
	stmt.startPt = cst.Point{Row: 0, Column: 0}
	stmt.endPt = cst.Point{Row: 0, Column: 10}
	stmt.addChild(ident)

	root := newFakeNode("source_file", 0, 0)
	root.startPt = cst.Point{Row: 0, Column: 0}
	root.endPt = cst.Point{Row: 1, Column: 0}
	root.addChild(stmt)

	got := FindIdentifierAtPoint(root, cst.Point{Row: 0, Column: 5})
	assert.NotNil(t, got)
	assert.Equal(t, typeIdentifier, got.Type())
}

func TestFindIdentifierAtPointReturnsNilOnPunctuation(t *testing.T) {
	punct := newFakeNode("punctuation", 0, 0)
	punct.startPt = cst.Point{Row: 0, Column: 0}
	punct.endPt = cst.Point{Row: 0, Column: 1}

	root := newFakeNode("source_file", 0, 0)
	root.startPt = cst.Point{Row: 0}
	root.endPt = cst.Point{Row: 1}
	root.addChild(punct)

	got := FindIdentifierAtPoint(root, cst.Point{Row: 0, Column: 0})
	assert.Nil(t, got)
}

func TestFindDefinitionAtPositionPrefersParameterOverVariable(t *testing.T) {
	fn := Symbol{Name: "f", Kind: Function, DeclRange: rowRange(0, 5)}
	param := Symbol{Name: "x", Kind: Parameter, DeclRange: rowRange(0, 0)}
	local := Symbol{Name: "x", Kind: Variable, DeclRange: rowRange(1, 1)}

	symbols := []Symbol{fn, param, local}
	got := FindDefinitionAtPosition(symbols, "x", cst.Point{Row: 2})
	assert.NotNil(t, got)
	assert.Equal(t, Parameter, got.Kind)
}

func TestFindDefinitionAtPositionRestrictsToFunctionRowRange(t *testing.T) {
	fn := Symbol{Name: "f", Kind: Function, DeclRange: rowRange(0, 5)}
	outsideLocal := Symbol{Name: "y", Kind: Variable, DeclRange: rowRange(10, 10)}
	insideLocal := Symbol{Name: "y", Kind: Variable, DeclRange: rowRange(2, 2)}

	symbols := []Symbol{fn, outsideLocal, insideLocal}
	got := FindDefinitionAtPosition(symbols, "y", cst.Point{Row: 3})
	assert.NotNil(t, got)
	assert.Equal(t, 2, got.DeclRange.Start.Row)
}

func TestFindDefinitionAtPositionFallsBackToFirstRemaining(t *testing.T) {
	typ := Symbol{Name: "Vec3", Kind: Type, DeclRange: rowRange(0, 0)}
	symbols := []Symbol{typ}

	got := FindDefinitionAtPosition(symbols, "Vec3", cst.Point{Row: 20})
	assert.NotNil(t, got)
	assert.Equal(t, Type, got.Kind)
}

func TestFindDefinitionAtPositionNoMatch(t *testing.T) {
	symbols := []Symbol{{Name: "other", Kind: Variable}}
	got := FindDefinitionAtPosition(symbols, "missing", cst.Point{})
	assert.Nil(t, got)
}
