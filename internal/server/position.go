package server

import (
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

func toPoint(p protocol.Position) cst.Point {
	return cst.Point{Row: p.Line, Column: p.Character}
}

func toProtocolRange(r cst.PointRange) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Row, Character: r.Start.Column},
		End:   protocol.Position{Line: r.End.Row, Character: r.End.Column},
	}
}

func fileStartLocation(uri protocol.DocumentURI) protocol.Location {
	return protocol.Location{
		URI: uri,
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
	}
}
