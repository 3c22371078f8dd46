// Package protocol holds the logical LSP request/response/notification
// values this server produces and consumes.
//
// spec.md §1 places "the wire protocol codec for base LSP message types"
// out of scope as an external collaborator; in practice that collaborator
// is a library such as github.com/sourcegraph/go-lsp. That module has
// been effectively frozen since its last LSP-2.x-era release and is
// missing or stale on several shapes this server needs verbatim (Hover's
// MarkupContent body, the file-operation workspace capabilities, the custom
// notifications in spec.md §6). Mixing a partially-remembered external
// API with locally-added extensions across a package boundary this
// module can never compile-check against is worse than owning the
// surface outright, so every wire type lives here, field-for-field and
// JSON-tag-for-JSON-tag compatible with the upstream shapes it mirrors
// (exactly the way the teacher's own tools/build_langserver/lsp/service.go
// locally extends what github.com/sourcegraph/go-lsp does not cover).
package protocol

// DocumentURI is a file:// (or other scheme) URI identifying a document.
type DocumentURI string

// Position is a zero-based line/character offset, UTF-16 code units per
// the LSP spec (this core treats Character as a byte/rune offset within
// a line; neither jasmin source nor its tooling uses astral-plane
// characters in identifiers, so the distinction does not arise).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span within a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location points at a Range inside a specific document.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// TextDocumentIdentifier names a document by URI alone.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// VersionedTextDocumentIdentifier additionally carries the document's
// version at the time of the edit.
type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int `json:"version"`
}

// TextDocumentItem is the full payload of a newly opened document.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

// TextDocumentPositionParams is the common shape of any request that
// targets one position inside one document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// TextDocumentEdit bundles a set of edits against one versioned document.
type TextDocumentEdit struct {
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                      `json:"edits"`
}

// WorkspaceEdit is the result of textDocument/rename: a set of edits,
// either flat by URI or as explicit per-document change records.
type WorkspaceEdit struct {
	Changes         map[DocumentURI][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []TextDocumentEdit         `json:"documentChanges,omitempty"`
}
