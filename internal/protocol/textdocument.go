package protocol

// DidOpenTextDocumentParams is the payload of textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentContentChangeEvent describes one edit. This server only
// ever receives (and only ever needs to handle) the full-replacement
// form: Range nil, Text holding the entire new document content, per
// the Full sync kind it advertises.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidChangeTextDocumentParams is the payload of textDocument/didChange.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is the payload of textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// FileChangeType mirrors the LSP enum for workspace/didChangeWatchedFiles.
type FileChangeType int

const (
	FileCreated FileChangeType = 1
	FileChanged FileChangeType = 2
	FileDeleted FileChangeType = 3
)

// FileEvent describes one on-disk change.
type FileEvent struct {
	URI  DocumentURI    `json:"uri"`
	Type FileChangeType `json:"type"`
}

// DidChangeWatchedFilesParams is the payload of workspace/didChangeWatchedFiles.
type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}

// SetMasterFileParams is this server's custom …/setMasterFile notification.
type SetMasterFileParams struct {
	URI DocumentURI `json:"uri"`
}

// SetNamespacePathsParams is this server's custom …/setNamespacePaths
// notification: a raw namespace-id -> path map, per spec.md §6.
type SetNamespacePathsParams map[string]string
