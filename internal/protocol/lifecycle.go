package protocol

// TextDocumentSyncKind matches the LSP enum; this server only ever
// advertises Full, per spec.md §1's "incremental reparsing" non-goal.
type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

// TextDocumentSyncOptions is the detailed (non-bare-kind) sync capability shape.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
}

// FileOperationFilter describes one glob pattern a workspace
// file-operation capability applies to.
type FileOperationPattern struct {
	Glob string `json:"glob"`
}

type FileOperationFilter struct {
	Pattern FileOperationPattern `json:"pattern"`
}

type FileOperationRegistrationOptions struct {
	Filters []FileOperationFilter `json:"filters"`
}

type WorkspaceFileOperations struct {
	DidCreate  *FileOperationRegistrationOptions `json:"didCreate,omitempty"`
	WillCreate *FileOperationRegistrationOptions `json:"willCreate,omitempty"`
	DidRename  *FileOperationRegistrationOptions `json:"didRename,omitempty"`
	WillRename *FileOperationRegistrationOptions `json:"willRename,omitempty"`
	DidDelete  *FileOperationRegistrationOptions `json:"didDelete,omitempty"`
	WillDelete *FileOperationRegistrationOptions `json:"willDelete,omitempty"`
}

type WorkspaceCapabilities struct {
	FileOperations *WorkspaceFileOperations `json:"fileOperations,omitempty"`
}

// ServerCapabilities is this server's advertised feature set (spec.md §6).
type ServerCapabilities struct {
	TextDocumentSync   TextDocumentSyncOptions `json:"textDocumentSync"`
	DefinitionProvider bool                    `json:"definitionProvider"`
	HoverProvider      bool                    `json:"hoverProvider"`
	ReferenceProvider  bool                    `json:"referencesProvider"`
	DocumentSymbolProvider bool                `json:"documentSymbolProvider"`
	WorkspaceSymbolProvider bool               `json:"workspaceSymbolProvider"`
	RenameProvider     bool                    `json:"renameProvider"`
	Workspace          *WorkspaceCapabilities  `json:"workspace,omitempty"`
}

// ServerInfo identifies this server per spec.md scenario S1.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CompletionClientCapabilities is the slice of ClientCapabilities this
// core actually inspects (spec.md doesn't ask for completion, but the
// init handshake must still round-trip whatever the client sent).
type CompletionItemKindCapabilities struct {
	ValueSet []int `json:"valueSet,omitempty"`
}

type CompletionClientCapabilities struct {
	CompletionItemKind CompletionItemKindCapabilities `json:"completionItemKind,omitempty"`
}

type TextDocumentClientCapabilities struct {
	Completion CompletionClientCapabilities `json:"completion,omitempty"`
}

type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument,omitempty"`
	Workspace    map[string]interface{}         `json:"workspace,omitempty"`
}

// InitializeParams is the payload of the initialize request.
type InitializeParams struct {
	ProcessID             int                    `json:"processId,omitempty"`
	RootURI               DocumentURI            `json:"rootUri,omitempty"`
	InitializationOptions map[string]interface{} `json:"initializationOptions,omitempty"`
	Capabilities          ClientCapabilities      `json:"capabilities"`
}

// InitializeResult is the response to initialize.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ConfigurationItem names one section the server is asking for.
type ConfigurationItem struct {
	Section string `json:"section"`
}

// ConfigurationParams is the params of the server-initiated
// workspace/configuration request (spec.md §4.1, §6).
type ConfigurationParams struct {
	Items []ConfigurationItem `json:"items"`
}

// CancelParams is the payload of $/cancelRequest.
type CancelParams struct {
	ID interface{} `json:"id"`
}
