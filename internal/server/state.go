// Package server implements spec.md §4.10/§4.12 and §5: the single
// piece of mutable state the loop owns (ServerState), the per-method
// request/notification handlers, and the Server.Run event loop that
// drives them. Grounded on the teacher's LsHandler
// (tools/build_langserver/langserver/handler.go) for the
// state-plus-method-table dispatch shape, generalized from
// jsonrpc2.Handler's ctx/conn/request signature to this core's own
// Channel/Queue plumbing (see SPEC_FULL.md §3 for why jsonrpc2 itself
// is not used).
package server

import (
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/docstore"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
)

// ServerState is the single block of mutable state the loop owns, per
// spec.md §5 ("the loop is the sole owner of ServerState"). Apart from
// start-up setup in cmd/jasmin-lsp, which may set WorkspaceRoot before
// the loop runs, nothing outside internal/server mutates it.
type ServerState struct {
	Store    *docstore.Store
	Resolver *resolve.Resolver
	Parser   cst.Parser

	Master    protocol.DocumentURI
	HasMaster bool

	// WorkspaceRoot backs the `${workspaceFolder}` substitution
	// SPEC_FULL.md §2 describes for setNamespacePaths; set at start-up
	// from the --workspace_root flag, and replaced by
	// InitializeParams.RootURI when the client sends one.
	WorkspaceRoot string

	initialized  bool
	shuttingDown bool
}

// NewServerState returns a fresh, uninitialized ServerState backed by
// parser and a namespace resolver using exists for path existence
// checks.
func NewServerState(parser cst.Parser, exists resolve.FileExists) *ServerState {
	return &ServerState{
		Store:    docstore.New(parser),
		Resolver: resolve.NewResolver(exists),
		Parser:   parser,
	}
}

// newSource builds a request-scoped resolve.Source over the open
// document store and a fresh on-demand SourceMap. Callers must Drop
// the returned SourceMap once the request completes, per spec.md §4.6.
func (st *ServerState) newSource() *resolve.Source {
	return resolve.NewSource(st.Store, resolve.NewSourceMap(st.Parser))
}

// inClosure reports whether uri falls inside the master file's
// dependency closure; used by docstore.Store.Close per spec.md §4.3.
func (st *ServerState) inClosure(uri protocol.DocumentURI) bool {
	if !st.HasMaster {
		return false
	}
	source := st.newSource()
	defer source.Scratch.Drop()
	closure := resolve.Closure(source, st.Resolver, st.Master)
	return closure[uri]
}

// relevantFiles returns spec.md §4.5's all_relevant_files(current) set.
// The caller owns the returned source's Scratch map and must Drop it.
func (st *ServerState) relevantFiles(current protocol.DocumentURI) (map[protocol.DocumentURI]bool, *resolve.Source) {
	source := st.newSource()
	return resolve.AllRelevantFiles(source, st.Resolver, st.Master, st.HasMaster, current, st.Store.AllURIs()), source
}
