package server

import (
	"encoding/json"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

// serverName/serverVersion are reported in InitializeResult and used
// as the section name of the reserved workspace/configuration request,
// per spec.md scenario S1.
const (
	serverName    = "jasmin-lsp"
	serverVersion = "0.1.0"
)

// jasminExtensions are the file-operation glob filters advertised in
// the workspace capability (spec.md §6).
var jasminExtensions = []string{"**/*.jazz", "**/*.jinc"}

func capabilities() protocol.ServerCapabilities {
	patterns := make([]protocol.FileOperationFilter, len(jasminExtensions))
	for i, glob := range jasminExtensions {
		patterns[i] = protocol.FileOperationFilter{Pattern: protocol.FileOperationPattern{Glob: glob}}
	}
	fileOps := &protocol.FileOperationRegistrationOptions{Filters: patterns}
	return protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.SyncFull,
		},
		DefinitionProvider:      true,
		HoverProvider:           true,
		ReferenceProvider:       true,
		DocumentSymbolProvider:  true,
		WorkspaceSymbolProvider: true,
		RenameProvider:          true,
		Workspace: &protocol.WorkspaceCapabilities{
			FileOperations: &protocol.WorkspaceFileOperations{
				DidCreate: fileOps, WillCreate: fileOps,
				DidRename: fileOps, WillRename: fileOps,
				DidDelete: fileOps, WillDelete: fileOps,
			},
		},
	}
}

// handleInitialize responds with this server's capabilities and, per
// spec.md §4.10, enqueues a Low-priority server-initiated
// workspace/configuration request using the reserved id — low enough
// priority that the initialize response itself (Immediate) reaches the
// client first.
func handleInitialize(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, nil, err
		}
	}
	st.initialized = true
	if p.RootURI != "" {
		if path, err := resolve.PathFromURI(p.RootURI); err == nil {
			st.WorkspaceRoot = path
		}
	}

	result := protocol.InitializeResult{
		Capabilities: capabilities(),
		ServerInfo:   protocol.ServerInfo{Name: serverName, Version: serverVersion},
	}

	configBody, err := rpc.EncodeRequest(rpc.ReservedConfigID, "workspace/configuration", protocol.ConfigurationParams{
		Items: []protocol.ConfigurationItem{{Section: serverName}},
	})
	if err != nil {
		return result, nil, nil
	}
	return result, []eventqueue.Event{lowPriorityOutbound(configBody)}, nil
}

func handleInitialized(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	return nil, nil
}

func handleShutdown(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	st.shuttingDown = true
	return nil, nil, nil
}

func handleExit(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	return nil, nil
}

// handleCancel accepts $/cancelRequest and does nothing with it: this
// core does not implement in-flight cancellation (spec.md §5), but an
// unrecognized notification must not be treated as a protocol error,
// per the teacher's own handleCancel precedent.
func handleCancel(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	return nil, nil
}

// handleConfigurationResponse is invoked directly from Dispatch (not
// through the notification table, since it is a Response, not a
// Notification) when a workspace/configuration reply with the reserved
// id arrives. This core has nothing further to do with the returned
// configuration values beyond logging receipt; responses with any
// other id are discarded before this function is ever reached.
func handleConfigurationResponse(st *ServerState, resp *rpc.Response, log Logger) {
	if log == nil {
		return
	}
	if resp.Error != nil {
		log.Warningf("server: workspace/configuration request failed: %s", resp.Error.Message)
		return
	}
	log.Debugf("server: received workspace/configuration response: %s", string(resp.Result))
}
