package server

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
)

// handleSetMasterFile implements this server's custom
// jasmin-lsp/setMasterFile notification (spec.md §4.10): set the
// master URI used to scope every closure computation; no further
// action beyond logging is required.
func handleSetMasterFile(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.SetMasterFileParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	st.Master = p.URI
	st.HasMaster = true
	return nil, nil
}

// handleSetNamespacePaths implements jasmin-lsp/setNamespacePaths:
// replace the resolver's namespace-path map wholesale, substituting
// `${workspaceFolder}` per SPEC_FULL.md §2, then load the master
// file's closure into the store and publish diagnostics for all of
// it, since every resolution in that closure may now be stale.
func handleSetNamespacePaths(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.SetNamespacePathsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(p))
	for namespace, dir := range p {
		paths[namespace] = st.expandWorkspaceFolder(dir)
	}
	st.Resolver.NamespacePaths = paths

	if !st.HasMaster {
		return nil, nil
	}

	relevant, source := st.relevantFiles(st.Master)
	defer source.Scratch.Drop()

	var events []eventqueue.Event
	for uri := range relevant {
		if !st.Store.IsOpen(uri) {
			if err := st.loadFromDisk(uri); err != nil {
				continue
			}
		}
		if ev, ok := st.publishDiagnosticsFor(uri, nil); ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// expandWorkspaceFolder substitutes the literal `${workspaceFolder}`
// placeholder with the root path captured at initialize.
func (st *ServerState) expandWorkspaceFolder(dir string) string {
	if st.WorkspaceRoot == "" {
		return dir
	}
	return strings.ReplaceAll(dir, "${workspaceFolder}", st.WorkspaceRoot)
}

// loadFromDisk reads uri's contents into the store as an unopened
// document (version 0), so closure-wide diagnostics can cover files
// the client never opened.
func (st *ServerState) loadFromDisk(uri protocol.DocumentURI) error {
	path, err := resolve.PathFromURI(uri)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	st.Store.Update(uri, string(data), 0)
	return nil
}

// handleGetRequiredNamespaces implements jasmin-lsp/getRequiredNamespaces:
// the sorted, deduplicated set of namespace identifiers the master
// file references via `from NS require ...` directives.
func handleGetRequiredNamespaces(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	if !st.HasMaster {
		return []string{}, nil, nil
	}
	tree, ok := st.Store.Tree(st.Master)
	if !ok || tree == nil {
		return []string{}, nil, nil
	}
	text, _ := st.Store.Text(st.Master)

	seen := map[string]bool{}
	for _, d := range resolve.ExtractRequires(tree.RootNode(), []byte(text)) {
		if d.Namespace == "" {
			continue
		}
		seen[d.Namespace] = true
	}

	result := make([]string, 0, len(seen))
	for ns := range seen {
		result = append(result, ns)
	}
	sort.Strings(result)
	return result, nil, nil
}
