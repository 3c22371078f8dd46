package resolve

import (
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/docstore"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Source resolves a URI to its text and tree, preferring the open
// document store and falling back to on-demand disk loading, per
// spec.md §4.6.
type Source struct {
	Store   *docstore.Store
	Scratch *SourceMap
}

// NewSource builds a Source over an open document store and a fresh
// per-request SourceMap.
func NewSource(store *docstore.Store, scratch *SourceMap) *Source {
	return &Source{Store: store, Scratch: scratch}
}

// TreeAndText returns uri's tree and source text, loading it on demand
// if it is not already open. ok is false only if the URI could not be
// found or read at all.
func (s *Source) TreeAndText(uri protocol.DocumentURI) (cst.Tree, string, bool) {
	if tree, ok := s.Store.Tree(uri); ok {
		text, _ := s.Store.Text(uri)
		return tree, text, true
	}
	e, err := s.Scratch.Load(uri)
	if err != nil {
		return nil, "", false
	}
	return e.Tree, e.Text, true
}

// Closure computes spec.md §4.5's transitive closure of root through
// require edges. A visited set prevents infinite recursion on cyclic
// require graphs. The closure always includes root itself.
func Closure(source *Source, resolver *Resolver, root protocol.DocumentURI) map[protocol.DocumentURI]bool {
	visited := map[protocol.DocumentURI]bool{}
	var walk func(protocol.DocumentURI)
	walk = func(uri protocol.DocumentURI) {
		if visited[uri] {
			return
		}
		visited[uri] = true

		tree, text, ok := source.TreeAndText(uri)
		if !ok || tree == nil {
			return
		}
		dir, err := DirOfURI(uri)
		if err != nil {
			return
		}
		for _, req := range ExtractRequires(tree.RootNode(), []byte(text)) {
			target := resolver.Resolve(dir, req.Namespace, req.Filename)
			if target == "" {
				continue
			}
			walk(URIFromPath(target))
		}
	}
	walk(root)
	return visited
}

// AllRelevantFiles implements spec.md §4.5's `all_relevant_files`: if a
// master file is set, the master's closure union {current}; otherwise
// the union of every open URI's closure, union {current}.
func AllRelevantFiles(source *Source, resolver *Resolver, master protocol.DocumentURI, hasMaster bool, current protocol.DocumentURI, openURIs []protocol.DocumentURI) map[protocol.DocumentURI]bool {
	result := map[protocol.DocumentURI]bool{}
	if hasMaster {
		for uri := range Closure(source, resolver, master) {
			result[uri] = true
		}
	} else {
		for _, uri := range openURIs {
			for u := range Closure(source, resolver, uri) {
				result[u] = true
			}
		}
	}
	result[current] = true
	return result
}
