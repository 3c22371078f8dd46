package resolve

import (
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Entry is one on-demand loaded (source, tree) pair, per spec.md §4.6.
type Entry struct {
	Text string
	Tree cst.Tree
}

// SourceMap holds ephemeral entries loaded from disk for the duration
// of a single request; it is never merged into the document store, and
// the caller must call Drop when the request completes so every loaded
// tree is released.
//
// Load caches every entry, so a dependency closure walk that reaches
// the same required file through two different require edges reads and
// parses it once. group wraps the read-and-parse step, so Load calls
// for one URI that overlap in time share a single result.
type SourceMap struct {
	parser  cst.Parser
	entries map[protocol.DocumentURI]*Entry
	group   singleflight.Group
}

// NewSourceMap returns an empty SourceMap backed by parser.
func NewSourceMap(parser cst.Parser) *SourceMap {
	return &SourceMap{parser: parser, entries: map[protocol.DocumentURI]*Entry{}}
}

// Load reads uri's file from disk, parses it, and caches the result for
// the lifetime of this SourceMap. Repeated loads of the same URI within
// one request return the cached entry.
func (m *SourceMap) Load(uri protocol.DocumentURI) (*Entry, error) {
	if e, ok := m.entries[uri]; ok {
		return e, nil
	}
	v, err, _ := m.group.Do(string(uri), func() (interface{}, error) {
		if e, ok := m.entries[uri]; ok {
			return e, nil
		}
		path, err := PathFromURI(uri)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tree, _ := m.parser.Parse(data) // a nil tree is tolerated, per spec.md §7
		e := &Entry{Text: string(data), Tree: tree}
		m.entries[uri] = e
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

// Drop releases every tree this SourceMap loaded.
func (m *SourceMap) Drop() {
	for _, e := range m.entries {
		if e.Tree != nil {
			e.Tree.Drop()
		}
	}
}
