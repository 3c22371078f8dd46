// Package docstore implements spec.md §4.3's Document Store: a mapping
// from URI to {source text, version, CST}, with open/update/close
// lifecycle and master-file dependency-closure retention on close. The
// store is owned exclusively by the server loop (spec.md §5: no
// shared-memory concurrency, no locks), mirroring the teacher's
// workspaceStore in shape (store/update/close-by-URI, SplitLines-style
// verbatim text retention) but dropping its sync.Mutex, since this
// core's loop is single-threaded by design rather than by incidental
// goroutine safety.
package docstore

import (
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Document is one open or closure-retained source file.
type Document struct {
	URI     protocol.DocumentURI
	Text    string
	Version int
	Tree    cst.Tree // nil if the parser refused the source
}

// Store holds every open Document plus any retained by the master-file
// dependency closure. A single cst.Parser instance is shared across all
// parses, per spec.md §4.3 ("parser instance...assumed thread-unsafe;
// the loop is single-threaded, so this is fine").
type Store struct {
	parser cst.Parser
	docs   map[protocol.DocumentURI]*Document
}

// New returns an empty Store backed by parser.
func New(parser cst.Parser) *Store {
	return &Store{parser: parser, docs: make(map[protocol.DocumentURI]*Document)}
}

func (s *Store) parse(text string) cst.Tree {
	tree, err := s.parser.Parse([]byte(text))
	if err != nil {
		return nil
	}
	return tree
}

// Open parses text and stores it as uri's document, per didOpen.
func (s *Store) Open(uri protocol.DocumentURI, text string, version int) {
	s.replace(uri, text, version)
}

// Update performs a full reparse and replaces uri's document, per
// didChange. If uri was not previously open this behaves like Open,
// per spec.md §4.3.
func (s *Store) Update(uri protocol.DocumentURI, text string, version int) {
	s.replace(uri, text, version)
}

func (s *Store) replace(uri protocol.DocumentURI, text string, version int) {
	if old, ok := s.docs[uri]; ok && old.Tree != nil {
		old.Tree.Drop()
	}
	s.docs[uri] = &Document{URI: uri, Text: text, Version: version, Tree: s.parse(text)}
}

// InClosure reports whether uri is in the relevant set a Close call
// should retain. The server wires this to the dependency walker's
// master-file closure (internal/resolve).
type InClosure func(uri protocol.DocumentURI) bool

// Close removes uri's document unless inClosure(uri) is true, per
// spec.md §4.3: master-file closure members survive didClose. Returns
// whether the document was retained.
func (s *Store) Close(uri protocol.DocumentURI, inClosure InClosure) (retained bool) {
	if inClosure != nil && inClosure(uri) {
		return true
	}
	if old, ok := s.docs[uri]; ok && old.Tree != nil {
		old.Tree.Drop()
	}
	delete(s.docs, uri)
	return false
}

// Get returns uri's document, or nil if it is not in the store.
func (s *Store) Get(uri protocol.DocumentURI) *Document {
	return s.docs[uri]
}

// Text returns uri's stored source text and whether it was found.
func (s *Store) Text(uri protocol.DocumentURI) (string, bool) {
	d, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return d.Text, true
}

// Tree returns uri's parsed CST (possibly nil if the parse failed) and
// whether the URI is known to the store at all.
func (s *Store) Tree(uri protocol.DocumentURI) (cst.Tree, bool) {
	d, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	return d.Tree, true
}

// IsOpen reports whether uri currently has a stored document.
func (s *Store) IsOpen(uri protocol.DocumentURI) bool {
	_, ok := s.docs[uri]
	return ok
}

// AllURIs returns every URI currently held by the store, in no
// particular order.
func (s *Store) AllURIs() []protocol.DocumentURI {
	uris := make([]protocol.DocumentURI, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	return uris
}
