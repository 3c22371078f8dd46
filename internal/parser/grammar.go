package parser

import sitter "github.com/smacker/go-tree-sitter"

// Language is the jasmin tree-sitter grammar handle used by the process.
//
// spec.md §1 places the CST parser library itself out of scope for this
// core: "the core consumes parse trees and node APIs but does not
// implement parsing". A real jasmin grammar (generated by tree-sitter
// from a grammar.js and compiled in via cgo, exactly the way
// smacker/go-tree-sitter's own bundled golang/python/rust subpackages
// wrap their respective grammars) is a deployment-time concern: whoever
// builds the production binary links a real tree-sitter-jasmin grammar
// package and calls SetLanguage during startup, before the first
// request is served.
//
// Left nil, SitterParser.Parse fails fast with a clear error instead of
// silently producing no tree, so a misconfigured build is diagnosed
// immediately rather than surfacing as mysterious empty symbol lists.
var Language *sitter.Language

// SetLanguage installs the grammar a deployment has linked in. Called
// once during process startup.
func SetLanguage(lang *sitter.Language) {
	Language = lang
}
