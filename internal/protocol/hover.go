package protocol

// MarkupKind is the format of a MarkupContent body.
type MarkupKind string

const (
	PlainText MarkupKind = "plaintext"
	Markdown  MarkupKind = "markdown"
)

// MarkupContent is a formatted documentation/hover body.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is the result of textDocument/hover. A nil *Hover result (as
// opposed to one with empty Contents) is how this core spells "no hover
// information available" for the client.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}
