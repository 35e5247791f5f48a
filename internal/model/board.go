package model

// A Board represents a database record holding a board document.
// The document is kept as its JSON representation so top-level merges
// preserve fields unknown to this version.
type Board struct {
	Base `msgpack:",inline" storm:"inline"`

	Document []byte `msgpack:"document"`
}
