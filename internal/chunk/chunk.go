package chunk

import (
	"bytes"
)

// FourCC is a four character chunk tag.
type FourCC [4]byte

// Tag builds a FourCC from a four character string. It panics on any other
// length, which only happens on malformed constants.
func Tag(s string) FourCC {
	if len(s) != 4 {
		panic("chunk: tag must be 4 characters: " + s)
	}
	var f FourCC
	copy(f[:], s)
	return f
}

func (f FourCC) String() string {
	return string(f[:])
}

// Group chunk tags. A group chunk carries a nested form type and contains
// child chunks instead of raw data.
var (
	FormTag = Tag("FORM")
	ListTag = Tag("LIST")
)

// Key identifies a chunk inside a tree: the form type of the group it
// belongs to plus its own tag. Two chunks with the same key are considered
// the same property.
type Key struct {
	Type FourCC
	ID   FourCC
}

// Chunk is one node of a parsed chunk tree.
//
// Children reached through a configured property id live in a keyed map
// where a later chunk with the same key replaces an earlier one. All other
// children live in an ordered collection that permits duplicate ids.
type Chunk struct {
	// Type is the form type of the enclosing group. The root chunk carries
	// its own form type here.
	Type FourCC

	// ID is the tag of this chunk. Group chunks keep their structural tag
	// (FORM or LIST) and expose the nested form type separately.
	ID FourCC

	// FormType is the nested form type of a group chunk, zero for data
	// chunks.
	FormType FourCC

	// Size is the declared payload size in bytes.
	Size uint32

	// Position is the offset of the chunk header from the start of the
	// parsed stream.
	Position int64

	// Data is the raw payload. For group chunks this is the payload after
	// the form type tag. The slice is owned by the chunk.
	Data []byte

	// ParserMessage records a recoverable structural anomaly found while
	// parsing this chunk, empty if none.
	ParserMessage string

	properties map[Key]*Chunk
	collection []*Chunk
}

// New creates an empty chunk with the given enclosing form type and tag.
func New(typ, id FourCC) *Chunk {
	return &Chunk{Type: typ, ID: id}
}

// Key returns the identity of the chunk inside its group.
func (c *Chunk) Key() Key {
	return Key{Type: c.Type, ID: c.ID}
}

// IsGroup reports whether the chunk is a FORM or LIST container.
func (c *Chunk) IsGroup() bool {
	return c.ID == FormTag || c.ID == ListTag
}

// childType is the form type the children of this chunk are keyed under.
func (c *Chunk) childType() FourCC {
	if c.FormType != (FourCC{}) {
		return c.FormType
	}
	return c.Type
}

// PutPropertyChunk stores child under its key. A chunk with the same key
// replaces the previous one.
func (c *Chunk) PutPropertyChunk(child *Chunk) {
	if c.properties == nil {
		c.properties = make(map[Key]*Chunk)
	}
	c.properties[child.Key()] = child
}

// GetPropertyChunk returns the property child with the given tag, or nil.
func (c *Chunk) GetPropertyChunk(id FourCC) *Chunk {
	return c.properties[Key{Type: c.childType(), ID: id}]
}

// AddCollectionChunk appends child to the ordered collection.
func (c *Chunk) AddCollectionChunk(child *Chunk) {
	c.collection = append(c.collection, child)
}

// GetCollectionChunks returns all collection children with the given tag
// in the order they were added.
func (c *Chunk) GetCollectionChunks(id FourCC) []*Chunk {
	key := Key{Type: c.childType(), ID: id}
	var out []*Chunk
	for _, child := range c.collection {
		if child.Key() == key {
			out = append(out, child)
		}
	}
	return out
}

// CollectionChunks returns every collection child in order.
func (c *Chunk) CollectionChunks() []*Chunk {
	return c.collection
}

// PropertyChunks returns the registered property children in no
// particular order.
func (c *Chunk) PropertyChunks() []*Chunk {
	out := make([]*Chunk, 0, len(c.properties))
	for _, child := range c.properties {
		out = append(out, child)
	}
	return out
}

// NullTerminatedString reads a zero-terminated string from the payload
// starting at offset. It returns def when the offset is out of range or no
// terminator follows.
func (c *Chunk) NullTerminatedString(offset int, def string) string {
	if offset < 0 || offset >= len(c.Data) {
		return def
	}
	end := bytes.IndexByte(c.Data[offset:], 0)
	if end < 0 {
		return def
	}
	return string(c.Data[offset : offset+end])
}
