package chunk

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// Parser reads a chunk tree from a stream. Chunk headers are a 4 byte tag
// followed by a 4 byte little-endian payload size. Odd payloads are padded
// to even length with one byte that is not part of the declared size.
type Parser struct {
	// PropertyIDs routes children with these tags into the keyed property
	// map of their parent. Everything else lands in the ordered collection.
	PropertyIDs map[FourCC]bool
}

// Parse reads the root chunk and all nested children. A root header that
// cannot be read completely, or a root payload shorter than its declared
// size, fails hard. Structural problems inside child chunks are recorded
// as parser messages on the affected chunk so one bad child does not
// discard the rest of the tree.
func (p *Parser) Parse(r io.Reader) (*Chunk, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading root chunk header: %w", streams.ErrCorrupt)
	}
	var id FourCC
	copy(id[:], header[:4])
	size := binary.LittleEndian.Uint32(header[4:])

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("root chunk %q declares %d payload bytes: %w", id, size, streams.ErrCorrupt)
	}

	root := &Chunk{Type: id, ID: id, Size: size, Position: 0}
	if !root.IsGroup() {
		root.Data = payload
		return root, nil
	}
	if err := p.parseGroup(root, payload, 8); err != nil {
		return nil, err
	}
	root.Type = root.FormType
	return root, nil
}

// parseGroup fills the group chunk c from payload, which starts with the
// form type tag. base is the stream offset of payload.
func (p *Parser) parseGroup(c *Chunk, payload []byte, base int64) error {
	if len(payload) < 4 {
		return fmt.Errorf("group chunk %q has no form type: %w", c.ID, streams.ErrCorrupt)
	}
	copy(c.FormType[:], payload[:4])
	c.Data = payload[4:]

	rest := payload[4:]
	pos := base + 4
	for len(rest) > 0 {
		if len(rest) < 8 {
			c.ParserMessage = fmt.Sprintf("%d trailing bytes after the last child of %q", len(rest), c.FormType)
			return nil
		}

		var id FourCC
		copy(id[:], rest[:4])
		size := binary.LittleEndian.Uint32(rest[4:8])
		child := &Chunk{Type: c.childType(), ID: id, Size: size, Position: pos}

		body := rest[8:]
		if int64(size) > int64(len(body)) {
			child.ParserMessage = fmt.Sprintf("chunk %q declares %d bytes but only %d remain in %q", id, size, len(body), c.FormType)
			size = uint32(len(body))
		}
		child.Data = append([]byte(nil), body[:size]...)

		if child.IsGroup() {
			if err := p.parseGroup(child, child.Data, pos+8); err != nil {
				// A bad child group keeps its raw payload and is demoted to
				// a data chunk.
				child.ParserMessage = err.Error()
				child.FormType = FourCC{}
			}
		}

		if p.PropertyIDs[child.ID] {
			c.PutPropertyChunk(child)
		} else {
			c.AddCollectionChunk(child)
		}

		advance := 8 + int(size)
		if size%2 == 1 && advance < len(rest) {
			advance++ // pad byte
		}
		rest = rest[advance:]
		pos += int64(advance)
	}
	return nil
}
