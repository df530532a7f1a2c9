// Package chunk parses the IFF-style container used by the later Kontakt
// instrument files.
//
// A chunk is a 4 character tag, a little-endian 32 bit payload size and
// the payload itself. FORM and LIST chunks carry a nested form type tag
// and contain further chunks. Children are grouped two ways when the tree
// is built:
//
//   - property chunks: tags registered with the parser are stored in a map
//     keyed by (form type, tag), so a repeated property replaces the
//     earlier one
//   - collection chunks: everything else is kept as an ordered sequence
//     that allows duplicate tags
//
// The root chunk is validated strictly. Malformed children only taint
// themselves: the anomaly is recorded on the chunk's ParserMessage and
// parsing continues with the next sibling.
//
// # Usage
//
//	p := chunk.Parser{PropertyIDs: map[chunk.FourCC]bool{chunk.Tag("phdr"): true}}
//	root, err := p.Parse(bytes.NewReader(data))
//	if err != nil {
//		return err
//	}
//	header := root.GetPropertyChunk(chunk.Tag("phdr"))
package chunk
