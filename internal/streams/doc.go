// Package streams provides the primitive binary readers shared by the
// Kontakt file decoders.
//
// The instrument files mix several conventions in one container: most
// multi-byte integers are stored least significant byte first, floats are
// IEEE 754, string lengths are MIDI-style 7-bit variable-length numbers,
// and text payloads use legacy single-byte charsets. The functions in this
// package read one value each from an io.Reader and normalize failures
// into three sentinel errors:
//
//   - ErrEndOfInput: the stream ended inside a value
//   - ErrTruncated: a fixed-length text field was cut short
//   - ErrCorrupt: the bytes are readable but structurally invalid
//
// Decoders wrap these with context and match them at package boundaries
// using errors.Is.
//
// # Usage
//
//	r := bytes.NewReader(data)
//	length, _, err := streams.Read7BitNumber(r)
//	if err != nil {
//		return err
//	}
//	name, err := streams.ReadFixedText(r, int(length), charmap.ISO8859_1)
package streams
