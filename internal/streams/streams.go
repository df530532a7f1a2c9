package streams

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"golang.org/x/text/encoding"
)

// Sentinel errors for the low-level readers. Callers match them with
// errors.Is to distinguish an exhausted stream from structurally bad data.
var (
	// ErrEndOfInput is returned when a read needs more bytes than the
	// stream has left, including reads that got some but not all bytes.
	ErrEndOfInput = errors.New("unexpected end of input")

	// ErrTruncated is returned when a fixed-length text field cannot be
	// read completely.
	ErrTruncated = errors.New("truncated text field")

	// ErrCorrupt is returned when the bytes were readable but violate the
	// structure the caller expected.
	ErrCorrupt = errors.New("corrupt data")
)

// max7BitBytes bounds a 7-bit variable-length number to the uint32 domain.
// A fifth continuation byte cannot occur in well-formed data.
const max7BitBytes = 5

// ReadUint8 reads a single byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("reading byte: %w", ErrEndOfInput)
	}
	return buf[0], nil
}

// ReadUint16 reads a 2-byte unsigned integer in the given byte order.
func ReadUint16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("reading 2 byte integer: %w", ErrEndOfInput)
	}
	return order.Uint16(buf[:]), nil
}

// ReadUint32 reads a 4-byte unsigned integer in the given byte order.
func ReadUint32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("reading 4 byte integer: %w", ErrEndOfInput)
	}
	return order.Uint32(buf[:]), nil
}

// ReadInt32 reads a 4-byte signed integer in the given byte order.
func ReadInt32(r io.Reader, order binary.ByteOrder) (int32, error) {
	v, err := ReadUint32(r, order)
	return int32(v), err
}

// ReadUint32LSB reads a 4-byte unsigned integer, least significant byte
// first.
func ReadUint32LSB(r io.Reader) (uint32, error) {
	return ReadUint32(r, binary.LittleEndian)
}

// FromBytesLSB interprets data as an unsigned integer with the least
// significant byte first. Up to 8 bytes are supported.
func FromBytesLSB(data []byte) uint64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * i)
	}
	return v
}

// ReadFloat32 reads a 4-byte IEEE 754 float in the given byte order.
func ReadFloat32(r io.Reader, order binary.ByteOrder) (float32, error) {
	bits, err := ReadUint32(r, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat32LE reads a little-endian 4-byte IEEE 754 float.
func ReadFloat32LE(r io.Reader) (float32, error) {
	return ReadFloat32(r, binary.LittleEndian)
}

// Read7BitNumber decodes a MIDI-style variable-length quantity: seven
// value bits per byte, least significant group first, the high bit set on
// every byte except the last. It returns the decoded value and the number
// of bytes consumed. Sequences longer than five bytes are rejected as
// corrupt instead of silently overflowing.
func Read7BitNumber(r io.ByteReader) (uint32, int, error) {
	var value uint32
	for count := 0; ; count++ {
		if count >= max7BitBytes {
			return 0, count, fmt.Errorf("7-bit number longer than %d bytes: %w", max7BitBytes, ErrCorrupt)
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, count, fmt.Errorf("reading 7-bit number: %w", ErrEndOfInput)
		}
		value |= uint32(b&0x7F) << (7 * count)
		if b&0x80 == 0 {
			return value, count + 1, nil
		}
	}
}

// ReadFixedText reads exactly length bytes and decodes them with the given
// character encoding.
func ReadFixedText(r io.Reader, length int, enc encoding.Encoding) (string, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading %d text bytes: %w", length, ErrTruncated)
	}
	decoded, err := enc.NewDecoder().Bytes(buf)
	if err != nil {
		return "", fmt.Errorf("decoding %d text bytes: %w", length, err)
	}
	return string(decoded), nil
}

// ReadTimestamp reads a 4-byte POSIX timestamp in the given byte order.
// The result is in UTC.
func ReadTimestamp(r io.Reader, order binary.ByteOrder) (time.Time, error) {
	secs, err := ReadUint32(r, order)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

// ReadTimestampLSB reads a 4-byte POSIX timestamp, least significant byte
// first.
func ReadTimestampLSB(r io.Reader) (time.Time, error) {
	return ReadTimestamp(r, binary.LittleEndian)
}

// SkipExactly advances r by exactly n bytes. Running out of input before
// the count is reached means the structure lied about its size, so the
// shortfall is reported as corruption rather than end of input.
func SkipExactly(r io.Reader, n int64) error {
	skipped, err := io.CopyN(io.Discard, r, n)
	if err != nil || skipped != n {
		return fmt.Errorf("skipping %d bytes, only %d available: %w", n, skipped, ErrCorrupt)
	}
	return nil
}
