package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/redtide/ConvertWithMoss/internal/streams"
)

func u32le(n int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	return b[:]
}

// dataChunk encodes a data chunk with its pad byte if the payload is odd.
func dataChunk(id string, payload []byte) []byte {
	b := append([]byte(id), u32le(len(payload))...)
	b = append(b, payload...)
	if len(payload)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// groupChunk encodes a FORM or LIST chunk around already encoded children.
func groupChunk(structural, formType string, children ...[]byte) []byte {
	body := []byte(formType)
	for _, child := range children {
		body = append(body, child...)
	}
	b := append([]byte(structural), u32le(len(body))...)
	b = append(b, body...)
	if len(body)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

func TestParseTree(t *testing.T) {
	data := groupChunk("FORM", "TST1",
		dataChunk("phdr", []byte("Header")),
		groupChunk("LIST", "grps",
			dataChunk("grp ", []byte("one")),
			dataChunk("grp ", []byte("two")),
		),
		groupChunk("LIST", "zons",
			dataChunk("zone", []byte{1, 2, 3, 4}),
		),
	)

	p := Parser{PropertyIDs: map[FourCC]bool{Tag("phdr"): true}}
	root, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if root.FormType != Tag("TST1") {
		t.Errorf("root form type = %q, want %q", root.FormType, "TST1")
	}
	if root.ID != FormTag {
		t.Errorf("root id = %q, want %q", root.ID, "FORM")
	}

	phdr := root.GetPropertyChunk(Tag("phdr"))
	if phdr == nil {
		t.Fatal("GetPropertyChunk(phdr) = nil, want chunk")
	}
	if string(phdr.Data) != "Header" {
		t.Errorf("phdr data = %q, want %q", phdr.Data, "Header")
	}

	lists := root.GetCollectionChunks(ListTag)
	if len(lists) != 2 {
		t.Fatalf("GetCollectionChunks(LIST) returned %d chunks, want 2", len(lists))
	}
	if lists[0].FormType != Tag("grps") || lists[1].FormType != Tag("zons") {
		t.Errorf("list form types = %q, %q, want grps, zons", lists[0].FormType, lists[1].FormType)
	}

	groups := lists[0].GetCollectionChunks(Tag("grp "))
	if len(groups) != 2 {
		t.Fatalf("grps list has %d grp chunks, want 2", len(groups))
	}
	if string(groups[0].Data) != "one" || string(groups[1].Data) != "two" {
		t.Errorf("group payloads = %q, %q, want one, two", groups[0].Data, groups[1].Data)
	}

	zones := lists[1].GetCollectionChunks(Tag("zone"))
	if len(zones) != 1 {
		t.Fatalf("zons list has %d zone chunks, want 1", len(zones))
	}
}

func TestParsePropertyLastWriteWins(t *testing.T) {
	data := groupChunk("FORM", "TST1",
		dataChunk("phdr", []byte("first")),
		dataChunk("phdr", []byte("second")),
	)

	p := Parser{PropertyIDs: map[FourCC]bool{Tag("phdr"): true}}
	root, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	phdr := root.GetPropertyChunk(Tag("phdr"))
	if phdr == nil {
		t.Fatal("GetPropertyChunk(phdr) = nil, want chunk")
	}
	if string(phdr.Data) != "second" {
		t.Errorf("phdr data = %q, want %q", phdr.Data, "second")
	}
	if got := len(root.CollectionChunks()); got != 0 {
		t.Errorf("collection has %d chunks, want 0", got)
	}
}

func TestPutPropertyChunkIdempotent(t *testing.T) {
	parent := New(Tag("TST1"), Tag("TST1"))
	child := New(Tag("TST1"), Tag("phdr"))
	parent.PutPropertyChunk(child)
	parent.PutPropertyChunk(child)

	if got := parent.GetPropertyChunk(Tag("phdr")); got != child {
		t.Errorf("GetPropertyChunk returned %v, want the registered chunk", got)
	}
}

func TestCollectionKeepsOrderAndDuplicates(t *testing.T) {
	parent := New(Tag("TST1"), Tag("TST1"))
	for _, payload := range []string{"a", "b", "c"} {
		child := New(Tag("TST1"), Tag("zone"))
		child.Data = []byte(payload)
		parent.AddCollectionChunk(child)
	}

	zones := parent.GetCollectionChunks(Tag("zone"))
	if len(zones) != 3 {
		t.Fatalf("GetCollectionChunks returned %d chunks, want 3", len(zones))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(zones[i].Data) != want {
			t.Errorf("zone %d payload = %q, want %q", i, zones[i].Data, want)
		}
	}
}

func TestParseChildOverrun(t *testing.T) {
	// The child declares 100 payload bytes but only 4 follow.
	body := []byte("TST1")
	body = append(body, "big "...)
	body = append(body, u32le(100)...)
	body = append(body, 1, 2, 3, 4)
	data := append([]byte("FORM"), u32le(len(body))...)
	data = append(data, body...)

	p := Parser{}
	root, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	children := root.CollectionChunks()
	if len(children) != 1 {
		t.Fatalf("parsed %d children, want 1", len(children))
	}
	child := children[0]
	if child.ParserMessage == "" {
		t.Error("overrunning child has no parser message")
	}
	if len(child.Data) != 4 {
		t.Errorf("overrunning child data length = %d, want 4", len(child.Data))
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	body := []byte("TST1")
	body = append(body, dataChunk("zone", []byte{1, 2})...)
	body = append(body, 0xDE, 0xAD, 0xBE) // not enough for another header
	data := append([]byte("FORM"), u32le(len(body))...)
	data = append(data, body...)

	p := Parser{}
	root, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if root.ParserMessage == "" {
		t.Error("group with trailing bytes has no parser message")
	}
	if got := len(root.CollectionChunks()); got != 1 {
		t.Errorf("parsed %d children, want 1", got)
	}
}

func TestParseRootTruncated(t *testing.T) {
	data := append([]byte("FORM"), u32le(50)...)
	data = append(data, "TST1"...)

	p := Parser{}
	if _, err := p.Parse(bytes.NewReader(data)); !errors.Is(err, streams.ErrCorrupt) {
		t.Errorf("Parse error = %v, want %v", err, streams.ErrCorrupt)
	}
}

func TestParseRootHeaderShort(t *testing.T) {
	p := Parser{}
	if _, err := p.Parse(bytes.NewReader([]byte("FO"))); !errors.Is(err, streams.ErrCorrupt) {
		t.Errorf("Parse error = %v, want %v", err, streams.ErrCorrupt)
	}
}

func TestParsePositions(t *testing.T) {
	data := groupChunk("FORM", "TST1",
		dataChunk("odd ", []byte{1, 2, 3}), // padded to 4
		dataChunk("next", []byte{9}),
	)

	p := Parser{}
	root, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	children := root.CollectionChunks()
	if len(children) != 2 {
		t.Fatalf("parsed %d children, want 2", len(children))
	}
	// Root header is 8 bytes, form type 4, so the first child starts at 12.
	if children[0].Position != 12 {
		t.Errorf("first child position = %d, want 12", children[0].Position)
	}
	// First child occupies 8+3 bytes plus one pad byte.
	if children[1].Position != 24 {
		t.Errorf("second child position = %d, want 24", children[1].Position)
	}
	if string(children[1].Data) != "\x09" {
		t.Errorf("second child data = %v, want [9]", children[1].Data)
	}
}

func TestNullTerminatedString(t *testing.T) {
	c := New(Tag("TST1"), Tag("phdr"))
	c.Data = []byte("Grand Piano\x00rest")

	tests := []struct {
		name   string
		offset int
		def    string
		want   string
	}{
		{"from start", 0, "fallback", "Grand Piano"},
		{"mid payload", 6, "fallback", "Piano"},
		{"no terminator", 12, "fallback", "fallback"},
		{"offset out of range", 99, "fallback", "fallback"},
		{"negative offset", -1, "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.NullTerminatedString(tt.offset, tt.def); got != tt.want {
				t.Errorf("NullTerminatedString(%d) = %q, want %q", tt.offset, got, tt.want)
			}
		})
	}
}
