package nki

import (
	"bytes"
	"encoding/binary"
	"math"
)

// builder assembles test file images field by field.
type builder struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func newBuilder(order binary.ByteOrder) *builder {
	return &builder{order: order}
}

func (b *builder) raw(data []byte) *builder {
	b.buf.Write(data)
	return b
}

func (b *builder) u8(v uint8) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) u16(v uint16) *builder {
	var tmp [2]byte
	b.order.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *builder) u32(v uint32) *builder {
	var tmp [4]byte
	b.order.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *builder) i32(v int32) *builder {
	return b.u32(uint32(v))
}

func (b *builder) f32(v float32) *builder {
	return b.u32(math.Float32bits(v))
}

// vlq writes a 7-bit variable-length number, least significant group
// first.
func (b *builder) vlq(n uint32) *builder {
	for {
		c := byte(n & 0x7F)
		n >>= 7
		if n != 0 {
			b.buf.WriteByte(c | 0x80)
			continue
		}
		b.buf.WriteByte(c)
		return b
	}
}

func (b *builder) vlqText(s string) *builder {
	b.vlq(uint32(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}

// Magic numbers as they appear on disk. The detector reads them
// big-endian.
var (
	magicBytesKontakt1 = []byte{0x5E, 0xE5, 0x6E, 0xB3}
	magicBytesK2LE     = []byte{0x12, 0x90, 0xA8, 0x7F}
	magicBytesK2BE     = []byte{0x7F, 0xA8, 0x90, 0x12}
	magicBytesMonolith = []byte{0x2F, 0x5C, 0x20, 0x4E}
)

const fixtureTimestamp = 1600000000 // 2020-09-13T12:26:40Z

type loopFixture struct {
	loopType  uint8
	start     uint32
	end       uint32
	crossfade float32
}

type zoneFixture struct {
	groupIndex                         uint16
	root, low, high                    uint8
	velLow, velHigh                    uint8
	xfLow, xfHigh, xfVelLow, xfVelHigh uint8
	playLogic, reversed                uint8
	start, stop                        int32
	tune, keyTracking, gain            float32
	sampleRate                         uint32
	loops                              []loopFixture
	path                               string
	envelope                           [7]float32
}

// defaultZone is a plain full-range zone around middle C.
func defaultZone() zoneFixture {
	return zoneFixture{
		root: 60, low: 0, high: 127,
		velLow: 0, velHigh: 127,
		start: -1, stop: -1,
		keyTracking: 1.0,
		sampleRate:  44100,
		path:        `Samples\C4.wav`,
		envelope:    [7]float32{-1, -1, -1, -1, -1, -1, -1},
	}
}

// encode writes the zone record. extended selects the version 2 layout.
func (z zoneFixture) encode(order binary.ByteOrder, extended bool) []byte {
	b := newBuilder(order)
	b.u16(z.groupIndex)
	b.u8(z.root).u8(z.low).u8(z.high)
	b.u8(z.velLow).u8(z.velHigh)
	b.u8(z.xfLow).u8(z.xfHigh).u8(z.xfVelLow).u8(z.xfVelHigh)
	b.u8(z.playLogic).u8(z.reversed)
	b.i32(z.start).i32(z.stop)
	b.f32(z.tune)
	if extended {
		b.f32(z.keyTracking)
	}
	b.f32(z.gain)
	b.u32(z.sampleRate)
	b.u8(uint8(len(z.loops)))
	for _, loop := range z.loops {
		b.u8(loop.loopType).u32(loop.start).u32(loop.end).f32(loop.crossfade)
	}
	b.vlqText(z.path)
	if extended {
		for _, v := range z.envelope {
			b.f32(v)
		}
	}
	return b.bytes()
}

// buildKontakt1 assembles a complete version 1 file image.
func buildKontakt1(version uint16, name string, groups []string, zones []zoneFixture) []byte {
	b := newBuilder(binary.LittleEndian)
	b.raw(magicBytesKontakt1)
	b.u16(version)
	b.u16(0)
	b.u32(fixtureTimestamp)
	b.u32(0)
	b.vlqText(name)
	b.u16(uint16(len(groups)))
	b.u32(uint32(len(zones)))
	b.raw(make([]byte, 8))
	for _, g := range groups {
		b.vlqText(g)
	}
	for _, z := range zones {
		b.raw(z.encode(binary.LittleEndian, version >= 2))
	}
	return b.bytes()
}

// Chunk encoding helpers. The framing is little-endian regardless of the
// file byte order.

func chunkData(id string, payload []byte) []byte {
	b := newBuilder(binary.LittleEndian)
	b.raw([]byte(id))
	b.u32(uint32(len(payload)))
	b.raw(payload)
	if len(payload)%2 == 1 {
		b.u8(0)
	}
	return b.bytes()
}

func chunkGroup(structural, formType string, children ...[]byte) []byte {
	var body []byte
	body = append(body, formType...)
	for _, child := range children {
		body = append(body, child...)
	}
	b := newBuilder(binary.LittleEndian)
	b.raw([]byte(structural))
	b.u32(uint32(len(body)))
	b.raw(body)
	if len(body)%2 == 1 {
		b.u8(0)
	}
	return b.bytes()
}

// buildKontakt2 assembles a complete version 2 file image in the given
// byte order. An empty name omits the phdr chunk entirely.
func buildKontakt2(order binary.ByteOrder, name, description string, groups []string, zones []zoneFixture) []byte {
	var children [][]byte

	if name != "" || description != "" {
		phdr := newBuilder(order).vlqText(name).vlqText(description).bytes()
		children = append(children, chunkData("phdr", phdr))
	}

	var groupChunks [][]byte
	for _, g := range groups {
		groupChunks = append(groupChunks, chunkData("grp ", newBuilder(order).vlqText(g).bytes()))
	}
	children = append(children, chunkGroup("LIST", "grps", groupChunks...))

	var zoneChunks [][]byte
	for _, z := range zones {
		zoneChunks = append(zoneChunks, chunkData("zone", z.encode(order, true)))
	}
	children = append(children, chunkGroup("LIST", "zons", zoneChunks...))

	return buildKontakt2Raw(order, chunkGroup("FORM", "NKI2", children...))
}

// buildKontakt2Raw wraps an already encoded chunk container in the version
// 2 file header.
func buildKontakt2Raw(order binary.ByteOrder, container []byte) []byte {
	b := newBuilder(order)
	if order == binary.BigEndian {
		b.raw(magicBytesK2BE)
	} else {
		b.raw(magicBytesK2LE)
	}
	b.u16(1)
	b.u16(0)
	b.u32(fixtureTimestamp)
	b.u32(0)
	b.u32(uint32(len(container)))
	b.u32(0)
	b.raw(container)
	return b.bytes()
}
