package nki

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// decodeKontakt1 reads the flat little-endian layout of the version 1
// instrument files. Header version 1 uses the short zone record, header
// version 2 adds key tracking and the amplitude envelope.
func (d *Detector) decodeKontakt1(sourceFolder, sourceFile string, data []byte) ([]*model.MultisampleSource, error) {
	r := bytes.NewReader(data)

	if err := streams.SkipExactly(r, 4); err != nil { // file id
		return nil, err
	}
	version, err := streams.ReadUint16(r, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if version < 1 || version > 2 {
		return nil, fmt.Errorf("header version %d: %w", version, streams.ErrCorrupt)
	}
	if err := streams.SkipExactly(r, 2); err != nil { // reserved
		return nil, err
	}

	created, err := streams.ReadTimestampLSB(r)
	if err != nil {
		return nil, err
	}
	if err := streams.SkipExactly(r, 4); err != nil { // always zero
		return nil, err
	}

	name, err := readVLQText(r, charmap.ISO8859_1)
	if err != nil {
		return nil, fmt.Errorf("instrument name: %w", err)
	}

	groupCount, err := streams.ReadUint16(r, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	zoneCount, err := streams.ReadUint32LSB(r)
	if err != nil {
		return nil, err
	}
	if err := streams.SkipExactly(r, 8); err != nil { // reserved
		return nil, err
	}

	groups := make([]string, groupCount)
	for i := range groups {
		if groups[i], err = readVLQText(r, charmap.ISO8859_1); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
	}

	var zones []*zone
	for i := 0; i < int(zoneCount); i++ {
		z, err := readZone(r, binary.LittleEndian, version >= 2, charmap.ISO8859_1, int(groupCount))
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
		zones = append(zones, z)
	}

	hdr := instrumentHeader{name: name, created: created}
	return d.buildSources(sourceFolder, sourceFile, hdr, groups, zones)
}
