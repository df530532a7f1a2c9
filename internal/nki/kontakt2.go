package nki

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"

	"github.com/redtide/ConvertWithMoss/internal/chunk"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/notify"
	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// Chunk tags of the version 2 container.
var (
	tagNKI2 = chunk.Tag("NKI2")
	tagPHDR = chunk.Tag("phdr")
	tagGrps = chunk.Tag("grps")
	tagZons = chunk.Tag("zons")
	tagGrp  = chunk.Tag("grp ")
	tagZone = chunk.Tag("zone")
)

// kontakt2HeaderLen is the fixed prefix before the chunk container starts.
const kontakt2HeaderLen = 24

// decodeKontakt2 reads the chunk based layout of the version 2 instrument
// files. Multi-byte numbers inside the records follow the file's byte
// order, the chunk framing itself is always little-endian.
func (d *Detector) decodeKontakt2(sourceFolder, sourceFile string, data []byte, order binary.ByteOrder) ([]*model.MultisampleSource, error) {
	r := bytes.NewReader(data)

	if err := streams.SkipExactly(r, 4); err != nil { // file id
		return nil, err
	}
	if _, err := streams.ReadUint16(r, order); err != nil { // header version
		return nil, err
	}
	if err := streams.SkipExactly(r, 2); err != nil { // reserved
		return nil, err
	}
	created, err := streams.ReadTimestamp(r, order)
	if err != nil {
		return nil, err
	}
	if err := streams.SkipExactly(r, 4); err != nil { // always zero
		return nil, err
	}
	containerSize, err := streams.ReadUint32(r, order)
	if err != nil {
		return nil, err
	}
	if err := streams.SkipExactly(r, 4); err != nil { // reserved
		return nil, err
	}

	if int64(containerSize) > int64(len(data)-kontakt2HeaderLen) {
		return nil, fmt.Errorf("container size %d exceeds file: %w", containerSize, streams.ErrCorrupt)
	}
	container := data[kontakt2HeaderLen : kontakt2HeaderLen+int(containerSize)]

	parser := chunk.Parser{PropertyIDs: map[chunk.FourCC]bool{tagPHDR: true}}
	root, err := parser.Parse(bytes.NewReader(container))
	if err != nil {
		return nil, err
	}
	if root.FormType != tagNKI2 {
		return nil, fmt.Errorf("unexpected container type %q: %w", root.FormType, streams.ErrCorrupt)
	}
	d.warnAnomalies(sourceFile, root)

	hdr := instrumentHeader{created: created}
	if phdr := root.GetPropertyChunk(tagPHDR); phdr != nil {
		pr := bytes.NewReader(phdr.Data)
		if hdr.name, err = readVLQText(pr, charmap.Windows1252); err != nil {
			return nil, fmt.Errorf("instrument name: %w", err)
		}
		if hdr.description, err = readVLQText(pr, charmap.Windows1252); err != nil {
			return nil, fmt.Errorf("instrument description: %w", err)
		}
	}

	// The group and zone lists are sibling LIST chunks told apart by
	// their form type.
	var grpsList, zonsList *chunk.Chunk
	for _, list := range root.GetCollectionChunks(chunk.ListTag) {
		switch list.FormType {
		case tagGrps:
			grpsList = list
		case tagZons:
			zonsList = list
		}
	}

	var groups []string
	if grpsList != nil {
		for i, g := range grpsList.GetCollectionChunks(tagGrp) {
			name, err := readVLQText(bytes.NewReader(g.Data), charmap.Windows1252)
			if err != nil {
				return nil, fmt.Errorf("group %d: %w", i, err)
			}
			groups = append(groups, name)
		}
	}

	var zones []*zone
	if zonsList != nil {
		for i, zc := range zonsList.GetCollectionChunks(tagZone) {
			z, err := readZone(bytes.NewReader(zc.Data), order, true, charmap.Windows1252, len(groups))
			if err != nil {
				return nil, fmt.Errorf("zone %d: %w", i, err)
			}
			zones = append(zones, z)
		}
	}

	return d.buildSources(sourceFolder, sourceFile, hdr, groups, zones)
}

// warnAnomalies reports every parser message in the chunk tree. Anomalies
// are recoverable, the affected chunks were parsed as far as possible.
func (d *Detector) warnAnomalies(sourceFile string, c *chunk.Chunk) {
	base := filepath.Base(sourceFile)
	if c.ParserMessage != "" {
		d.onEvent.Emit(notify.Warning(notify.KeyChunkAnomaly, base, c.ParserMessage))
	}
	for _, child := range c.PropertyChunks() {
		d.warnAnomalies(sourceFile, child)
	}
	for _, child := range c.CollectionChunks() {
		d.warnAnomalies(sourceFile, child)
	}
}
