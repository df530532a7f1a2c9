package nki

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redtide/ConvertWithMoss/internal/metadata"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/notify"
	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// Magic numbers of the known file variants, as read big-endian from the
// first four bytes. The two Kontakt 2 ids are byte reversals of each
// other: which one appears tells us the byte order of the whole file.
const (
	magicKontakt1         uint32 = 0x5EE56EB3
	magicKontakt2LE       uint32 = 0x1290A87F
	magicKontakt2BE       uint32 = 0x7FA89012
	magicKontakt5Monolith uint32 = 0x2F5C204E
)

// Files written by Kontakt 4.2.2 and later carry this signature at a fixed
// offset. They use a different container that this package does not read,
// so they are rejected before the magic number dispatch.
const (
	nextGenSignature       = "hsin"
	nextGenSignatureOffset = 12
)

var (
	// ErrUnsupportedVariant marks files that are recognized but use a
	// container this package cannot read.
	ErrUnsupportedVariant = errors.New("file format variant is not supported")

	// ErrUnknownFormat marks files whose magic number is not in the
	// variant table.
	ErrUnknownFormat = errors.New("unknown format id")
)

// Detector reads Kontakt instrument files and turns them into multisample
// sources.
type Detector struct {
	vocab   metadata.Vocabulary
	creator string
	onEvent notify.Func
}

// NewDetector creates a detector. creator is the fallback creator name
// used when the file path does not contain a known one.
func NewDetector(vocab metadata.Vocabulary, creator string, onEvent notify.Func) *Detector {
	return &Detector{vocab: vocab, creator: creator, onEvent: onEvent}
}

// ReadFile reads and decodes one instrument file. Every failure is
// reported through the event callback and yields an empty result, so a
// batch conversion continues with the next file.
func (d *Detector) ReadFile(sourceFolder, sourceFile string) []*model.MultisampleSource {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		d.onEvent.Emit(notify.Error(notify.KeyUnsupportedFile, filepath.Base(sourceFile), err))
		return nil
	}
	return d.Detect(sourceFolder, sourceFile, data)
}

// Detect dispatches on the file's magic number and decodes data. Failures
// are reported through the event callback and yield an empty result.
func (d *Detector) Detect(sourceFolder, sourceFile string, data []byte) []*model.MultisampleSource {
	base := filepath.Base(sourceFile)

	// The newer container must be probed before the magic dispatch: its
	// leading bytes are not covered by the variant table.
	if hasNextGenSignature(data) {
		d.onEvent.Emit(notify.Error(notify.KeyNewerNotSupported, base))
		return nil
	}

	sources, err := d.decode(sourceFolder, sourceFile, data)
	switch {
	case errors.Is(err, ErrUnsupportedVariant):
		d.onEvent.Emit(notify.Error(notify.KeyMonolithUnsupported, base))
		return nil
	case errors.Is(err, ErrUnknownFormat):
		d.onEvent.Emit(notify.Error(notify.KeyUnknownFormatID, base, err))
		return nil
	case err != nil:
		d.onEvent.Emit(notify.Error(notify.KeyUnsupportedFile, base, err))
		return nil
	}

	if len(sources) == 0 {
		d.onEvent.Emit(notify.Error(notify.KeyNoLayersDetected, base))
	}
	return sources
}

// decode looks the magic number up in the closed variant table and runs
// the matching decoder.
func (d *Detector) decode(sourceFolder, sourceFile string, data []byte) ([]*model.MultisampleSource, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("reading file id: %w", streams.ErrEndOfInput)
	}
	magic := binary.BigEndian.Uint32(data[:4])

	switch magic {
	case magicKontakt1:
		return d.decodeKontakt1(sourceFolder, sourceFile, data)
	case magicKontakt2LE:
		return d.decodeKontakt2(sourceFolder, sourceFile, data, binary.LittleEndian)
	case magicKontakt2BE:
		return d.decodeKontakt2(sourceFolder, sourceFile, data, binary.BigEndian)
	case magicKontakt5Monolith:
		return nil, fmt.Errorf("monolith container: %w", ErrUnsupportedVariant)
	default:
		return nil, fmt.Errorf("%w: %X", ErrUnknownFormat, magic)
	}
}

// hasNextGenSignature reports whether data carries the 4.2.2+ container
// signature. Short files simply do not match.
func hasNextGenSignature(data []byte) bool {
	end := nextGenSignatureOffset + len(nextGenSignature)
	return len(data) >= end && string(data[nextGenSignatureOffset:end]) == nextGenSignature
}

// instrumentHeader is the identifying information shared by all variants.
type instrumentHeader struct {
	name        string
	description string
	created     time.Time
}

// buildSources assembles the decoded groups and zones into a multisample
// source. An instrument without zones yields an empty result, the caller
// reports it.
func (d *Detector) buildSources(sourceFolder, sourceFile string, hdr instrumentHeader, groups []string, zones []*zone) ([]*model.MultisampleSource, error) {
	if len(zones) == 0 {
		return nil, nil
	}

	name := strings.TrimSpace(hdr.name)
	if name == "" {
		base := filepath.Base(sourceFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	parts := metadata.PathParts(sourceFile, sourceFolder)
	source := model.NewMultisampleSource(name, sourceFile, parts)
	source.Description = hdr.description
	source.Created = hdr.created
	source.Creator = metadata.DetectCreator(parts, d.vocab.Creators, d.creator)
	source.Category = metadata.DetectCategory(parts, d.vocab.Categories)
	source.Keywords = metadata.DetectKeywords(parts, d.vocab.Keywords)

	layers := make([]*model.VelocityLayer, len(groups))
	for i, groupName := range groups {
		layers[i] = &model.VelocityLayer{Name: groupName}
	}
	for _, z := range zones {
		z.sample.SourcePath, z.sample.Filename = resolveSample(sourceFile, z.path)
		layers[z.groupIndex].Samples = append(layers[z.groupIndex].Samples, z.sample)
	}
	source.Layers = layers

	return []*model.MultisampleSource{source}, nil
}

// resolveSample turns the backslash separated sample reference stored in
// the file into an absolute path relative to the instrument's folder, plus
// the bare file name.
func resolveSample(sourceFile, raw string) (sourcePath, filename string) {
	if raw == "" {
		return "", ""
	}
	rel := filepath.FromSlash(strings.ReplaceAll(raw, `\`, "/"))
	abs := rel
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(filepath.Dir(sourceFile), rel)
	}
	return abs, filepath.Base(abs)
}
