package nki

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/redtide/ConvertWithMoss/internal/metadata"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/notify"
	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// eventRecorder captures notifications for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (er *eventRecorder) record(e notify.Event) {
	er.mu.Lock()
	defer er.mu.Unlock()
	er.events = append(er.events, e)
}

func (er *eventRecorder) byKey(key string) []notify.Event {
	er.mu.Lock()
	defer er.mu.Unlock()
	var out []notify.Event
	for _, e := range er.events {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

func newTestDetector(rec *eventRecorder) *Detector {
	vocab := metadata.Vocabulary{
		Creators:   []string{"Acme Sounds"},
		Categories: map[string][]string{"Piano": {"piano"}},
		Keywords:   []string{"dark"},
	}
	return NewDetector(vocab, "Fallback Inc", rec.record)
}

func TestDetectDispatch(t *testing.T) {
	zones := []zoneFixture{defaultZone()}

	tests := []struct {
		name string
		data []byte
	}{
		{"kontakt1 v1", buildKontakt1(1, "Piano", []string{"Default"}, zones)},
		{"kontakt1 v2", buildKontakt1(2, "Piano", []string{"Default"}, zones)},
		{"kontakt2 little endian", buildKontakt2(binary.LittleEndian, "Piano", "", []string{"Default"}, zones)},
		{"kontakt2 big endian", buildKontakt2(binary.BigEndian, "Piano", "", []string{"Default"}, zones)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &eventRecorder{}
			d := newTestDetector(rec)

			sources := d.Detect("/in", "/in/file.nki", tt.data)
			if len(sources) != 1 {
				t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
			}
			if sources[0].Name != "Piano" {
				t.Errorf("source name = %q, want %q", sources[0].Name, "Piano")
			}
			if len(sources[0].Layers) != 1 {
				t.Fatalf("source has %d layers, want 1", len(sources[0].Layers))
			}
			if got := len(sources[0].Layers[0].Samples); got != 1 {
				t.Errorf("layer has %d samples, want 1", got)
			}
		})
	}
}

func TestDetectKontakt1Fields(t *testing.T) {
	z := defaultZone()
	z.groupIndex = 1
	z.root, z.low, z.high = 60, 48, 72
	z.velLow, z.velHigh = 20, 100
	z.xfLow, z.xfHigh = 2, 3
	z.xfVelLow, z.xfVelHigh = 4, 5
	z.playLogic = 1
	z.reversed = 1
	z.start, z.stop = 100, 40000
	z.tune = 0.5
	z.keyTracking = 0.5
	z.gain = -6
	z.sampleRate = 48000
	z.loops = []loopFixture{{loopType: 2, start: 1000, end: 2000, crossfade: 0.25}}
	z.envelope = [7]float32{0.001, 0.02, 0.1, 0.3, 0.5, 0.8, 0.75}

	data := buildKontakt1(2, "Grand Piano", []string{"Soft", "Hard"}, []zoneFixture{z})

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", filepath.Join("/in", "Grand Piano.nki"), data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}
	src := sources[0]

	if src.Created.Unix() != fixtureTimestamp {
		t.Errorf("Created = %v, want unix %d", src.Created, fixtureTimestamp)
	}
	if len(src.Layers) != 2 {
		t.Fatalf("source has %d layers, want 2", len(src.Layers))
	}
	if src.Layers[0].Name != "Soft" || src.Layers[1].Name != "Hard" {
		t.Errorf("layer names = %q, %q, want Soft, Hard", src.Layers[0].Name, src.Layers[1].Name)
	}
	if len(src.Layers[0].Samples) != 0 {
		t.Errorf("first layer has %d samples, want 0", len(src.Layers[0].Samples))
	}
	if len(src.Layers[1].Samples) != 1 {
		t.Fatalf("second layer has %d samples, want 1", len(src.Layers[1].Samples))
	}

	s := src.Layers[1].Samples[0]
	if s.KeyRoot != 60 || s.KeyLow != 48 || s.KeyHigh != 72 {
		t.Errorf("key range = %d/%d/%d, want 60/48/72", s.KeyRoot, s.KeyLow, s.KeyHigh)
	}
	if s.VelocityLow != 20 || s.VelocityHigh != 100 {
		t.Errorf("velocity range = %d..%d, want 20..100", s.VelocityLow, s.VelocityHigh)
	}
	if s.NoteCrossfadeLow != 2 || s.NoteCrossfadeHigh != 3 {
		t.Errorf("note crossfades = %d/%d, want 2/3", s.NoteCrossfadeLow, s.NoteCrossfadeHigh)
	}
	if s.VelocityCrossfadeLow != 4 || s.VelocityCrossfadeHigh != 5 {
		t.Errorf("velocity crossfades = %d/%d, want 4/5", s.VelocityCrossfadeLow, s.VelocityCrossfadeHigh)
	}
	if s.PlayLogic != model.PlayLogicRoundRobin {
		t.Errorf("play logic = %v, want round robin", s.PlayLogic)
	}
	if !s.Reversed {
		t.Error("Reversed = false, want true")
	}
	if s.Start != 100 || s.Stop != 40000 {
		t.Errorf("play range = %d..%d, want 100..40000", s.Start, s.Stop)
	}
	if s.Tune != 0.5 {
		t.Errorf("Tune = %v, want 0.5", s.Tune)
	}
	if s.KeyTracking != 0.5 {
		t.Errorf("KeyTracking = %v, want 0.5", s.KeyTracking)
	}
	if s.Gain != -6 {
		t.Errorf("Gain = %v, want -6", s.Gain)
	}
	if s.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", s.SampleRate)
	}
	if len(s.Loops) != 1 {
		t.Fatalf("sample has %d loops, want 1", len(s.Loops))
	}
	loop := s.Loops[0]
	if loop.Type != model.LoopAlternating || loop.Start != 1000 || loop.End != 2000 || loop.Crossfade != 0.25 {
		t.Errorf("loop = %+v, want alternating 1000..2000 crossfade 0.25", loop)
	}
	env := s.AmplitudeEnvelope
	if env.Delay != float64(float32(0.001)) || env.Sustain != 0.75 {
		t.Errorf("envelope delay/sustain = %v/%v, want 0.001/0.75", env.Delay, env.Sustain)
	}

	wantPath := filepath.Join("/in", "Samples", "C4.wav")
	if s.SourcePath != wantPath {
		t.Errorf("SourcePath = %q, want %q", s.SourcePath, wantPath)
	}
	if s.Filename != "C4.wav" {
		t.Errorf("Filename = %q, want %q", s.Filename, "C4.wav")
	}
}

func TestDetectKontakt1Version1Defaults(t *testing.T) {
	data := buildKontakt1(1, "Clav", []string{"Default"}, []zoneFixture{defaultZone()})

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", "/in/Clav.nki", data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}

	s := sources[0].Layers[0].Samples[0]
	if s.KeyTracking != 1.0 {
		t.Errorf("KeyTracking = %v, want the 1.0 default", s.KeyTracking)
	}
	if s.AmplitudeEnvelope.IsSet() {
		t.Error("envelope is set, want unset for the version 1 record")
	}
}

func TestDetectKontakt2Header(t *testing.T) {
	data := buildKontakt2(binary.LittleEndian, "Dark Piano", "A moody instrument", []string{"Default"}, []zoneFixture{defaultZone()})

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", "/in/dark.nki", data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}
	if sources[0].Name != "Dark Piano" {
		t.Errorf("Name = %q, want %q", sources[0].Name, "Dark Piano")
	}
	if sources[0].Description != "A moody instrument" {
		t.Errorf("Description = %q, want %q", sources[0].Description, "A moody instrument")
	}
}

func TestDetectKontakt2MissingHeaderUsesFileStem(t *testing.T) {
	data := buildKontakt2(binary.LittleEndian, "", "", []string{"Default"}, []zoneFixture{defaultZone()})

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", filepath.Join("/in", "Dark Pad.nki"), data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}
	if sources[0].Name != "Dark Pad" {
		t.Errorf("Name = %q, want the file stem %q", sources[0].Name, "Dark Pad")
	}
}

func TestDetectMetadataFromPath(t *testing.T) {
	data := buildKontakt1(1, "", []string{"Default"}, []zoneFixture{defaultZone()})
	file := filepath.Join("/in", "Acme Sounds", "Dark Piano.nki")

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", file, data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}
	src := sources[0]

	if src.Name != "Dark Piano" {
		t.Errorf("Name = %q, want the file stem %q", src.Name, "Dark Piano")
	}
	if src.Creator != "Acme Sounds" {
		t.Errorf("Creator = %q, want %q", src.Creator, "Acme Sounds")
	}
	if src.Category != "Piano" {
		t.Errorf("Category = %q, want %q", src.Category, "Piano")
	}
	if len(src.Keywords) != 1 || src.Keywords[0] != "dark" {
		t.Errorf("Keywords = %v, want [dark]", src.Keywords)
	}
}

func TestDetectNextGenRejected(t *testing.T) {
	// The probe must win even though the magic number is unknown.
	data := append([]byte{0xAA, 0xBB, 0xCC, 0xDD}, make([]byte, 8)...)
	data = append(data, "hsin"...)
	data = append(data, make([]byte, 16)...)

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	if sources := d.Detect("/in", "/in/new.nki", data); sources != nil {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyNewerNotSupported)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyNewerNotSupported)
	}
}

func TestDetectMonolithRejected(t *testing.T) {
	data := append(append([]byte{}, magicBytesMonolith...), make([]byte, 32)...)

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	if sources := d.Detect("/in", "/in/mono.nki", data); sources != nil {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyMonolithUnsupported)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyMonolithUnsupported)
	}
}

func TestDetectUnknownFormat(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	rec := &eventRecorder{}
	d := newTestDetector(rec)

	_, err := d.decode("/in", "/in/odd.nki", data)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("decode error = %v, want %v", err, ErrUnknownFormat)
	}
	if !strings.Contains(err.Error(), "DEADBEEF") {
		t.Errorf("decode error %q does not contain the id DEADBEEF", err)
	}

	if sources := d.Detect("/in", "/in/odd.nki", data); sources != nil {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	events := rec.byKey(notify.KeyUnknownFormatID)
	if len(events) != 1 {
		t.Fatalf("events = %v, want one %s", rec.events, notify.KeyUnknownFormatID)
	}
	if !strings.Contains(events[0].Message, "DEADBEEF") {
		t.Errorf("event message %q does not contain the id DEADBEEF", events[0].Message)
	}
}

func TestDetectKontakt2ChunkAnomalyWarns(t *testing.T) {
	le := binary.ByteOrder(binary.LittleEndian)
	grps := chunkGroup("LIST", "grps", chunkData("grp ", newBuilder(le).vlqText("Default").bytes()))
	// Three stray bytes after the last zone chunk are not enough for
	// another header.
	zons := chunkGroup("LIST", "zons",
		chunkData("zone", defaultZone().encode(le, true)),
		[]byte{0xBA, 0xD1, 0x0B},
	)
	data := buildKontakt2Raw(le, chunkGroup("FORM", "NKI2", grps, zons))

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	sources := d.Detect("/in", "/in/odd.nki", data)
	if len(sources) != 1 {
		t.Fatalf("Detect returned %d sources, want 1; events: %v", len(sources), rec.events)
	}
	if len(rec.byKey(notify.KeyChunkAnomaly)) == 0 {
		t.Errorf("events = %v, want a %s warning", rec.events, notify.KeyChunkAnomaly)
	}
}

func TestDetectTruncatedFile(t *testing.T) {
	full := buildKontakt1(1, "Piano", []string{"Default"}, []zoneFixture{defaultZone()})
	data := full[:20]

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	if sources := d.Detect("/in", "/in/cut.nki", data); sources != nil {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyUnsupportedFile)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyUnsupportedFile)
	}
}

func TestDetectZeroZones(t *testing.T) {
	data := buildKontakt1(1, "Empty", []string{"Default"}, nil)

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	if sources := d.Detect("/in", "/in/empty.nki", data); len(sources) != 0 {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyNoLayersDetected)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyNoLayersDetected)
	}
}

func TestDetectGroupIndexOutOfRange(t *testing.T) {
	z := defaultZone()
	z.groupIndex = 5
	data := buildKontakt1(1, "Broken", []string{"Only"}, []zoneFixture{z})

	rec := &eventRecorder{}
	d := newTestDetector(rec)

	_, err := d.decode("/in", "/in/broken.nki", data)
	if !errors.Is(err, streams.ErrCorrupt) {
		t.Errorf("decode error = %v, want %v", err, streams.ErrCorrupt)
	}

	if sources := d.Detect("/in", "/in/broken.nki", data); sources != nil {
		t.Errorf("Detect returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyUnsupportedFile)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyUnsupportedFile)
	}
}

func TestDetectInvalidLoopType(t *testing.T) {
	z := defaultZone()
	z.loops = []loopFixture{{loopType: 3, start: 0, end: 100}}
	data := buildKontakt1(1, "Loops", []string{"Default"}, []zoneFixture{z})

	rec := &eventRecorder{}
	d := newTestDetector(rec)
	if _, err := d.decode("/in", "/in/loops.nki", data); !errors.Is(err, streams.ErrCorrupt) {
		t.Errorf("decode error = %v, want %v", err, streams.ErrCorrupt)
	}
}

func TestReadFileMissing(t *testing.T) {
	rec := &eventRecorder{}
	d := newTestDetector(rec)

	if sources := d.ReadFile("/nowhere", "/nowhere/gone.nki"); sources != nil {
		t.Errorf("ReadFile returned %d sources, want none", len(sources))
	}
	if len(rec.byKey(notify.KeyUnsupportedFile)) != 1 {
		t.Errorf("events = %v, want one %s", rec.events, notify.KeyUnsupportedFile)
	}
}
