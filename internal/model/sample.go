package model

import "time"

// PlayLogic describes how overlapping samples in a layer are chosen during
// playback.
type PlayLogic int

const (
	// PlayLogicOneShot plays the sample whenever its key and velocity
	// range match.
	PlayLogicOneShot PlayLogic = iota

	// PlayLogicRoundRobin alternates between the matching samples of the
	// layer.
	PlayLogicRoundRobin
)

// LoopType is the playback direction of a sample loop.
type LoopType int

const (
	LoopForward LoopType = iota
	LoopBackwards
	LoopAlternating
)

// SampleLoop is one loop section inside a sample.
//
// Start and End are sample frame positions. Crossfade is the overlap
// between loop end and loop start in the range [0..1] relative to the loop
// length.
type SampleLoop struct {
	Type      LoopType
	Start     int
	End       int
	Crossfade float64
}

// Envelope is a DAHDSR amplitude envelope. Times are seconds, Start and
// Sustain are levels in the range [0..1]. A value of -1 marks a stage the
// source format did not provide.
type Envelope struct {
	Delay   float64
	Attack  float64
	Hold    float64
	Decay   float64
	Release float64
	Start   float64
	Sustain float64
}

// UnsetEnvelope returns an envelope with every stage marked as absent.
func UnsetEnvelope() Envelope {
	return Envelope{Delay: -1, Attack: -1, Hold: -1, Decay: -1, Release: -1, Start: -1, Sustain: -1}
}

// IsSet reports whether at least one stage carries a value.
func (e Envelope) IsSet() bool {
	return e != UnsetEnvelope()
}

// SampleMetadata describes one mapped sample of a multisample source.
// Integer fields use -1 for "not set"; the emitters substitute their
// format defaults.
//
// The zero value is not useful, use NewSampleMetadata.
type SampleMetadata struct {
	// Filename is the bare file name the sample will have next to the
	// written instrument description.
	Filename string

	// SourcePath is the absolute location the audio data is copied from.
	// Empty when the referenced file could not be resolved.
	SourcePath string

	KeyRoot int
	KeyLow  int
	KeyHigh int

	// NoteCrossfadeLow and NoteCrossfadeHigh widen the key range by a fade
	// of that many semitones on the respective side.
	NoteCrossfadeLow  int
	NoteCrossfadeHigh int

	VelocityLow  int
	VelocityHigh int

	// VelocityCrossfadeLow and VelocityCrossfadeHigh are fades in velocity
	// steps, matching the note crossfades.
	VelocityCrossfadeLow  int
	VelocityCrossfadeHigh int

	PlayLogic PlayLogic

	// Reversed plays the sample back to front.
	Reversed bool

	// Start and Stop are the played sample frame range, -1 when the whole
	// file is used.
	Start int
	Stop  int

	// Tune is the pitch offset in semitones. Fractions are allowed.
	Tune float64

	// KeyTracking scales how far pitch follows the played key: 1 is normal
	// tracking, 0 plays every key at the root pitch.
	KeyTracking float64

	// Gain is the volume offset in decibels.
	Gain float64

	// SampleRate is the frame rate of the audio file.
	SampleRate int

	Loops []SampleLoop

	AmplitudeEnvelope Envelope
}

// NewSampleMetadata creates sample metadata with every range and position
// unset and neutral tuning.
func NewSampleMetadata(filename string) *SampleMetadata {
	return &SampleMetadata{
		Filename:          filename,
		KeyRoot:           -1,
		KeyLow:            -1,
		KeyHigh:           -1,
		VelocityLow:       -1,
		VelocityHigh:      -1,
		Start:             -1,
		Stop:              -1,
		KeyTracking:       1.0,
		SampleRate:        44100,
		AmplitudeEnvelope: UnsetEnvelope(),
	}
}

// MultisampleSource is the format independent description of one sampled
// instrument: its identifying metadata and the velocity layers with their
// mapped samples.
type MultisampleSource struct {
	// Name of the instrument, used for the output file name.
	Name string

	// SourceFile is the file the instrument was read from.
	SourceFile string

	// PathParts are the file stem and folder names between the source file
	// and the scanned root, innermost first. They feed metadata detection.
	PathParts []string

	Creator     string
	Category    string
	Keywords    []string
	Description string

	// Created is the creation timestamp stored in the source file, zero
	// when the format does not carry one.
	Created time.Time

	Layers []*VelocityLayer
}

// VelocityLayer groups the samples that sound together for one velocity
// range or articulation.
type VelocityLayer struct {
	Name    string
	Samples []*SampleMetadata
}

// NewMultisampleSource creates a source with the given identity and no
// layers.
func NewMultisampleSource(name, sourceFile string, pathParts []string) *MultisampleSource {
	return &MultisampleSource{
		Name:       name,
		SourceFile: sourceFile,
		PathParts:  pathParts,
	}
}
