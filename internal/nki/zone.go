package nki

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"

	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/streams"
)

// zone is one mapped sample as read from the file, before the group
// assignment is resolved.
type zone struct {
	groupIndex int
	path       string
	sample     *model.SampleMetadata
}

// readZone reads one zone record. extended selects the version 2 layout
// which adds key tracking and the amplitude envelope. groupCount bounds
// the group reference.
func readZone(r *bytes.Reader, order binary.ByteOrder, extended bool, enc encoding.Encoding, groupCount int) (*zone, error) {
	groupIndex, err := streams.ReadUint16(r, order)
	if err != nil {
		return nil, err
	}
	if int(groupIndex) >= groupCount {
		return nil, fmt.Errorf("zone references group %d of %d: %w", groupIndex, groupCount, streams.ErrCorrupt)
	}

	sample := model.NewSampleMetadata("")

	keys := make([]uint8, 9)
	for i := range keys {
		if keys[i], err = streams.ReadUint8(r); err != nil {
			return nil, err
		}
	}
	sample.KeyRoot = int(keys[0])
	sample.KeyLow = int(keys[1])
	sample.KeyHigh = int(keys[2])
	sample.VelocityLow = int(keys[3])
	sample.VelocityHigh = int(keys[4])
	sample.NoteCrossfadeLow = int(keys[5])
	sample.NoteCrossfadeHigh = int(keys[6])
	sample.VelocityCrossfadeLow = int(keys[7])
	sample.VelocityCrossfadeHigh = int(keys[8])

	playLogic, err := streams.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	// Only the round robin logic is distinguished, every other value
	// plays as one-shot.
	if playLogic == 1 {
		sample.PlayLogic = model.PlayLogicRoundRobin
	}

	reversed, err := streams.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	sample.Reversed = reversed != 0

	start, err := streams.ReadInt32(r, order)
	if err != nil {
		return nil, err
	}
	stop, err := streams.ReadInt32(r, order)
	if err != nil {
		return nil, err
	}
	sample.Start = int(start)
	sample.Stop = int(stop)

	tune, err := streams.ReadFloat32(r, order)
	if err != nil {
		return nil, err
	}
	sample.Tune = float64(tune)

	if extended {
		tracking, err := streams.ReadFloat32(r, order)
		if err != nil {
			return nil, err
		}
		sample.KeyTracking = float64(tracking)
	}

	gain, err := streams.ReadFloat32(r, order)
	if err != nil {
		return nil, err
	}
	sample.Gain = float64(gain)

	sampleRate, err := streams.ReadUint32(r, order)
	if err != nil {
		return nil, err
	}
	if sampleRate > 0 {
		sample.SampleRate = int(sampleRate)
	}

	loopCount, err := streams.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(loopCount); i++ {
		loop, err := readLoop(r, order)
		if err != nil {
			return nil, fmt.Errorf("loop %d: %w", i, err)
		}
		sample.Loops = append(sample.Loops, loop)
	}

	path, err := readVLQText(r, enc)
	if err != nil {
		return nil, fmt.Errorf("sample reference: %w", err)
	}

	if extended {
		env, err := readEnvelope(r, order)
		if err != nil {
			return nil, err
		}
		sample.AmplitudeEnvelope = env
	}

	return &zone{groupIndex: int(groupIndex), path: path, sample: sample}, nil
}

// readLoop reads one loop section.
func readLoop(r *bytes.Reader, order binary.ByteOrder) (model.SampleLoop, error) {
	var loop model.SampleLoop

	loopType, err := streams.ReadUint8(r)
	if err != nil {
		return loop, err
	}
	switch loopType {
	case 0:
		loop.Type = model.LoopForward
	case 1:
		loop.Type = model.LoopBackwards
	case 2:
		loop.Type = model.LoopAlternating
	default:
		return loop, fmt.Errorf("loop type %d: %w", loopType, streams.ErrCorrupt)
	}

	start, err := streams.ReadUint32(r, order)
	if err != nil {
		return loop, err
	}
	end, err := streams.ReadUint32(r, order)
	if err != nil {
		return loop, err
	}
	crossfade, err := streams.ReadFloat32(r, order)
	if err != nil {
		return loop, err
	}

	loop.Start = int(start)
	loop.End = int(end)
	loop.Crossfade = float64(crossfade)
	return loop, nil
}

// readEnvelope reads the seven stage amplitude envelope of the version 2
// zone record.
func readEnvelope(r *bytes.Reader, order binary.ByteOrder) (model.Envelope, error) {
	values := make([]float64, 7)
	for i := range values {
		v, err := streams.ReadFloat32(r, order)
		if err != nil {
			return model.Envelope{}, fmt.Errorf("envelope stage %d: %w", i, err)
		}
		values[i] = float64(v)
	}
	return model.Envelope{
		Delay:   values[0],
		Attack:  values[1],
		Hold:    values[2],
		Decay:   values[3],
		Release: values[4],
		Start:   values[5],
		Sustain: values[6],
	}, nil
}

// readVLQText reads a 7-bit length prefixed text in the given encoding.
// The length is validated against the remaining input before allocating.
func readVLQText(r *bytes.Reader, enc encoding.Encoding) (string, error) {
	length, _, err := streams.Read7BitNumber(r)
	if err != nil {
		return "", err
	}
	if int64(length) > int64(r.Len()) {
		return "", fmt.Errorf("text length %d exceeds remaining %d bytes: %w", length, r.Len(), streams.ErrCorrupt)
	}
	return streams.ReadFixedText(r, int(length), enc)
}
