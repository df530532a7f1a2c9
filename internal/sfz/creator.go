package sfz

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/redtide/ConvertWithMoss/internal/audio"
	ioutils "github.com/redtide/ConvertWithMoss/internal/io"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/notify"
)

// folderPostfix names the sample folder next to the description file.
const folderPostfix = " Samples"

// commentPrefix starts every metadata comment line.
const commentPrefix = "//// "

// sfzHeader tops every written file.
const sfzHeader = "/////////////////////////////////////////////////////////////////////////////\n////\n"

// ErrDestinationExists is returned when the .sfz file is already present.
// Nothing is overwritten in that case.
var ErrDestinationExists = errors.New("destination file already exists")

// loopTypeNames maps the model loop types to their opcode values.
var loopTypeNames = map[model.LoopType]string{
	model.LoopForward:     "forward",
	model.LoopBackwards:   "backward",
	model.LoopAlternating: "alternate",
}

// Creator writes a multisample source as an .sfz description file with the
// samples placed in a folder of the same name.
type Creator struct {
	samples *audio.Store
	onEvent notify.Func
}

// NewCreator creates an sfz creator reporting through onEvent.
func NewCreator(onEvent notify.Func) *Creator {
	return &Creator{
		samples: audio.NewStore(onEvent),
		onEvent: onEvent,
	}
}

// Create writes source into destinationFolder: the .sfz file named after
// the sanitized instrument name and a "<name> Samples" folder with the
// referenced audio files. An existing description file aborts the
// instrument with ErrDestinationExists so nothing gets overwritten.
func (c *Creator) Create(destinationFolder string, source *model.MultisampleSource) error {
	sampleName := ioutils.SanitizeFileName(source.Name)
	multiFile := filepath.Join(destinationFolder, sampleName+".sfz")
	if ioutils.Exists(multiFile) {
		c.onEvent.Emit(notify.Error(notify.KeyAlreadyExists, multiFile))
		return fmt.Errorf("%s: %w", multiFile, ErrDestinationExists)
	}

	folderName := sampleName + folderPostfix
	text := createMetadata(folderName, source)

	c.onEvent.Emit(notify.Info(notify.KeyStoring, multiFile))
	if err := ioutils.WriteFile(multiFile, []byte(text)); err != nil {
		return fmt.Errorf("writing %s: %w", multiFile, err)
	}

	sampleFolder := filepath.Join(destinationFolder, folderName)
	if err := ioutils.EnsureDir(sampleFolder); err != nil {
		return fmt.Errorf("creating sample folder: %w", err)
	}
	if err := c.samples.Store(sampleFolder, source); err != nil {
		return err
	}

	c.onEvent.Emit(notify.Success(notify.KeyStoreDone, source.Name))
	return nil
}

// createMetadata renders the complete .sfz text for source. folderName is
// the sample folder written into the sample opcodes.
func createMetadata(folderName string, source *model.MultisampleSource) string {
	sb := &strings.Builder{}
	sb.WriteString(sfzHeader)

	if source.Creator != "" {
		sb.WriteString("//// Creator : " + source.Creator + "\n")
	}
	if source.Category != "" {
		sb.WriteString("//// Category: " + source.Category + "\n")
	}
	if source.Description != "" {
		sb.WriteString(commentPrefix + strings.ReplaceAll(source.Description, "\n", "\n"+commentPrefix) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("<" + headerGlobal + ">\n")
	if source.Name != "" {
		sb.WriteString(opGlobalLabel + "=" + source.Name + "\n")
	}

	for _, layer := range source.Layers {
		if len(layer.Samples) == 0 {
			continue
		}

		// The sequence length is the number of round robin samples in the
		// layer.
		sequence := 0
		for _, sample := range layer.Samples {
			if sample.PlayLogic == model.PlayLogicRoundRobin {
				sequence++
			}
		}

		sb.WriteString("\n<" + headerGroup + ">\n")
		if layer.Name != "" {
			sb.WriteString(opGroupLabel + "=" + layer.Name + "\n")
		}
		if sequence > 0 {
			sb.WriteString(opSeqLength + "=" + strconv.Itoa(sequence) + "\n")
		}

		sequenceNumber := 1
		for _, sample := range layer.Samples {
			writeRegion(sb, folderName, sample, sequenceNumber)
			if sample.PlayLogic == model.PlayLogicRoundRobin {
				sequenceNumber++
			}
		}
	}

	return sb.String()
}

// writeRegion renders one <region> block.
func writeRegion(sb *strings.Builder, folderName string, info *model.SampleMetadata, sequenceNumber int) {
	sb.WriteString("\n<" + headerRegion + ">\n")

	if info.Filename != "" {
		// Sample paths use backslashes, the historic separator of the
		// format.
		sb.WriteString(opSample + "=" + folderName + "\\" + info.Filename + "\n")
	}
	if info.Reversed {
		sb.WriteString(opDirection + "=reverse\n")
	}
	if info.PlayLogic == model.PlayLogicRoundRobin {
		sb.WriteString(opSeqPosition + "=" + strconv.Itoa(sequenceNumber) + "\n")
	}

	writeKeys(sb, info)
	writeVelocities(sb, info)
	writePlayRange(sb, info)
	writePitch(sb, info)
	writeVolume(sb, info)
	writeLoops(sb, info)
}

// writeKeys renders the key range with its crossfades.
func writeKeys(sb *strings.Builder, info *model.SampleMetadata) {
	keyRoot, keyLow, keyHigh := info.KeyRoot, info.KeyLow, info.KeyHigh

	if keyRoot == keyLow && keyLow == keyHigh {
		sb.WriteString(opKey + "=" + strconv.Itoa(keyRoot) + "\n")
	} else {
		sb.WriteString(opPitchKeycenter + "=" + strconv.Itoa(keyRoot) + "\n")
		sb.WriteString(opLoKey + "=" + strconv.Itoa(check(keyLow, 0)))
		sb.WriteString(" " + opHiKey + "=" + strconv.Itoa(check(keyHigh, 127)) + "\n")
	}

	if xf := info.NoteCrossfadeLow; xf > 0 {
		sb.WriteString(opXfInLoKey + "=" + strconv.Itoa(max(0, keyLow-xf)))
		sb.WriteString(" " + opXfInHiKey + "=" + strconv.Itoa(keyLow) + "\n")
	}
	if xf := info.NoteCrossfadeHigh; xf > 0 {
		sb.WriteString(opXfOutLoKey + "=" + strconv.Itoa(keyHigh))
		sb.WriteString(" " + opXfOutHiKey + "=" + strconv.Itoa(min(127, keyHigh+xf)) + "\n")
	}
}

// writeVelocities renders the velocity range with its crossfades. The full
// range 1..127 stays implicit.
func writeVelocities(sb *strings.Builder, info *model.SampleMetadata) {
	velLow, velHigh := info.VelocityLow, info.VelocityHigh

	if velLow > 1 {
		sb.WriteString(opLoVel + "=" + strconv.Itoa(velLow))
		if velHigh == 127 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
	if velHigh > 0 && velHigh < 127 {
		sb.WriteString(opHiVel + "=" + strconv.Itoa(velHigh) + "\n")
	}

	if xf := info.VelocityCrossfadeLow; xf > 0 {
		sb.WriteString(opXfInLoVel + "=" + strconv.Itoa(max(0, velLow-xf)))
		sb.WriteString(" " + opXfInHiVel + "=" + strconv.Itoa(velLow) + "\n")
	}
	if xf := info.VelocityCrossfadeHigh; xf > 0 {
		sb.WriteString(opXfOutLoVel + "=" + strconv.Itoa(velHigh))
		sb.WriteString(" " + opXfOutHiVel + "=" + strconv.Itoa(min(127, velHigh+xf)) + "\n")
	}
}

// writePlayRange renders the played sample frame range.
func writePlayRange(sb *strings.Builder, info *model.SampleMetadata) {
	if info.Start >= 0 {
		sb.WriteString(opOffset + "=" + strconv.Itoa(info.Start) + " ")
	}
	if info.Stop >= 0 {
		sb.WriteString(opEnd + "=" + strconv.Itoa(info.Stop) + "\n")
	}
}

// writePitch renders tuning and key tracking.
func writePitch(sb *strings.Builder, info *model.SampleMetadata) {
	if info.Tune != 0 {
		sb.WriteString(opTune + "=" + strconv.FormatInt(roundHalfUp(info.Tune*100), 10) + "\n")
	}
	if tracking := int(roundHalfUp(info.KeyTracking * 100)); tracking != 100 {
		sb.WriteString(opPitchKeytrack + "=" + strconv.Itoa(tracking) + "\n")
	}
}

// writeVolume renders gain and the amplitude envelope.
func writeVolume(sb *strings.Builder, info *model.SampleMetadata) {
	if info.Gain != 0 {
		sb.WriteString(opVolume + "=" + formatFloat(info.Gain) + "\n")
	}

	env := info.AmplitudeEnvelope
	eb := &strings.Builder{}
	addEnvelopeOpcode(eb, opAmpegDelay, env.Delay)
	addEnvelopeOpcode(eb, opAmpegAttack, env.Attack)
	addEnvelopeOpcode(eb, opAmpegHold, env.Hold)
	addEnvelopeOpcode(eb, opAmpegDecay, env.Decay)
	addEnvelopeOpcode(eb, opAmpegRelease, env.Release)
	addEnvelopeOpcode(eb, opAmpegStart, env.Start*100)
	addEnvelopeOpcode(eb, opAmpegSustain, env.Sustain*100)
	if eb.Len() > 0 {
		sb.WriteString(eb.String() + "\n")
	}
}

// addEnvelopeOpcode appends one envelope opcode, space separated from the
// previous one. Negative values mark unset stages and are skipped, the
// rest is clamped to the 0..100 opcode range.
func addEnvelopeOpcode(eb *strings.Builder, opcode string, value float64) {
	if value < 0 {
		return
	}
	if eb.Len() > 0 {
		eb.WriteString(" ")
	}
	eb.WriteString(opcode + "=" + formatFloat(clamp(value, 0, 100)))
}

// writeLoops renders the loop settings of the region.
func writeLoops(sb *strings.Builder, info *model.SampleMetadata) {
	if len(info.Loops) == 0 {
		sb.WriteString(opLoopMode + "=no_loop ")
		return
	}

	loop := info.Loops[0]
	sb.WriteString(opLoopMode + "=loop_continuous ")
	if name := loopTypeNames[loop.Type]; name != "forward" {
		sb.WriteString(opLoopType + "=" + name + " ")
	}
	sb.WriteString(opLoopStart + "=" + strconv.Itoa(loop.Start))
	sb.WriteString(" " + opLoopEnd + "=" + strconv.Itoa(loop.End))

	if loop.Crossfade > 0 {
		// Calculate the crossfade in seconds from the fraction of the
		// loop length.
		loopLength := loop.Start - loop.End
		if loopLength > 0 {
			seconds := loop.Crossfade * (float64(loopLength) / float64(info.SampleRate))
			sb.WriteString(" " + opLoopCrossfade + "=" + strconv.FormatInt(roundHalfUp(seconds), 10))
		}
	}
	sb.WriteString("\n")
}

// check substitutes def for unset values.
func check(value, def int) int {
	if value < 0 {
		return def
	}
	return value
}

// roundHalfUp rounds with halves toward positive infinity.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp(v, low, high float64) float64 {
	return math.Min(high, math.Max(low, v))
}
