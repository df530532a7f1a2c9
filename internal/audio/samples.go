package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"

	ioutils "github.com/redtide/ConvertWithMoss/internal/io"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/notify"
)

// sniffLen is how many bytes filetype needs to recognize every signature
// it knows.
const sniffLen = 261

// Store copies the audio files referenced by a multisample source into the
// sample folder next to the written instrument description.
type Store struct {
	onEvent notify.Func
}

// NewStore creates a sample store reporting through onEvent.
func NewStore(onEvent notify.Func) *Store {
	return &Store{onEvent: onEvent}
}

// Store copies every referenced sample of source into sampleFolder. A
// referenced file that does not exist or does not look like audio is
// reported and skipped so one broken reference does not abort the whole
// instrument. Failing to copy an existing file is an error.
func (s *Store) Store(sampleFolder string, source *model.MultisampleSource) error {
	for _, layer := range source.Layers {
		for _, sample := range layer.Samples {
			if sample.SourcePath == "" || sample.Filename == "" {
				continue
			}
			if !ioutils.Exists(sample.SourcePath) {
				s.onEvent.Emit(notify.Warning(notify.KeySampleMissing, sample.SourcePath))
				continue
			}
			if !isAudioFile(sample.SourcePath) {
				s.onEvent.Emit(notify.Warning(notify.KeySampleNoAudio, sample.SourcePath))
				continue
			}
			dst := filepath.Join(sampleFolder, sample.Filename)
			if err := ioutils.CopyFile(sample.SourcePath, dst); err != nil {
				return fmt.Errorf("copying sample %s: %w", sample.Filename, err)
			}
			s.onEvent.Emit(notify.Verbose(notify.KeySampleCopied, sample.Filename))
		}
	}
	return nil
}

// isAudioFile sniffs the first bytes of the file for a known audio
// signature.
func isAudioFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if n == 0 && err != nil {
		return false
	}
	return filetype.IsAudio(head[:n])
}
