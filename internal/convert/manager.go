package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/redtide/ConvertWithMoss/internal/config"
	ioutils "github.com/redtide/ConvertWithMoss/internal/io"
	"github.com/redtide/ConvertWithMoss/internal/model"
	"github.com/redtide/ConvertWithMoss/internal/nki"
	"github.com/redtide/ConvertWithMoss/internal/notify"
	"github.com/redtide/ConvertWithMoss/internal/sfz"
	"golang.org/x/sync/errgroup"
)

// instrumentExtension matches the files picked up by the folder scan.
const instrumentExtension = ".nki"

// Manager coordinates the conversion of a folder of instrument files.
type Manager struct {
	settings *config.Settings
	detector *nki.Detector
	creator  *sfz.Creator

	files      []string
	totalFiles int32
	converted  int32
	failed     int32

	onEvent notify.Func
}

// NewManager creates a new conversion Manager.
func NewManager(settings *config.Settings, onEvent notify.Func) *Manager {
	return &Manager{
		settings: settings,
		detector: nki.NewDetector(settings.Vocabulary(), settings.CreatorName, onEvent),
		creator:  sfz.NewCreator(onEvent),
		onEvent:  onEvent,
	}
}

// Initialize scans the source folder recursively for instrument files.
// Hidden folders are skipped. The extension check ignores case.
func (m *Manager) Initialize(ctx context.Context) error {
	folder := m.settings.SourceFolder
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("source folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source folder %s is not a directory", folder)
	}

	m.onEvent.Emit(notify.Info(notify.KeyScanStart, folder))

	var files []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != folder {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), instrumentExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.files = files
	m.totalFiles = int32(len(files))

	if len(files) == 0 {
		m.onEvent.Emit(notify.Warning(notify.KeyScanEmpty, folder))
		return nil
	}
	m.onEvent.Emit(notify.Info(notify.KeyScanDone, len(files), folder))
	return nil
}

// Start converts all files found by Initialize. Detection runs ahead of
// creation: one goroutine reads and decodes files while a second one
// writes out each detected instrument, handed over as soon as it is read.
// Single file failures are counted and reported but do not stop the run.
func (m *Manager) Start(ctx context.Context) error {
	if !m.settings.AnalyzeOnly {
		if err := ioutils.EnsureDir(m.settings.DestinationFolder); err != nil {
			return fmt.Errorf("destination folder: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *model.MultisampleSource)

	g.Go(func() error {
		defer close(results)
		for _, file := range m.files {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.onEvent.Emit(notify.Verbose(notify.KeyDetecting, m.displayName(file)))

			sources := m.detector.ReadFile(m.settings.SourceFolder, file)
			if len(sources) == 0 {
				atomic.AddInt32(&m.failed, 1)
				continue
			}
			for _, source := range sources {
				select {
				case results <- source:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		for source := range results {
			m.store(source)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			m.onEvent.Emit(notify.Warning(notify.KeyCancelled))
		}
		return err
	}

	m.onEvent.Emit(notify.Success(notify.KeyConvertDone,
		atomic.LoadInt32(&m.converted), atomic.LoadInt32(&m.failed)))
	return nil
}

// GetProgress returns the current conversion counts.
func (m *Manager) GetProgress() (converted, failed, total int32) {
	return atomic.LoadInt32(&m.converted), atomic.LoadInt32(&m.failed), m.totalFiles
}

// GetFiles returns the instrument files found by Initialize.
func (m *Manager) GetFiles() []string {
	return m.files
}

// store writes one detected instrument, or only reports it in analyze
// mode.
func (m *Manager) store(source *model.MultisampleSource) {
	if m.settings.AnalyzeOnly {
		zones := 0
		for _, layer := range source.Layers {
			zones += len(layer.Samples)
		}
		m.onEvent.Emit(notify.Info(notify.KeyAnalyzed, source.Name, len(source.Layers), zones))
		atomic.AddInt32(&m.converted, 1)
		return
	}

	if err := m.creator.Create(m.settings.DestinationFolder, source); err != nil {
		// An existing destination file was already reported by the
		// creator.
		if !errors.Is(err, sfz.ErrDestinationExists) {
			m.onEvent.Emit(notify.Error(notify.KeyStoreFailed, source.Name, err))
		}
		atomic.AddInt32(&m.failed, 1)
		return
	}
	atomic.AddInt32(&m.converted, 1)
}

// displayName shortens file for progress messages.
func (m *Manager) displayName(file string) string {
	if rel, err := filepath.Rel(m.settings.SourceFolder, file); err == nil {
		return rel
	}
	return file
}
