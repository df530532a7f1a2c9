package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/redtide/ConvertWithMoss/internal/metadata"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// NKI2SFZ_DESTINATION_FOLDER.
const envPrefix = "NKI2SFZ"

// Settings holds all user configurable options of the converter.
type Settings struct {
	// SourceFolder is scanned recursively for instrument files.
	SourceFolder string `json:"source_folder" mapstructure:"source_folder"`

	// DestinationFolder receives the .sfz files and sample folders.
	DestinationFolder string `json:"destination_folder" mapstructure:"destination_folder"`

	// CreatorName is used when no known creator appears in the file path.
	CreatorName string `json:"creator_name" mapstructure:"creator_name"`

	// CreatorTags are creator names recognized in folder and file names.
	CreatorTags []string `json:"creator_tags" mapstructure:"creator_tags"`

	// CategoryTags maps a category to the name fragments that select it.
	CategoryTags map[string][]string `json:"category_tags" mapstructure:"category_tags"`

	// KeywordTags are collected into the instrument keywords when they
	// appear in the path.
	KeywordTags []string `json:"keyword_tags" mapstructure:"keyword_tags"`

	// AnalyzeOnly reads and reports the instruments without writing
	// anything.
	AnalyzeOnly bool `json:"analyze_only" mapstructure:"analyze_only"`

	// Verbose includes per sample progress messages.
	Verbose bool `json:"verbose" mapstructure:"verbose"`

	// MaxLogLines caps the rolling log window of the terminal UI.
	MaxLogLines int `json:"max_log_lines" mapstructure:"max_log_lines"`
}

// DefaultSettings returns settings with sensible defaults. The destination
// defaults to a "Converted" folder in the user's home directory.
func DefaultSettings() *Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Settings{
		DestinationFolder: filepath.Join(home, "Converted"),
		CategoryTags: map[string][]string{
			"Bass":       {"bass"},
			"Bell":       {"bell", "tubular"},
			"Brass":      {"brass", "trumpet", "trombone", "horn", "tuba"},
			"Drum":       {"drum", "kick", "snare", "tom", "kit", "percussion"},
			"Guitar":     {"guitar", "banjo", "mandolin"},
			"Keyboard":   {"keys", "clav", "harpsichord", "rhodes", "wurlitzer"},
			"Orchestral": {"orchestra", "ensemble", "symphonic"},
			"Organ":      {"organ", "hammond"},
			"Pad":        {"pad", "atmosphere", "texture"},
			"Piano":      {"piano", "grand", "upright"},
			"Strings":    {"strings", "violin", "viola", "cello", "contrabass", "harp"},
			"Synth":      {"synth", "lead", "moog", "analog"},
			"Vocal":      {"vocal", "voice", "choir", "vox"},
			"Winds":      {"flute", "clarinet", "oboe", "bassoon", "sax", "winds"},
		},
		KeywordTags: []string{"acoustic", "electric", "analog", "digital", "dark", "bright", "soft", "hard", "vintage", "modern"},
		MaxLogLines: 10,
	}
}

// DefaultPath is where settings are stored when no explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "nki2sfz", "settings.json")
}

// Load reads settings from the JSON file at path, layered over the
// defaults. Environment variables prefixed with NKI2SFZ_ override both. A
// missing file is not an error, it simply yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Register every key so environment-only overrides are seen by
	// Unmarshal as well.
	v.SetDefault("source_folder", settings.SourceFolder)
	v.SetDefault("destination_folder", settings.DestinationFolder)
	v.SetDefault("creator_name", settings.CreatorName)
	v.SetDefault("creator_tags", settings.CreatorTags)
	v.SetDefault("category_tags", settings.CategoryTags)
	v.SetDefault("keyword_tags", settings.KeywordTags)
	v.SetDefault("analyze_only", settings.AnalyzeOnly)
	v.SetDefault("verbose", settings.Verbose)
	v.SetDefault("max_log_lines", settings.MaxLogLines)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return settings, nil
}

// Save writes the settings as indented JSON, creating parent directories
// as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Vocabulary bundles the tag lists for the metadata detection.
func (s *Settings) Vocabulary() metadata.Vocabulary {
	return metadata.Vocabulary{
		Creators:   s.CreatorTags,
		Categories: s.CategoryTags,
		Keywords:   s.KeywordTags,
	}
}
