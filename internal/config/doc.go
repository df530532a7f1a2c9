// Package config provides configuration management for the converter.
//
// This package handles:
//   - Loading settings from JSON files with environment overrides
//   - Default configuration values
//   - Conversion to the metadata Vocabulary used by detection
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Writes to ~/Converted
//	// Ships a built-in category and keyword vocabulary
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.json")
//	if err != nil {
//	    // A malformed file is an error, a missing one yields defaults
//	}
//
// Every key can also be set through the environment with the NKI2SFZ_
// prefix, for example NKI2SFZ_DESTINATION_FOLDER=/tmp/out.
//
// # Saving Settings
//
//	settings.DestinationFolder = "/music/converted"
//	err := settings.Save(config.DefaultPath())
package config
