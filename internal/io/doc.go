// Package ioutils provides file system utilities for the converter.
//
// This package contains functions for:
//   - File copying and writing
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and existence checks
//
// # File Operations
//
//	// Copy a sample next to the written instrument
//	err := ioutils.CopyFile("/in/C4.wav", "/out/Grand Piano Samples/C4.wav")
//
//	// Write a generated description file
//	err := ioutils.WriteFile("/out/Grand Piano.sfz", []byte(text))
//
//	// Ensure the sample folder exists
//	err := ioutils.EnsureDir("/out/Grand Piano Samples")
//
// # Filename Sanitization
//
// Instrument names come out of binary files and may contain anything, so
// run them through SanitizeFileName before building paths from them:
//
//	safe := ioutils.SanitizeFileName("Piano: Soft/Hard") // Returns "Piano_ Soft_Hard"
package ioutils
