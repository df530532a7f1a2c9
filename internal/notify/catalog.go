package notify

// Event keys used by the conversion pipeline.
const (
	KeyScanStart = "scan.start"
	KeyScanDone  = "scan.done"
	KeyScanEmpty = "scan.empty"

	KeyDetecting           = "detect.file"
	KeyNewerNotSupported   = "detect.newer_not_supported"
	KeyMonolithUnsupported = "detect.monolith_not_supported"
	KeyUnknownFormatID     = "detect.unknown_format_id"
	KeyUnsupportedFile     = "detect.unsupported_file"
	KeyNoLayersDetected    = "detect.no_layers"
	KeyChunkAnomaly        = "detect.chunk_anomaly"
	KeyAnalyzed            = "detect.analyzed"

	KeyStoring       = "store.writing"
	KeyStoreDone     = "store.done"
	KeyStoreFailed   = "store.failed"
	KeyAlreadyExists = "store.already_exists"
	KeySampleMissing = "store.sample_missing"
	KeySampleNoAudio = "store.sample_not_audio"
	KeySampleCopied  = "store.sample_copied"

	KeyConvertDone = "convert.done"
	KeyCancelled   = "convert.cancelled"
)

// catalog maps event keys to their message templates.
var catalog = map[string]string{
	KeyScanStart: "Scanning %s",
	KeyScanDone:  "Found %d instrument files in %s",
	KeyScanEmpty: "No instrument files found in %s",

	KeyDetecting:           "Reading %s",
	KeyNewerNotSupported:   "%s uses the 4.2.2+ container which is not supported",
	KeyMonolithUnsupported: "%s is a monolith container which is not supported",
	KeyUnknownFormatID:     "%s: %v",
	KeyUnsupportedFile:     "Could not read %s: %v",
	KeyNoLayersDetected:    "No layers detected in %s",
	KeyChunkAnomaly:        "%s: %s",
	KeyAnalyzed:            "%s: %d layers, %d zones",

	KeyStoring:       "Writing %s",
	KeyStoreDone:     "Converted %s",
	KeyStoreFailed:   "Could not store %s: %v",
	KeyAlreadyExists: "%s already exists, skipping",
	KeySampleMissing: "Referenced sample %s does not exist",
	KeySampleNoAudio: "%s does not look like an audio file",
	KeySampleCopied:  "Copied %s",

	KeyConvertDone: "Done: %d converted, %d failed",
	KeyCancelled:   "Cancelled",
}
