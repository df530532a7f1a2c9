// Package audio places the sample files of a converted instrument.
//
// The Store copies every referenced sample into the instrument's sample
// folder:
//
//	store := audio.NewStore(onEvent)
//	err := store.Store(sampleFolder, source)
//
// Files are sniffed before copying; a referenced file whose content is
// not a known audio format is skipped with a warning instead of being
// copied into the output. A missing source file is likewise a warning,
// only an actual copy failure aborts the instrument.
package audio
