// Package sfz writes multisample sources as SFZ instruments.
//
// An instrument becomes two artifacts in the destination folder: a text
// file "<name>.sfz" describing the mapping and a "<name> Samples" folder
// holding the referenced audio files. The text format is the plain opcode
// format played by sforzando and other SFZ players: a <global> section
// carrying the instrument label, one <group> per velocity layer and one
// <region> per sample with key and velocity ranges, crossfades, pitch,
// volume envelope and loop settings.
//
// Unset metadata stays out of the file. A sample covering the full
// velocity range gets no lovel/hivel opcodes at all, a region whose key
// range collapses to the root note is written as a single key opcode, and
// envelope stages below zero are treated as not set.
package sfz
