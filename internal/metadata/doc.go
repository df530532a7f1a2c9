// Package metadata derives instrument metadata from file locations.
//
// Sample libraries rarely store creator or category information inside the
// instrument files, but their folder layout usually encodes it: a file
// like "Acme Sounds/Keys/Grand Piano.nki" tells us the creator and the
// category. The detection functions match a configurable Vocabulary
// against the path parts of a source file, innermost name first, so the
// most specific folder wins.
package metadata
