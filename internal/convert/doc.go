// Package convert drives whole folder conversions.
//
// The Manager ties the pieces together: it scans the source folder for
// instrument files, runs the format detector on each one and hands the
// detected instruments to the sfz creator. Detection and creation run
// concurrently, progress is reported through notify events and exposed
// as counters so a frontend can poll it. A file that cannot be read is
// counted as failed and the run continues with the next one.
package convert
