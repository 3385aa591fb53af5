// Package tailer follows growing log files.
//
// # Overview
//
// Each tailed file gets one goroutine running Follow. It opens the file,
// seeks to the end and from then on turns every appended byte into whole
// lines, classifies them by status code and produces bus messages for the
// consumer. Pre-existing content is never read; the program shows what
// happens from startup onward.
//
// # Line Assembly
//
// Reads come back in arbitrary chunks, so a partial line at the end of a
// read is held back until its terminating newline arrives. Lines are
// delivered without the newline and are forced to valid UTF-8, replacing
// invalid sequences with the Unicode replacement character.
//
// # Rotation
//
// When a read hits EOF the tailer stats the path and compares it against
// the open handle with os.SameFile. A mismatch (or a stat failure) means
// the file was rotated: the old handle is closed and the path reopened
// from the start, so lines written to the new file are not lost. The
// unterminated tail of the old file, if any, is discarded.
//
// Reopening only replaces the handle when it succeeds. If the new file
// does not exist yet the tailer keeps polling with the old handle until
// it does.
//
// # Failure Modes
//
// A file that cannot be opened at startup logs a warning and stops that
// tailer; the other files keep going. Read errors other than EOF stop the
// tailer as well. A closed bus is the shutdown signal: the first failed
// Send makes Follow return.
package tailer
