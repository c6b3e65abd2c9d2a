// Package model defines the data structures for boundary resolution and editing.
package model

import "strings"

// Path represents a file system path.
type Path string

// Document is an immutable, 1-indexed view of a source file's lines. The
// resolver and indexer only ever read it; callers own mutation of the
// underlying text.
type Document struct {
	lines []string
}

// NewDocument builds a Document from raw file content. Line separators are
// normalised so that CRLF input resolves to the same ranges as LF input.
func NewDocument(content string) Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	return Document{lines: strings.Split(content, "\n")}
}

// NewDocumentFromLines builds a Document from an already split line slice.
func NewDocumentFromLines(lines []string) Document {
	copied := make([]string, len(lines))
	copy(copied, lines)

	return Document{lines: copied}
}

// LineCount returns the number of lines. An empty document counts as a
// single empty line so that position clamping always has a valid target.
func (d Document) LineCount() int {
	if len(d.lines) == 0 {
		return 1
	}

	return len(d.lines)
}

// Line returns the text of the 1-based line n, or the empty string when n is
// out of range.
func (d Document) Line(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}

	return d.lines[n-1]
}

// Lines returns the 1-based inclusive slice [start, end] of line texts.
func (d Document) Lines(start, end int) []string {
	if start < 1 {
		start = 1
	}

	if end > len(d.lines) {
		end = len(d.lines)
	}

	if start > end {
		return nil
	}

	out := make([]string, end-start+1)
	copy(out, d.lines[start-1:end])

	return out
}

// Clamp forces a 1-based line number into the valid range [1, LineCount].
func (d Document) Clamp(line int) int {
	if line < 1 {
		return 1
	}

	if count := d.LineCount(); line > count {
		return count
	}

	return line
}
