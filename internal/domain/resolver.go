package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	m "defscope.dev/pkg/defscope/internal/model"
)

// NotFound is a normal outcome, not an exceptional one: callers must leave
// the document untouched when they see it. It is a typed error rather than an
// empty Range so "nothing to replace" can never be mistaken for "replace with
// nothing".
var (
	// ErrNoEnclosingFunction signals that no function body contains the
	// requested line.
	ErrNoEnclosingFunction = errors.New("no enclosing function")

	// ErrFunctionNotFound signals that no function with the requested name
	// exists in the document.
	ErrFunctionNotFound = errors.New("function not found")
)

// Resolver locates the exact line range of a single function so the text can
// be replaced verbatim. It approximates syntactic scoping with indentation
// heuristics only and holds no state between calls, so it is safe to share
// across goroutines.
type Resolver interface {
	// ResolveEnclosing returns the range of the innermost function whose body
	// contains the given 1-based line. Out-of-range lines are clamped, not
	// rejected.
	ResolveEnclosing(doc m.Document, line int) (m.Range, error)

	// ResolveByName returns the range of the first function named exactly
	// name, in document order. Whitespace around the name is ignored; an
	// empty name fails fast.
	ResolveByName(doc m.Document, name string) (m.Range, error)
}

type resolver struct{}

// NewResolver creates a boundary Resolver.
func NewResolver() Resolver {
	return &resolver{}
}

func (r *resolver) ResolveEnclosing(doc m.Document, line int) (m.Range, error) {
	target := doc.Clamp(line)

	// Nearest-header-above is necessary but not sufficient: the target may sit
	// in a dedented gap between two bodies. Walk upward past each candidate
	// header until one actually contains the target. The walk is bounded by
	// the document length, so worst case stays linear.
	for searchFrom := target; searchFrom >= 1; {
		header := findHeaderAbove(doc, searchFrom)
		if header == 0 {
			return m.Range{}, ErrNoEnclosingFunction
		}

		rng := rangeForHeader(doc, header)
		if rng.Contains(target) {
			return rng, nil
		}

		searchFrom = header - 1
	}

	return m.Range{}, ErrNoEnclosingFunction
}

func (r *resolver) ResolveByName(doc m.Document, name string) (m.Range, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return m.Range{}, ErrFunctionNotFound
	}

	for line := 1; line <= doc.LineCount(); line++ {
		if isNamedHeader(doc.Line(line), name) {
			// The header itself was the match, so no containment check is
			// needed.
			return rangeForHeader(doc, line), nil
		}
	}

	return m.Range{}, ErrFunctionNotFound
}

// findHeaderAbove returns the nearest header line at or above from, or 0.
func findHeaderAbove(doc m.Document, from int) int {
	for line := from; line >= 1; line-- {
		if isHeader(doc.Line(line)) {
			return line
		}
	}

	return 0
}

// rangeForHeader computes the full function range for a known header line:
// decorator extension upward and indentation end scan downward.
func rangeForHeader(doc m.Document, header int) m.Range {
	indent := indentOf(doc.Line(header))
	start := extendOverDecorators(doc, header, indent)
	end := findBodyEnd(doc, header, indent)

	return m.Range{
		StartLine: start,
		StartCol:  1,
		EndLine:   end,
		EndCol:    lineLength(doc.Line(end)),
	}
}

// extendOverDecorators walks upward through immediately preceding decorator
// lines at exactly the header's indent. A decorator at a different indent
// belongs to someone else and stops the walk.
func extendOverDecorators(doc m.Document, header, indent int) int {
	start := header

	for start > 1 {
		above := doc.Line(start - 1)
		if !isDecorator(above) || indentOf(above) != indent {
			break
		}

		start--
	}

	return start
}

// findBodyEnd scans forward from the header for the last line of the body.
// Blank lines are skipped while scanning and trailing blank lines are
// excluded: the returned line is the last non-blank line before the first
// sibling or dedent, matching the inclusive Range contract.
func findBodyEnd(doc m.Document, header, indent int) int {
	end := header

	for line := header + 1; line <= doc.LineCount(); line++ {
		text := doc.Line(line)
		if isBlank(text) {
			continue
		}

		lineIndent := indentOf(text)
		if lineIndent < indent {
			break
		}

		if lineIndent == indent && isScopeSibling(text) {
			break
		}

		end = line
	}

	return end
}

// lineLength is the inclusive end column for a line: its length in runes, or
// column 1 for an empty line so the range stays well formed.
func lineLength(line string) int {
	if n := utf8.RuneCountInString(line); n > 0 {
		return n
	}

	return 1
}
