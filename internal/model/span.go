package model

// Range is a fully inclusive line/column span identifying the exact text a
// caller may replace. StartLine is always a decorator line or the header line
// itself; EndLine is the last non-blank line of the function body. EndCol is
// the true end-of-line length of EndLine so a replacement can never leave a
// trailing partial line.
type Range struct {
	StartLine int `json:"startLine" yaml:"startLine"`
	StartCol  int `json:"startCol"  yaml:"startCol"`
	EndLine   int `json:"endLine"   yaml:"endLine"`
	EndCol    int `json:"endCol"    yaml:"endCol"`
}

// Contains reports whether the 1-based line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// LineSpan returns the number of lines covered by the range.
func (r Range) LineSpan() int {
	return r.EndLine - r.StartLine + 1
}

// LocatorKind selects how a function is located in a document.
type LocatorKind string

const (
	// LocateByPosition resolves the function enclosing a cursor line.
	LocateByPosition LocatorKind = "position"
	// LocateByName resolves the first function with an exact name.
	LocateByName LocatorKind = "name"
)

// Locator identifies a function either by a 1-based line number or by its
// exact name.
type Locator struct {
	Kind LocatorKind
	Line int
	Name string
}
