// Package domain contains the boundary resolution, indexing and editing logic.
package domain

import (
	"regexp"
	"strings"
)

// Line classifiers are pure, total predicates over a single line of text.
// They use only lexical shape, never document context, and an empty line
// never matches anything.
var (
	// headerPattern matches a function definition header anchored at the first
	// non-whitespace character: optional async, the def keyword, an identifier
	// and eventually an opening parameter paren.
	headerPattern = regexp.MustCompile(`^[ \t]*(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)

	// decoratorPattern matches an annotation applied to the next definition.
	decoratorPattern = regexp.MustCompile(`^[ \t]*@`)

	// compoundPattern matches a class-level block opener. It is only used to
	// detect scope termination, never as a resolution target.
	compoundPattern = regexp.MustCompile(`^[ \t]*class[ \t]+[A-Za-z_]\w*`)
)

// indentOf returns the count of leading whitespace characters. Indentation is
// the sole structural signal used for scoping.
func indentOf(line string) int {
	for i, ch := range line {
		if ch != ' ' && ch != '\t' {
			return i
		}
	}

	return len(line)
}

// isBlank reports whether the line is empty or whitespace-only.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isHeader reports whether the line introduces a function definition.
func isHeader(line string) bool {
	return headerPattern.MatchString(line)
}

// headerName extracts the function name from a header line, or "" when the
// line is not a header.
func headerName(line string) string {
	match := headerPattern.FindStringSubmatch(line)
	if match == nil {
		return ""
	}

	return match[1]
}

// isNamedHeader reports whether the line is a header defining exactly the
// given name. The name is compared literally, so prefix matches and pattern
// metacharacters in the name never match.
func isNamedHeader(line, name string) bool {
	return name != "" && headerName(line) == name
}

// isDecorator reports whether the line annotates the following definition.
func isDecorator(line string) bool {
	return decoratorPattern.MatchString(line)
}

// isCompound reports whether the line opens a class-level block.
func isCompound(line string) bool {
	return compoundPattern.MatchString(line)
}

// isScopeSibling reports whether a non-blank line at the same indent as a
// function header would terminate that function's body: another header, a
// decorator stack for the next definition, or a compound block opener.
func isScopeSibling(line string) bool {
	return isHeader(line) || isDecorator(line) || isCompound(line)
}
