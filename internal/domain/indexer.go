package domain

import (
	"regexp"
	"sort"
	"strings"

	m "defscope.dev/pkg/defscope/internal/model"
)

// Indexer builds a structural summary of a document: module functions,
// classes with their methods, and hyperparameter assignments. It reuses the
// resolver's indentation end scan, so index extents and resolved ranges
// always agree.
type Indexer interface {
	Build(doc m.Document) m.Index
	FindFunction(index m.Index, name string) (m.FunctionInfo, bool)
	FindClass(index m.Index, name string) (m.ClassInfo, bool)
	FindParam(index m.Index, name string) (m.ParamInfo, bool)
}

type indexer struct{}

// NewIndexer creates an Indexer.
func NewIndexer() Indexer {
	return &indexer{}
}

// paramCallPattern matches the start of a hyperparameter assignment:
// an identifier, optionally type-annotated, assigned a call whose callee name
// contains "Parameter".
var paramCallPattern = regexp.MustCompile(`^[ \t]*([A-Za-z_]\w*)[ \t]*(?::[^=]+)?=[ \t]*([\w.]*Parameter\w*)[ \t]*\(`)

func (ix *indexer) Build(doc m.Document) m.Index {
	index := m.Index{
		Classes:   ix.collectClasses(doc),
		Functions: ix.collectFunctions(doc),
		Params:    collectParams(doc),
	}

	return index
}

// collectFunctions gathers module-level function definitions.
func (ix *indexer) collectFunctions(doc m.Document) []m.FunctionInfo {
	functions := make([]m.FunctionInfo, 0)

	for line := 1; line <= doc.LineCount(); line++ {
		text := doc.Line(line)
		if !isHeader(text) || indentOf(text) != 0 {
			continue
		}

		functions = append(functions, m.FunctionInfo{
			Name:    headerName(text),
			Line:    line,
			EndLine: findBodyEnd(doc, line, 0),
		})
	}

	return functions
}

// collectClasses gathers module-level classes and their direct methods.
func (ix *indexer) collectClasses(doc m.Document) []m.ClassInfo {
	classes := make([]m.ClassInfo, 0)

	for line := 1; line <= doc.LineCount(); line++ {
		text := doc.Line(line)
		if !isCompound(text) || indentOf(text) != 0 {
			continue
		}

		end := findBodyEnd(doc, line, 0)
		class := m.ClassInfo{
			Name:    className(text),
			Line:    line,
			EndLine: end,
			Bases:   classBases(text),
			Methods: collectMethods(doc, line, end),
		}
		classes = append(classes, class)
	}

	return classes
}

// collectMethods gathers the direct methods of a class body: headers at the
// shallowest indent found inside the class range. Headers nested deeper are
// inner functions and are skipped.
func collectMethods(doc m.Document, classLine, classEnd int) []m.FunctionInfo {
	methodIndent := 0

	for line := classLine + 1; line <= classEnd; line++ {
		text := doc.Line(line)
		if isHeader(text) {
			if ind := indentOf(text); methodIndent == 0 || ind < methodIndent {
				methodIndent = ind
			}
		}
	}

	if methodIndent == 0 {
		return nil
	}

	methods := make([]m.FunctionInfo, 0)

	for line := classLine + 1; line <= classEnd; line++ {
		text := doc.Line(line)
		if !isHeader(text) || indentOf(text) != methodIndent {
			continue
		}

		methods = append(methods, m.FunctionInfo{
			Name:    headerName(text),
			Line:    line,
			EndLine: findBodyEnd(doc, line, methodIndent),
		})
	}

	return methods
}

var classNamePattern = regexp.MustCompile(`^[ \t]*class[ \t]+([A-Za-z_]\w*)[ \t]*(?:\(([^)]*)\))?`)

// className extracts the class name from a compound line.
func className(line string) string {
	match := classNamePattern.FindStringSubmatch(line)
	if match == nil {
		return ""
	}

	return match[1]
}

// classBases extracts the base names from a class header, keeping only the
// final attribute segment of dotted bases.
func classBases(line string) []string {
	match := classNamePattern.FindStringSubmatch(line)
	if match == nil || strings.TrimSpace(match[2]) == "" {
		return nil
	}

	parts := strings.Split(match[2], ",")
	bases := make([]string, 0, len(parts))

	for _, part := range parts {
		base := strings.TrimSpace(part)
		if base == "" || strings.Contains(base, "=") {
			// keyword arguments like metaclass=... are not bases
			continue
		}

		if dot := strings.LastIndex(base, "."); dot >= 0 {
			base = base[dot+1:]
		}

		bases = append(bases, base)
	}

	if len(bases) == 0 {
		return nil
	}

	return bases
}

// collectParams gathers hyperparameter assignments anywhere in the document.
// Multi-line calls are closed by tracking paren balance.
func collectParams(doc m.Document) []m.ParamInfo {
	params := make([]m.ParamInfo, 0)

	for line := 1; line <= doc.LineCount(); line++ {
		text := doc.Line(line)

		match := paramCallPattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		endLine := findCallEnd(doc, line)
		segment := strings.Join(doc.Lines(line, endLine), "\n")

		callText := segment[strings.Index(segment, "("):]
		args, kwargs := splitCallArgs(callText)

		paramType := match[2]
		if dot := strings.LastIndex(paramType, "."); dot >= 0 {
			paramType = paramType[dot+1:]
		}

		params = append(params, m.ParamInfo{
			Name:     match[1],
			Type:     paramType,
			Line:     line,
			EndLine:  endLine,
			Args:     args,
			Default:  kwargs["default"],
			Space:    kwargs["space"],
			Optimize: kwargs["optimize"],
			Segment:  segment,
		})
	}

	sort.SliceStable(params, func(i, j int) bool {
		if params[i].Line != params[j].Line {
			return params[i].Line < params[j].Line
		}

		return params[i].Name < params[j].Name
	})

	return params
}

// findCallEnd returns the 1-based line on which the call opened on startLine
// closes, tracking parenthesis depth across lines. Unbalanced input ends on
// the last line.
func findCallEnd(doc m.Document, startLine int) int {
	depth := 0

	for line := startLine; line <= doc.LineCount(); line++ {
		for _, ch := range doc.Line(line) {
			switch ch {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}

		if depth <= 0 {
			return line
		}
	}

	return doc.LineCount()
}

// splitCallArgs splits the text of a call (starting at its opening paren)
// into positional argument texts and keyword argument texts, honouring
// nesting and string quotes at the top level only.
func splitCallArgs(callText string) ([]string, map[string]string) {
	inner := strings.TrimSpace(callText)
	inner = strings.TrimPrefix(inner, "(")
	if idx := strings.LastIndex(inner, ")"); idx >= 0 {
		inner = inner[:idx]
	}

	args := make([]string, 0)
	kwargs := make(map[string]string)

	for _, piece := range splitTopLevel(inner) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		if name, value, ok := splitKeyword(piece); ok {
			kwargs[name] = value
			continue
		}

		args = append(args, piece)
	}

	return args, kwargs
}

// splitTopLevel splits on commas that are not nested in brackets or quotes.
func splitTopLevel(s string) []string {
	pieces := make([]string, 0)
	depth := 0

	var quote rune

	start := 0

	for i, ch := range s {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		case ch == ',' && depth == 0:
			pieces = append(pieces, s[start:i])
			start = i + 1
		}
	}

	pieces = append(pieces, s[start:])

	return pieces
}

var keywordPattern = regexp.MustCompile(`^([A-Za-z_]\w*)[ \t]*=([^=].*)?$`)

// splitKeyword splits a `name=value` piece; `==` comparisons do not qualify.
func splitKeyword(piece string) (string, string, bool) {
	match := keywordPattern.FindStringSubmatch(piece)
	if match == nil {
		return "", "", false
	}

	return match[1], strings.TrimSpace(match[2]), true
}

// FindFunction locates a function by name: class methods first, in document
// order, then module-level functions.
func (ix *indexer) FindFunction(index m.Index, name string) (m.FunctionInfo, bool) {
	for _, class := range index.Classes {
		for _, method := range class.Methods {
			if method.Name == name {
				method.ClassName = class.Name
				return method, true
			}
		}
	}

	for _, fn := range index.Functions {
		if fn.Name == name {
			return fn, true
		}
	}

	return m.FunctionInfo{}, false
}

// FindClass locates a class by exact name.
func (ix *indexer) FindClass(index m.Index, name string) (m.ClassInfo, bool) {
	for _, class := range index.Classes {
		if class.Name == name {
			return class, true
		}
	}

	return m.ClassInfo{}, false
}

// FindParam locates a hyperparameter assignment by exact name.
func (ix *indexer) FindParam(index m.Index, name string) (m.ParamInfo, bool) {
	for _, param := range index.Params {
		if param.Name == name {
			return param, true
		}
	}

	return m.ParamInfo{}, false
}
