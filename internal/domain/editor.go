package domain

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "defscope.dev/pkg/defscope/internal/model"
)

// Editor applies guarded structural edits to document text. Each edit is
// resolved against a fresh index of the current text, so earlier edits in a
// sequence can move later targets without invalidating them.
type Editor interface {
	ApplyEdits(content string, edits []m.Edit) (string, []m.AppliedEdit, error)
	Diff(before, after string) (string, error)
}

type editor struct {
	indexer Indexer
}

// NewEditor creates an Editor backed by the given Indexer.
func NewEditor(indexer Indexer) Editor {
	return &editor{indexer: indexer}
}

func (e *editor) ApplyEdits(content string, edits []m.Edit) (string, []m.AppliedEdit, error) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		// SplitAfter leaves a phantom empty element when content ends with a
		// newline; drop it so line counts match the document view.
		lines = lines[:len(lines)-1]
	}

	applied := make([]m.AppliedEdit, 0, len(edits))

	for i, edit := range edits {
		index := e.indexer.Build(m.NewDocument(strings.Join(stripNewlines(lines), "\n")))

		var err error

		switch edit.Kind {
		case m.EditReplace:
			lines, applied, err = e.applyReplace(lines, index, edit, applied)
		case m.EditInsert:
			lines, applied, err = e.applyInsert(lines, index, edit, applied)
		default:
			err = fmt.Errorf("invalid edit kind %q", edit.Kind)
		}

		if err != nil {
			return "", nil, fmt.Errorf("edit %d: %w", i+1, err)
		}
	}

	return strings.Join(lines, ""), applied, nil
}

func (e *editor) applyReplace(lines []string, index m.Index, edit m.Edit, applied []m.AppliedEdit) ([]string, []m.AppliedEdit, error) {
	if edit.Target == nil {
		return nil, nil, fmt.Errorf("replace edit requires a target")
	}

	start, end, label, err := e.resolveTarget(*edit.Target, index, len(lines))
	if err != nil {
		return nil, nil, err
	}

	segment := strings.Join(lines[start-1:end], "")
	if !segmentMatches(segment, edit.Before) {
		return nil, nil, fmt.Errorf("before snapshot mismatch for %s", label)
	}

	replacement := splitKeepNewlines(edit.After)

	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start-1]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)

	applied = append(applied, m.AppliedEdit{
		Kind:      m.EditReplace,
		Label:     label,
		StartLine: start,
		EndLine:   end,
	})

	return out, applied, nil
}

func (e *editor) applyInsert(lines []string, index m.Index, edit m.Edit, applied []m.AppliedEdit) ([]string, []m.AppliedEdit, error) {
	if edit.Anchor == nil {
		return nil, nil, fmt.Errorf("insert edit requires an anchor")
	}

	// insertAt is the 0-based splice index into lines; anchors resolve to a
	// 1-based end line, which is exactly the right splice index already.
	insertAt, label, err := e.resolveAnchor(*edit.Anchor, index, lines)
	if err != nil {
		return nil, nil, err
	}

	content := edit.After
	if insertAt < len(lines) && content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	insertLines := splitKeepNewlines(content)

	out := make([]string, 0, len(lines)+len(insertLines))
	out = append(out, lines[:insertAt]...)
	out = append(out, insertLines...)
	out = append(out, lines[insertAt:]...)

	applied = append(applied, m.AppliedEdit{
		Kind:      m.EditInsert,
		Label:     label,
		StartLine: insertAt + 1,
	})

	return out, applied, nil
}

func (e *editor) resolveTarget(target m.Target, index m.Index, lineCount int) (int, int, string, error) {
	name := strings.TrimSpace(target.Name)

	switch target.Kind {
	case m.TargetFunction:
		if name == "" {
			return 0, 0, "", fmt.Errorf("target name required for function")
		}

		fn, ok := e.indexer.FindFunction(index, name)
		if !ok {
			return 0, 0, "", fmt.Errorf("target not found: function %s", name)
		}

		label := fmt.Sprintf("function %s", name)
		if fn.IsMethod() {
			label = fmt.Sprintf("method %s.%s", fn.ClassName, name)
		}

		return fn.Line, fn.EndLine, label, nil

	case m.TargetClass:
		if name == "" {
			return 0, 0, "", fmt.Errorf("target name required for class")
		}

		class, ok := e.indexer.FindClass(index, name)
		if !ok {
			return 0, 0, "", fmt.Errorf("target not found: class %s", name)
		}

		return class.Line, class.EndLine, fmt.Sprintf("class %s", name), nil

	case m.TargetParam:
		if name == "" {
			return 0, 0, "", fmt.Errorf("target name required for param")
		}

		param, ok := e.indexer.FindParam(index, name)
		if !ok {
			return 0, 0, "", fmt.Errorf("target not found: param %s", name)
		}

		return param.Line, param.EndLine, fmt.Sprintf("param %s", name), nil

	case m.TargetRange:
		if target.StartLine < 1 || target.EndLine < target.StartLine || target.EndLine > lineCount {
			return 0, 0, "", fmt.Errorf("invalid range %d-%d", target.StartLine, target.EndLine)
		}

		return target.StartLine, target.EndLine, fmt.Sprintf("range %d-%d", target.StartLine, target.EndLine), nil
	}

	return 0, 0, "", fmt.Errorf("invalid target kind %q", target.Kind)
}

func (e *editor) resolveAnchor(anchor m.Anchor, index m.Index, lines []string) (int, string, error) {
	name := strings.TrimSpace(anchor.Name)

	switch anchor.Kind {
	case m.AnchorAfterFunction:
		if name == "" {
			return 0, "", fmt.Errorf("anchor name required for after_function")
		}

		fn, ok := e.indexer.FindFunction(index, name)
		if !ok {
			return 0, "", fmt.Errorf("anchor not found: function %s", name)
		}

		return fn.EndLine, fmt.Sprintf("after function %s", name), nil

	case m.AnchorAfterImports:
		return importBlockEnd(stripNewlines(lines)), "after imports", nil

	case m.AnchorClassEnd:
		var (
			class m.ClassInfo
			ok    bool
		)

		if name != "" {
			class, ok = e.indexer.FindClass(index, name)
		} else if len(index.Classes) > 0 {
			class, ok = index.Classes[0], true
		}

		if !ok {
			return 0, "", fmt.Errorf("anchor not found: class")
		}

		return class.EndLine, fmt.Sprintf("end of class %s", class.Name), nil

	case m.AnchorModuleEnd:
		return len(lines), "end of module", nil
	}

	return 0, "", fmt.Errorf("invalid anchor kind %q", anchor.Kind)
}

// importBlockEnd finds the 1-based line ending the module preamble: an
// optional module docstring followed by the initial block of imports, blank
// lines and comments. With no preamble it returns 0 (insert at top).
func importBlockEnd(lines []string) int {
	end := 0
	i := 0

	// Module docstring.
	if i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		for _, quote := range []string{`"""`, "'''"} {
			if !strings.HasPrefix(trimmed, quote) {
				continue
			}

			if rest := trimmed[len(quote):]; strings.Contains(rest, quote) {
				end = i + 1
				i++

				break
			}

			for j := i + 1; j < len(lines); j++ {
				if strings.Contains(lines[j], quote) {
					end = j + 1
					i = j + 1

					break
				}
			}

			break
		}
	}

	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from "):
			end = i + 1
		default:
			// Leaving the initial import section stops the scan.
			return end
		}
	}

	return end
}

// segmentMatches compares an on-disk segment with the edit's before snapshot,
// normalising line endings and tolerating a missing trailing newline.
func segmentMatches(segment, before string) bool {
	segment = strings.ReplaceAll(segment, "\r\n", "\n")
	before = strings.ReplaceAll(before, "\r\n", "\n")

	if segment == before {
		return true
	}

	return strings.TrimRight(segment, "\n") == strings.TrimRight(before, "\n")
}

// Diff renders a unified diff of before vs after.
func (e *editor) Diff(before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	})
}

// splitKeepNewlines splits text into lines that keep their terminating
// newline, dropping the phantom tail SplitAfter produces.
func splitKeepNewlines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// stripNewlines returns the line texts without their terminating newlines.
func stripNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	}

	return out
}
