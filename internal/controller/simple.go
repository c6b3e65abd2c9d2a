package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "defscope.dev/pkg/defscope/internal/model"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	format Format
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, format Format) *SimpleUI {
	return &SimpleUI{cmd: cmd, format: format}
}

// DisplayRange prints a resolved range and the covered text.
func (s *SimpleUI) DisplayRange(ctx context.Context, resolved ResolvedRange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatText {
		return s.encode(resolved)
	}

	rng := resolved.Range
	s.printf("%s:%d:%d-%d:%d\n", resolved.Path, rng.StartLine, rng.StartCol, rng.EndLine, rng.EndCol)

	for i, line := range resolved.Snippet {
		s.printf("%5d | %s\n", rng.StartLine+i, line)
	}

	return nil
}

// DisplayIndexes prints the structural index of one or more files.
func (s *SimpleUI) DisplayIndexes(ctx context.Context, indexes []FileIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatText {
		return s.encode(indexes)
	}

	s.printf("%s", renderIndexTable(indexes))

	return nil
}

func renderIndexTable(indexes []FileIndex) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Kind", "Name", "Lines"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rows := 0

	for _, fi := range indexes {
		path := string(fi.Path)

		for _, class := range fi.Index.Classes {
			name := class.Name
			if len(class.Bases) > 0 {
				name = fmt.Sprintf("%s(%s)", class.Name, strings.Join(class.Bases, ", "))
			}

			table.Append([]string{path, "class", name, lineSpan(class.Line, class.EndLine)})
			rows++

			for _, method := range class.Methods {
				table.Append([]string{path, "method", class.Name + "." + method.Name, lineSpan(method.Line, method.EndLine)})
				rows++
			}
		}

		for _, fn := range fi.Index.Functions {
			table.Append([]string{path, "function", fn.Name, lineSpan(fn.Line, fn.EndLine)})
			rows++
		}

		for _, param := range fi.Index.Params {
			table.Append([]string{path, "param", fmt.Sprintf("%s [%s]", param.Name, param.Type), lineSpan(param.Line, param.EndLine)})
			rows++
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(indexes)), "", "", fmt.Sprintf("%d", rows)})
	table.Render()

	return tableBuffer.String()
}

func lineSpan(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

// DisplayApplyResult prints what was applied and the resulting diff.
func (s *SimpleUI) DisplayApplyResult(ctx context.Context, result m.ApplyResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatText {
		// Content is redundant next to the diff in machine output.
		result.Content = ""
		return s.encode(result)
	}

	for _, applied := range result.Applied {
		s.printf("applied %s: %s\n", applied.Kind, applied.Label)
	}

	if result.DryRun {
		s.printf("dry run, %s not modified\n", result.Path)
	}

	s.printf("%s", colorizeDiff(result.Diff))

	return nil
}

// colorizeDiff styles unified diff lines for terminal output.
func colorizeDiff(diff string) string {
	if diff == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// Browse prints a non-interactive listing when no TTY is available.
func (s *SimpleUI) Browse(ctx context.Context, path m.Path, _ m.Document, index m.Index) error {
	return s.DisplayIndexes(ctx, []FileIndex{{Path: path, Index: index}})
}

func (s *SimpleUI) encode(value any) error {
	switch s.format {
	case FormatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}

		s.printf("%s\n", data)
	case FormatYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		s.printf("%s", data)
	default:
		return fmt.Errorf("unsupported format %q", s.format)
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
