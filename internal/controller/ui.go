// Package controller provides output adapters for displaying resolution results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "defscope.dev/pkg/defscope/internal/model"
)

// Format selects the output encoding for display methods.
type Format string

// Available output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileIndex pairs a path with its structural index so multi-file output keeps
// a stable order.
type FileIndex struct {
	Path  m.Path  `json:"path"  yaml:"path"`
	Index m.Index `json:"index" yaml:"index"`
}

// ResolvedRange is the displayable outcome of a resolution call.
type ResolvedRange struct {
	Path    m.Path   `json:"path"            yaml:"path"`
	Range   m.Range  `json:"range"           yaml:"range"`
	Snippet []string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// UI defines the interface for displaying resolver, index and apply results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayRange(ctx context.Context, resolved ResolvedRange) error
	DisplayIndexes(ctx context.Context, indexes []FileIndex) error
	DisplayApplyResult(ctx context.Context, result m.ApplyResult) error
	Browse(ctx context.Context, path m.Path, doc m.Document, index m.Index) error
}

// NewUI selects a UI implementation: interactive terminals get the Bubble Tea
// browser, everything else falls back to plain output.
func NewUI(cmd *cobra.Command, interactive bool, format Format) UI {
	simple := NewSimpleUI(cmd, format)
	if interactive {
		return NewTUI(simple)
	}

	return simple
}

// IsTTY reports whether the file is an interactive terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
