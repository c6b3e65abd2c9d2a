package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "defscope.dev/pkg/defscope/internal/model"
)

// TUI implements UI with an interactive Bubble Tea browser for the browse
// command; every other display method falls through to the simple UI.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a TUI wrapping the given SimpleUI.
func NewTUI(simple *SimpleUI) *TUI {
	return &TUI{SimpleUI: simple}
}

// Browse runs the interactive function browser.
func (t *TUI) Browse(ctx context.Context, path m.Path, doc m.Document, index m.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := browseEntries(index)
	if len(entries) == 0 {
		t.printf("no functions found in %s\n", path)
		return nil
	}

	model := newBrowseModel(string(path), doc, entries)

	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browse ui: %w", err)
	}

	return nil
}

// browseEntry is one selectable function in the browser.
type browseEntry struct {
	label string
	start int
	end   int
}

// browseEntries flattens the index into display order: methods grouped under
// their class, then module functions.
func browseEntries(index m.Index) []browseEntry {
	entries := make([]browseEntry, 0)

	for _, class := range index.Classes {
		for _, method := range class.Methods {
			entries = append(entries, browseEntry{
				label: class.Name + "." + method.Name,
				start: method.Line,
				end:   method.EndLine,
			})
		}
	}

	for _, fn := range index.Functions {
		entries = append(entries, browseEntry{
			label: fn.Name,
			start: fn.Line,
			end:   fn.EndLine,
		})
	}

	return entries
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	previewStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// browseModel is the Bubble Tea model for the function browser.
type browseModel struct {
	path     string
	doc      m.Document
	entries  []browseEntry
	cursor   int
	preview  viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

func newBrowseModel(path string, doc m.Document, entries []browseEntry) browseModel {
	return browseModel{
		path:    path,
		doc:     doc,
		entries: entries,
	}
}

func (bm browseModel) Init() tea.Cmd {
	return nil
}

func (bm browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.width = msg.Width
		bm.height = msg.Height
		bm.preview = viewport.New(msg.Width-4, bm.previewHeight())
		bm.ready = true
		bm.refreshPreview()

		return bm, nil

	case tea.KeyMsg:
		return bm.handleKeyPress(msg)
	}

	return bm, nil
}

func (bm browseModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		bm.quitting = true
		return bm, tea.Quit

	case "down", "j":
		if bm.cursor < len(bm.entries)-1 {
			bm.cursor++
			bm.refreshPreview()
		}

		return bm, nil

	case "up", "k":
		if bm.cursor > 0 {
			bm.cursor--
			bm.refreshPreview()
		}

		return bm, nil

	case "g", "home":
		bm.cursor = 0
		bm.refreshPreview()

		return bm, nil

	case "G", "end":
		bm.cursor = len(bm.entries) - 1
		bm.refreshPreview()

		return bm, nil
	}

	var cmd tea.Cmd

	bm.preview, cmd = bm.preview.Update(msg)

	return bm, cmd
}

func (bm *browseModel) previewHeight() int {
	// List, title and help share the frame with the preview pane.
	reserved := len(bm.entries) + 6
	if reserved > bm.height/2 {
		reserved = bm.height / 2
	}

	height := bm.height - reserved
	if height < 3 {
		height = 3
	}

	return height
}

func (bm *browseModel) refreshPreview() {
	if !bm.ready || len(bm.entries) == 0 {
		return
	}

	entry := bm.entries[bm.cursor]

	var b strings.Builder

	for i, line := range bm.doc.Lines(entry.start, entry.end) {
		fmt.Fprintf(&b, "%5d | %s\n", entry.start+i, line)
	}

	bm.preview.SetContent(b.String())
	bm.preview.GotoTop()
}

func (bm browseModel) View() string {
	if bm.quitting || !bm.ready {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(bm.path))
	b.WriteString("\n\n")

	for i, entry := range bm.entries {
		marker := "  "
		label := entry.label

		if i == bm.cursor {
			marker = "> "
			label = selectedStyle.Render(label)
		}

		fmt.Fprintf(&b, "%s%s %s\n", marker, label, dimStyle.Render(fmt.Sprintf("(%d-%d)", entry.start, entry.end)))
	}

	b.WriteString("\n")
	b.WriteString(previewStyle.Render(bm.preview.View()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k navigate · q quit"))
	b.WriteString("\n")

	return b.String()
}
