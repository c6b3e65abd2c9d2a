package domain_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defscope.dev/pkg/defscope/internal/adapter"
	"defscope.dev/pkg/defscope/internal/controller"
	"defscope.dev/pkg/defscope/internal/domain"
	m "defscope.dev/pkg/defscope/internal/model"
)

// recordingUI captures display calls so workflow behaviour can be asserted
// without a terminal.
type recordingUI struct {
	ranges  []controller.ResolvedRange
	indexes [][]controller.FileIndex
	applies []m.ApplyResult
	browsed []m.Path
}

func (u *recordingUI) DisplayRange(_ context.Context, resolved controller.ResolvedRange) error {
	u.ranges = append(u.ranges, resolved)
	return nil
}

func (u *recordingUI) DisplayIndexes(_ context.Context, indexes []controller.FileIndex) error {
	u.indexes = append(u.indexes, indexes)
	return nil
}

func (u *recordingUI) DisplayApplyResult(_ context.Context, result m.ApplyResult) error {
	u.applies = append(u.applies, result)
	return nil
}

func (u *recordingUI) Browse(_ context.Context, path m.Path, _ m.Document, _ m.Index) error {
	u.browsed = append(u.browsed, path)
	return nil
}

func newTestWorkflow(ui controller.UI) domain.Workflow {
	indexer := domain.NewIndexer()

	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		ui,
		domain.NewResolver(),
		indexer,
		domain.NewEditor(indexer),
	)
}

func writeFixture(t *testing.T, dir, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

const workflowFixture = `import math

def double(x):
    return x * 2

def triple(x):
    return x * 3
`

func TestWorkflowResolve_ByPosition(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Resolve(context.Background(), domain.ResolveArgs{
		Path:    path,
		Locator: m.Locator{Kind: m.LocateByPosition, Line: 4},
	})
	require.NoError(t, err)

	require.Len(t, ui.ranges, 1)
	assert.Equal(t, path, ui.ranges[0].Path)
	assert.Equal(t, 3, ui.ranges[0].Range.StartLine)
	assert.Equal(t, 4, ui.ranges[0].Range.EndLine)
	assert.Equal(t, []string{"def double(x):", "    return x * 2"}, ui.ranges[0].Snippet)
}

func TestWorkflowResolve_ByName(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Resolve(context.Background(), domain.ResolveArgs{
		Path:    path,
		Locator: m.Locator{Kind: m.LocateByName, Name: "triple"},
	})
	require.NoError(t, err)

	require.Len(t, ui.ranges, 1)
	assert.Equal(t, 6, ui.ranges[0].Range.StartLine)
	assert.Equal(t, 7, ui.ranges[0].Range.EndLine)
}

func TestWorkflowResolve_NotFoundPropagates(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Resolve(context.Background(), domain.ResolveArgs{
		Path:    path,
		Locator: m.Locator{Kind: m.LocateByName, Name: "missing"},
	})
	assert.ErrorIs(t, err, domain.ErrFunctionNotFound)
	assert.Empty(t, ui.ranges)
}

func TestWorkflowResolve_InvalidLocator(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	wf := newTestWorkflow(&recordingUI{})

	err := wf.Resolve(context.Background(), domain.ResolveArgs{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid locator kind")
}

func TestWorkflowIndex_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.py", "def a():\n    pass\n")
	writeFixture(t, dir, "b.py", "def b():\n    pass\n")
	writeFixture(t, dir, "notes.txt", "not source")

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Index(context.Background(), domain.IndexArgs{
		Paths:   []m.Path{m.Path(dir)},
		Threads: 2,
	})
	require.NoError(t, err)

	require.Len(t, ui.indexes, 1)
	require.Len(t, ui.indexes[0], 2)
	assert.Len(t, ui.indexes[0][0].Index.Functions, 1)
	assert.Len(t, ui.indexes[0][1].Index.Functions, 1)
}

func TestWorkflowIndex_ExcludePattern(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "keep.py", "def k():\n    pass\n")
	writeFixture(t, dir, "skip_test.py", "def s():\n    pass\n")

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Index(context.Background(), domain.IndexArgs{
		Paths:   []m.Path{m.Path(dir)},
		Exclude: []string{`_test\.py$`},
	})
	require.NoError(t, err)

	require.Len(t, ui.indexes, 1)
	require.Len(t, ui.indexes[0], 1)
	assert.Contains(t, string(ui.indexes[0][0].Path), "keep.py")
}

func TestWorkflowIndex_InvalidExcludePattern(t *testing.T) {
	wf := newTestWorkflow(&recordingUI{})

	err := wf.Index(context.Background(), domain.IndexArgs{
		Paths:   []m.Path{"."},
		Exclude: []string{"("},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestWorkflowApply_WritesFileAndJournals(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)
	journalDir := filepath.Join(dir, "journal")

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Apply(context.Background(), domain.ApplyArgs{
		Path: path,
		Edits: []m.Edit{{
			Kind:   m.EditReplace,
			Target: &m.Target{Kind: m.TargetFunction, Name: "double"},
			Before: "def double(x):\n    return x * 2\n",
			After:  "def double(x):\n    return x + x\n",
		}},
		JournalDir: journalDir,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Contains(t, string(content), "return x + x")

	require.Len(t, ui.applies, 1)
	assert.False(t, ui.applies[0].DryRun)
	assert.Contains(t, ui.applies[0].Diff, "+    return x + x")

	entries, err := os.ReadDir(journalDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestWorkflowApply_DryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Apply(context.Background(), domain.ApplyArgs{
		Path: path,
		Edits: []m.Edit{{
			Kind:   m.EditReplace,
			Target: &m.Target{Kind: m.TargetFunction, Name: "double"},
			Before: "def double(x):\n    return x * 2\n",
			After:  "def double(x):\n    return 0\n",
		}},
		DryRun: true,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, workflowFixture, string(content))

	require.Len(t, ui.applies, 1)
	assert.True(t, ui.applies[0].DryRun)
	assert.NotEmpty(t, ui.applies[0].Diff)
}

func TestWorkflowApply_GuardFailureChangesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Apply(context.Background(), domain.ApplyArgs{
		Path: path,
		Edits: []m.Edit{{
			Kind:   m.EditReplace,
			Target: &m.Target{Kind: m.TargetFunction, Name: "double"},
			Before: "stale snapshot\n",
			After:  "def double(x):\n    return 0\n",
		}},
	})
	require.Error(t, err)
	assert.Empty(t, ui.applies)

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, workflowFixture, string(content))
}

func TestWorkflowBrowse_LoadsDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "sample.py", workflowFixture)

	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	err := wf.Browse(context.Background(), domain.BrowseArgs{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []m.Path{path}, ui.browsed)
}
