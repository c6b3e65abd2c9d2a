package domain

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"defscope.dev/pkg/defscope/internal/adapter"
	"defscope.dev/pkg/defscope/internal/controller"
	m "defscope.dev/pkg/defscope/internal/model"
	"defscope.dev/pkg/defscope/pkg"
)

// ResolveArgs contains the arguments for resolving a single function range.
type ResolveArgs struct {
	Path    m.Path
	Locator m.Locator
}

// IndexArgs contains the arguments for indexing one or more paths.
type IndexArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads int
}

// ApplyArgs contains the arguments for applying an edit sequence to a file.
type ApplyArgs struct {
	Path       m.Path
	Edits      []m.Edit
	DryRun     bool
	JournalDir string
}

// BrowseArgs contains the arguments for browsing a file's functions.
type BrowseArgs struct {
	Path m.Path
}

// Workflow wires the resolver, indexer and editor to the filesystem and UI.
type Workflow interface {
	Resolve(ctx context.Context, args ResolveArgs) error
	Index(ctx context.Context, args IndexArgs) error
	Apply(ctx context.Context, args ApplyArgs) error
	Browse(ctx context.Context, args BrowseArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
	resolver Resolver
	indexer  Indexer
	editor   Editor
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	ui controller.UI,
	resolver Resolver,
	indexer Indexer,
	editor Editor,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
		resolver:        resolver,
		indexer:         indexer,
		editor:          editor,
	}
}

func (w *workflow) Resolve(ctx context.Context, args ResolveArgs) error {
	doc, err := w.loadDocument(args.Path)
	if err != nil {
		return err
	}

	var rng m.Range

	switch args.Locator.Kind {
	case m.LocateByPosition:
		rng, err = w.resolver.ResolveEnclosing(doc, args.Locator.Line)
	case m.LocateByName:
		rng, err = w.resolver.ResolveByName(doc, args.Locator.Name)
	default:
		return fmt.Errorf("invalid locator kind %q", args.Locator.Kind)
	}

	if err != nil {
		// NotFound propagates unchanged so the caller can decline the edit.
		return fmt.Errorf("%s: %w", args.Path, err)
	}

	return w.DisplayRange(ctx, controller.ResolvedRange{
		Path:    args.Path,
		Range:   rng,
		Snippet: doc.Lines(rng.StartLine, rng.EndLine),
	})
}

func (w *workflow) Index(ctx context.Context, args IndexArgs) error {
	files, err := w.collectFiles(args.Paths, args.Exclude)
	if err != nil {
		return err
	}

	indexes := make([]controller.FileIndex, len(files))

	group, groupCtx := errgroup.WithContext(ctx)

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	group.SetLimit(threads)

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			doc, err := w.loadDocument(file)
			if err != nil {
				return err
			}

			indexes[i] = controller.FileIndex{Path: file, Index: w.indexer.Build(doc)}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return w.DisplayIndexes(ctx, indexes)
}

func (w *workflow) Apply(ctx context.Context, args ApplyArgs) error {
	content, err := w.ReadFile(args.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args.Path, err)
	}

	if len(args.Edits) == 0 {
		return fmt.Errorf("no edits to apply")
	}

	newContent, applied, err := w.editor.ApplyEdits(string(content), args.Edits)
	if err != nil {
		return fmt.Errorf("%s: %w", args.Path, err)
	}

	diff, err := w.editor.Diff(string(content), newContent)
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", args.Path, err)
	}

	if !args.DryRun {
		info, err := w.FileInfo(args.Path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", args.Path, err)
		}

		if err := w.WriteFile(args.Path, []byte(newContent), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", args.Path, err)
		}

		if err := w.journalEdits(args, applied); err != nil {
			return err
		}
	}

	return w.DisplayApplyResult(ctx, m.ApplyResult{
		Path:    args.Path,
		DryRun:  args.DryRun,
		Diff:    diff,
		Content: newContent,
		Applied: applied,
	})
}

// journalEdits records the applied edits and the file's new fingerprint.
func (w *workflow) journalEdits(args ApplyArgs, applied []m.AppliedEdit) error {
	if args.JournalDir == "" {
		return nil
	}

	hash, err := w.HashFile(args.Path)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", args.Path, err)
	}

	journal, err := pkg.NewJournal[m.JournalEntry](args.JournalDir)
	if err != nil {
		return err
	}

	defer func() {
		_ = journal.Close()
	}()

	return journal.Append(m.JournalEntry{
		Path:    args.Path,
		Hash:    hash,
		Applied: applied,
		At:      time.Now(),
	})
}

func (w *workflow) Browse(ctx context.Context, args BrowseArgs) error {
	doc, err := w.loadDocument(args.Path)
	if err != nil {
		return err
	}

	return w.UI.Browse(ctx, args.Path, doc, w.indexer.Build(doc))
}

func (w *workflow) loadDocument(path m.Path) (m.Document, error) {
	content, err := w.ReadFile(path)
	if err != nil {
		return m.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return m.NewDocument(string(content)), nil
}

// collectFiles expands the requested paths into the list of source files to
// index, walking directories recursively and applying exclude patterns.
func (w *workflow) collectFiles(paths []m.Path, exclude []string) ([]m.Path, error) {
	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	files := make([]m.Path, 0)
	seen := make(map[m.Path]struct{})

	appendFile := func(path m.Path) {
		if _, ok := seen[path]; ok {
			return
		}

		if excluded(string(path), excludes) {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := w.FileInfo(path)
		if err != nil {
			return nil, fmt.Errorf("path error: %w", err)
		}

		if !info.IsDir() {
			appendFile(path)
			continue
		}

		walkErr := w.Walk(path, true, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !w.IsSourceFile(m.Path(p)) {
				return nil
			}

			appendFile(m.Path(p))

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, walkErr)
		}
	}

	return files, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func excluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
