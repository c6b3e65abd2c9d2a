package model

import "time"

// EditKind discriminates the supported edit operations.
type EditKind string

const (
	// EditReplace replaces the exact span of a resolved target.
	EditReplace EditKind = "replace"
	// EditInsert inserts content at a resolved anchor position.
	EditInsert EditKind = "insert"
)

// TargetKind discriminates how a replace edit locates its span.
type TargetKind string

const (
	// TargetFunction targets a named function or method.
	TargetFunction TargetKind = "function"
	// TargetClass targets a named class block.
	TargetClass TargetKind = "class"
	// TargetParam targets a named hyperparameter assignment.
	TargetParam TargetKind = "param"
	// TargetRange targets an explicit 1-based inclusive line range.
	TargetRange TargetKind = "range"
)

// AnchorKind discriminates where an insert edit splices its content.
type AnchorKind string

const (
	// AnchorAfterFunction inserts after the end of a named function.
	AnchorAfterFunction AnchorKind = "after_function"
	// AnchorAfterImports inserts after the module docstring and import block.
	AnchorAfterImports AnchorKind = "after_imports"
	// AnchorClassEnd inserts at the end of a named class (or the first class).
	AnchorClassEnd AnchorKind = "class_end"
	// AnchorModuleEnd appends at the end of the document.
	AnchorModuleEnd AnchorKind = "module_end"
)

// Target identifies the span a replace edit overwrites.
type Target struct {
	Kind      TargetKind `json:"kind"`
	Name      string     `json:"name,omitempty"`
	StartLine int        `json:"startLine,omitempty"`
	EndLine   int        `json:"endLine,omitempty"`
}

// Anchor identifies the position an insert edit splices at.
type Anchor struct {
	Kind AnchorKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

// Edit is a single guarded modification of a document. Replace edits carry a
// Before snapshot that must match the current target segment exactly, so a
// stale suggestion can never clobber text it did not see.
type Edit struct {
	Kind   EditKind `json:"kind"`
	Target *Target  `json:"target,omitempty"`
	Anchor *Anchor  `json:"anchor,omitempty"`
	Before string   `json:"before,omitempty"`
	After  string   `json:"after,omitempty"`
}

// AppliedEdit records where an edit landed after application.
type AppliedEdit struct {
	Kind      EditKind `json:"kind"`
	Label     string   `json:"label"`
	StartLine int      `json:"startLine"`
	EndLine   int      `json:"endLine,omitempty"`
}

// JournalEntry records one edit sequence written to disk, with the file's
// post-write fingerprint.
type JournalEntry struct {
	Path    Path
	Hash    string
	Applied []AppliedEdit
	At      time.Time
}

// ApplyResult is the outcome of applying an edit sequence to one document.
type ApplyResult struct {
	Path    Path          `json:"path"`
	DryRun  bool          `json:"dryRun"`
	Diff    string        `json:"diff"`
	Content string        `json:"content,omitempty"`
	Applied []AppliedEdit `json:"applied"`
}
