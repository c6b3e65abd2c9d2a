// Package pkg provides utilities for defscope.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Journal is a generic append-only log of items of type T, backed by a gob
// file. The apply workflow uses it to keep an audit trail of edits written to
// disk. Each Journal owns one file; a single gob stream cannot be appended to
// across sessions, so every session gets a fresh file in the journal
// directory.
type Journal[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type fileJournal[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewJournal creates a new journal file inside dir.
func NewJournal[T any](dir string) (Journal[T], error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Error("failed to create journal directory", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "edits-*.gob")
	if err != nil {
		slog.Error("failed to create journal file", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create journal file: %w", err)
	}

	slog.Debug("created journal", "path", file.Name())

	return &fileJournal[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
		length:  0,
	}, nil
}

// Append implements Journal.
func (j *fileJournal[T]) Append(item T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.encoder.Encode(item); err != nil {
		slog.Error("failed to encode journal entry", "path", j.path, "index", j.length, "error", err)
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}

	j.length++
	slog.Debug("appended journal entry", "path", j.path, "index", j.length-1)

	return nil
}

// Path implements Journal.
func (j *fileJournal[T]) Path() string {
	return j.path
}

// Len implements Journal.
func (j *fileJournal[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Get implements Journal.
func (j *fileJournal[T]) Get(index uint64) (T, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var zero T

	if index >= j.length {
		slog.Warn("journal index out of bounds", "path", j.path, "index", index, "length", j.length)
		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, j.length)
	}

	file, err := os.Open(j.path)
	if err != nil {
		slog.Error("failed to open journal for get", "path", j.path, "error", err)
		return zero, fmt.Errorf("failed to open journal: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i <= index; i++ {
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode journal entry", "path", j.path, "index", i, "error", err)
			return zero, fmt.Errorf("failed to decode entry at index %d: %w", i, err)
		}
	}

	return item, nil
}

// Range implements Journal.
func (j *fileJournal[T]) Range(fn func(index uint64, item T) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		slog.Error("failed to open journal for range", "path", j.path, "error", err)
		return fmt.Errorf("failed to open journal: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := range j.length {
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode journal entry during range", "path", j.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode entry at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close implements Journal.
func (j *fileJournal[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
			return err
		}

		slog.Debug("closed journal", "path", j.path, "length", j.length)
	}

	return nil
}
