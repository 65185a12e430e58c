// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriter buffers writes to a temp file beside the destination and
// only makes them visible at outPath on Commit, so a crash or error mid-run
// never leaves a half-written output file (glogread's logic package writes
// one line per surviving record across many input files before finalizing).
type AtomicWriter struct {
	f       *os.File
	tmpName string
	outPath string
}

// NewAtomicWriter creates the backing temp file in outPath's directory.
func NewAtomicWriter(outPath string) (*AtomicWriter, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	return &AtomicWriter{f: tmpFile, tmpName: tmpFile.Name(), outPath: outPath}, nil
}

// Write implements io.Writer against the temp file.
func (w *AtomicWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Commit closes the temp file and renames it into place.
func (w *AtomicWriter) Commit() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(w.tmpName, w.outPath); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", w.tmpName, w.outPath, err)
	}
	return nil
}

// Abort closes and removes the temp file without touching outPath. Safe to
// call after Commit (no-op on the missing temp file).
func (w *AtomicWriter) Abort() {
	w.f.Close() //nolint:errcheck // best-effort cleanup
	os.Remove(w.tmpName) //nolint:errcheck // best-effort cleanup
}
