// Package archive extracts the zip container that ships a batch of Glog
// files (spec §6 "archive extraction", an external collaborator rather than
// part of the core decoder).
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks every regular file in the zip at zipPath into destDir,
// creating destDir and any subdirectories as needed, and returns the paths
// written. Entries whose
// name would escape destDir (a "zip slip") are rejected rather than
// silently skipped, since a hostile archive is an input-validation concern
// at this boundary.
func Extract(zipPath string, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", zipPath, err)
	}
	defer r.Close()

	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", zipPath, err)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("archive: mkdir for %s: %w", target, err)
		}

		if err := extractOne(f, target); err != nil {
			return nil, fmt.Errorf("archive: extract %s: %w", f.Name, err)
		}
		written = append(written, target)
	}

	return written, nil
}

func extractOne(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return nil
}

// safeJoin resolves name under base and rejects the result if it would
// land outside base (archive entries may contain "../" components).
func safeJoin(base, name string) (string, error) {
	cleaned := filepath.Join(base, filepath.FromSlash(name))
	baseWithSep := filepath.Clean(base) + string(os.PathSeparator)
	if !strings.HasPrefix(cleaned, baseWithSep) && cleaned != filepath.Clean(base) {
		return "", fmt.Errorf("illegal file path %q escapes destination", name)
	}
	return cleaned, nil
}
