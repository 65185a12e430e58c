// Package discover lists and orders the Glog files produced by a single
// extracted archive (spec §6 "file discovery and ordering", an external
// collaborator rather than part of the core decoder).
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
)

// glogNamePattern matches the writer's "async-YYYYMMDD.glog" naming
// convention (original_source/src/main.rs::get_glog_files).
var glogNamePattern = regexp.MustCompile(`^async-\d{8}\.glog$`)

// GlogFiles walks dir recursively for "async-YYYYMMDD.glog" files, sorted
// descending by base filename (and therefore by embedded date). Recursion
// matches original_source/src/main.rs's own WalkDir-based discovery, since
// extracted archives may preserve a subdirectory layout. This also follows
// the original's actual descending sort order rather than spec.md's stated
// ascending order; see DESIGN.md for why the original's behavior was
// followed.
func GlogFiles(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if glogNamePattern.MatchString(d.Name()) {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover: walk %s: %w", dir, err)
	}

	sort.Sort(sort.Reverse(byBaseName(names)))

	return names, nil
}

// MmapFiles walks dir recursively for "*.glogmmap" files, sorted descending
// by modification time (original_source/src/main.rs::get_mmap_files).
func MmapFiles(dir string) ([]string, error) {
	type named struct {
		path    string
		modTime int64
	}
	var files []named
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != ".glogmmap" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		files = append(files, named{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover: walk %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime > files[j].modTime })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// byBaseName sorts full paths by their base filename, matching the
// original's sort key (which assumed a flat directory of sibling files).
type byBaseName []string

func (b byBaseName) Len() int           { return len(b) }
func (b byBaseName) Less(i, j int) bool { return filepath.Base(b[i]) < filepath.Base(b[j]) }
func (b byBaseName) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
