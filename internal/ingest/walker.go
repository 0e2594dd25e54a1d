package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxDocSize caps individual documents at 1 MB; anything larger is almost
// certainly not a hand-written knowledge-base article.
const maxDocSize int64 = 1 << 20

// defaultExcludeDirs are directory names skipped during traversal.
var defaultExcludeDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".idea",
	".vscode",
}

// Document is one knowledge-base file discovered during traversal.
type Document struct {
	Path    string // absolute path on disk
	RelPath string // path relative to the root, forward slashes
	Size    int64
}

// WalkDocs traverses root and returns the documents matching the include
// patterns and not matching the exclude patterns. Patterns use doublestar
// globs (** supported) against the slash-normalized relative path.
func WalkDocs(root string, include, exclude []string) ([]Document, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var docs []Document
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel := filepath.ToSlash(relPath)

		if !matchesAny(rel, include) {
			return nil
		}
		if len(exclude) > 0 && matchesAny(rel, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxDocSize {
			return nil
		}

		docs = append(docs, Document{Path: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("traversal: %w", err)
	}
	return docs, nil
}

func excludedDir(name string) bool {
	for _, excl := range defaultExcludeDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// matchesAny checks relPath against each glob, also trying the bare filename
// so patterns like "*.md" work anywhere in the tree.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
	}
	return false
}
