// # internal/source/source.go
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Unit is one entry of the module source set: a canonical-name candidate
// (project-relative path), the raw text, and its byte size.
type Unit struct {
	// Path is the slash-separated path relative to the scan root.
	Path string
	// Size is the byte size of the original source.
	Size int64
	// Content is the raw file text.
	Content []byte
}

// Set is an ordered collection of units rooted at a single directory.
type Set struct {
	Root  string
	Units []Unit
}

// TotalBytes sums the original source sizes across all units.
func (s *Set) TotalBytes() int64 {
	var total int64
	for _, u := range s.Units {
		total += u.Size
	}
	return total
}

// Crawl walks root and collects every file whose extension is listed in
// extensions, skipping directories and files matching the exclude globs.
// Units come back sorted by relative path.
func Crawl(root string, extensions []string, excludeDirs, excludeFiles []string) (*Set, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %q: %w", root, err)
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	dirGlobs, err := compileGlobs(excludeDirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(excludeFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}

	set := &Set{Root: absRoot}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			for _, g := range dirGlobs {
				if g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !extSet[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		for _, g := range fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}

		set.Units = append(set.Units, Unit{
			Path:    filepath.ToSlash(rel),
			Size:    int64(len(content)),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(set.Units, func(i, j int) bool { return set.Units[i].Path < set.Units[j].Path })
	return set, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
