// Package discover walks a project's source directory and maps each
// translation unit to its mirrored object and dependency paths.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Language identifies which compiler driver a translation unit needs.
type Language int

const (
	C Language = iota
	CPP
)

func (l Language) String() string {
	if l == CPP {
		return "c++"
	}
	return "c"
}

var cExts = map[string]bool{".c": true}
var cppExts = map[string]bool{".cpp": true, ".cc": true, ".cxx": true}

// TranslationUnit is one discovered source file together with its mirrored
// build artifact paths, both relative to the project root.
type TranslationUnit struct {
	SourcePath string
	Language   Language
	ObjectPath string
	DepPath    string
}

// Discover walks sourceDir (relative to the project root) and returns every
// recognized translation unit, sorted lexicographically by source path for
// deterministic output. tempDir is used to compute mirrored object/dep paths.
func Discover(sourceDir, tempDir string) ([]TranslationUnit, error) {
	fsys := os.DirFS(sourceDir)
	matches, err := doublestar.Glob(fsys, "**/*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	var units []TranslationUnit
	for _, rel := range matches {
		ext := strings.ToLower(filepath.Ext(rel))
		var lang Language
		switch {
		case cExts[ext]:
			lang = C
		case cppExts[ext]:
			lang = CPP
		default:
			continue
		}

		objPath, depPath := MirrorPath(tempDir, rel)
		units = append(units, TranslationUnit{
			SourcePath: filepath.ToSlash(filepath.Join(sourceDir, rel)),
			Language:   lang,
			ObjectPath: objPath,
			DepPath:    depPath,
		})
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].SourcePath < units[j].SourcePath
	})

	return units, nil
}

// MirrorPath computes the object and dependency paths for a source path rel
// (relative to source_dir) under tempDir, preserving rel's directory
// structure verbatim so that distinct source directories never collide.
func MirrorPath(tempDir, rel string) (objectPath, depPath string) {
	ext := filepath.Ext(rel)
	trimmed := strings.TrimSuffix(rel, ext)
	objectPath = filepath.ToSlash(filepath.Join(tempDir, trimmed+".o"))
	depPath = filepath.ToSlash(filepath.Join(tempDir, trimmed+".d"))
	return objectPath, depPath
}
