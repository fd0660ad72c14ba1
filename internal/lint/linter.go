// Package lint performs advisory checks on style sources. A lint finding
// never fails the pipeline; non-empty reports are surfaced to the operator
// and empty ones are suppressed.
package lint

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// styleExtensions are the source extensions the linter inspects.
var styleExtensions = map[string]bool{".scss": true, ".css": true}

// skippedDirs are never descended into when scanning style roots.
var skippedDirs = map[string]bool{"vendor": true, "node_modules": true}

// Linter runs all style rules over a set of roots.
type Linter struct {
	rules []Rule
}

// NewLinter creates a linter with the default rule set.
func NewLinter() *Linter {
	return &Linter{
		rules: []Rule{
			DebugRule{},
			ImportantRule{},
			InvalidHexRule{},
			EmptySourceRule{},
		},
	}
}

// LintRoots lints every style source under the given roots (files or
// directories). Missing roots are skipped silently; vendor subdirectories
// are excluded.
func (l *Linter) LintRoots(roots ...string) (*Result, error) {
	result := &Result{Issues: []Issue{}}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if err := l.lintFile(root, result); err != nil {
				return nil, err
			}
			continue
		}
		if err := l.lintDirectory(root, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (l *Linter) lintDirectory(dir string, result *Result) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !styleExtensions[filepath.Ext(path)] {
			return nil
		}
		return l.lintFile(path, result)
	})
}

func (l *Linter) lintFile(path string, result *Result) error {
	result.FilesTotal++
	for _, rule := range l.rules {
		issues, err := rule.Check(path)
		if err != nil {
			return err
		}
		result.Issues = append(result.Issues, issues...)
	}
	return nil
}
