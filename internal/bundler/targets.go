package bundler

import (
	"io/fs"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/themekit/internal/config"
)

// BuildTarget is one entry point handed to the bundler.
type BuildTarget struct {
	// Path is relative to the project root, slash-separated.
	Path string
	Kind config.TargetKind
	// Component marks targets discovered under the components root; their
	// outputs are relocated after every build.
	Component bool
}

var sourceExtensions = map[string]config.TargetKind{
	".scss": config.KindStyle,
	".ts":   config.KindScript,
}

// SharedTargets returns the theme-wide entry points declared in the config.
func SharedTargets(cfg *config.Config) []BuildTarget {
	var targets []BuildTarget
	for _, e := range cfg.Entries.Styles {
		targets = append(targets, BuildTarget{Path: e, Kind: config.KindStyle})
	}
	for _, e := range cfg.Entries.Scripts {
		targets = append(targets, BuildTarget{Path: e, Kind: config.KindScript})
	}
	return targets
}

// DiscoverComponentTargets walks the components root and selects entry
// points by the file-naming convention: a component-prefixed style or script
// source living under the component's source directory. A missing components
// root yields no targets.
func DiscoverComponentTargets(cfg *config.Config) ([]BuildTarget, error) {
	root := cfg.ComponentsRoot()
	var targets []BuildTarget

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		kind, ok := sourceExtensions[filepath.Ext(path)]
		if !ok {
			return nil
		}
		if !strings.HasPrefix(d.Name(), cfg.Components.Prefix) {
			return nil
		}
		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !underSourceSegment(rel, cfg.Components.SourceDir) {
			return nil
		}
		targets = append(targets, BuildTarget{Path: rel, Kind: kind, Component: true})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// underSourceSegment reports whether the slash-separated relative path
// contains the source directory as a whole segment.
func underSourceSegment(rel, sourceDir string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == sourceDir {
			return true
		}
	}
	return false
}
