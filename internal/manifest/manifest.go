// Package manifest reads per-component manifest files. Manifests are parsed
// fresh on every build cycle so edits take effect on the next rebuild.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ComponentManifest is the structured declaration living next to a
// component's sources.
type ComponentManifest struct {
	// Name is the component's display name; optional, defaults to the
	// directory name at load time.
	Name string `yaml:"name,omitempty"`
	// Description is free-form documentation.
	Description string `yaml:"description,omitempty"`
	// Vendor maps a label to a third-party asset path (relative to the
	// project root) copied verbatim into the shared vendor directory.
	// Copies are keyed by base filename only, so names must be unique
	// across all manifests.
	Vendor map[string]string `yaml:"vendor,omitempty"`

	// Dir is the absolute component directory. Set at load time.
	Dir string `yaml:"-"`
	// Path is the absolute manifest file path. Set at load time.
	Path string `yaml:"-"`
}

// Load parses a single manifest file.
func Load(path string) (*ComponentManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &ComponentManifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.Path = path
	m.Dir = filepath.Dir(path)
	if m.Name == "" {
		m.Name = filepath.Base(m.Dir)
	}
	return m, nil
}

// Discover walks the components root and loads every manifest named fileName.
// Unreadable or malformed manifests are returned as errors alongside the
// manifests that did parse; callers log and continue.
func Discover(componentsRoot, fileName string) ([]*ComponentManifest, []error) {
	var manifests []*ComponentManifest
	var errs []error

	walkErr := filepath.WalkDir(componentsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || d.Name() != fileName {
			return nil
		}
		m, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		manifests = append(manifests, m)
		return nil
	})
	if walkErr != nil && !os.IsNotExist(walkErr) {
		errs = append(errs, fmt.Errorf("scan components root: %w", walkErr))
	}
	return manifests, errs
}
