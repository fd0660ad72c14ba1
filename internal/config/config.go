// Package config holds the typed configuration for the theme asset pipeline.
// All paths are relative to the project root unless noted otherwise; the
// loaded Config is threaded explicitly into every stage constructor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// TargetKind classifies a build entry point.
type TargetKind string

const (
	KindStyle  TargetKind = "style"
	KindScript TargetKind = "script"
)

// Config is the top-level configuration, loaded from theme.yaml.
type Config struct {
	// Root is the absolute project root. Not read from YAML; resolved at load time.
	Root string `yaml:"-"`

	Components ComponentsConfig `yaml:"components,omitempty"`
	Entries    EntriesConfig    `yaml:"entries,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Watch      WatchConfig      `yaml:"watch,omitempty"`
	Lint       LintConfig       `yaml:"lint,omitempty"`
}

// ComponentsConfig describes where components live and how their assets are named.
type ComponentsConfig struct {
	// Dir is the components root directory.
	Dir string `yaml:"dir,omitempty"`
	// SourceDir is the per-component subdirectory holding compilable sources.
	// Files outside this segment never trigger rebuilds and are never treated
	// as entry points.
	SourceDir string `yaml:"source_dir,omitempty"`
	// Prefix marks a file as a component asset (entry point selection and
	// cleanup of previously relocated artifacts both key on it).
	Prefix string `yaml:"prefix,omitempty"`
	// Manifest is the per-component manifest file name.
	Manifest string `yaml:"manifest,omitempty"`
}

// EntriesConfig lists the shared (theme-wide) entry points.
type EntriesConfig struct {
	Styles  []string `yaml:"styles,omitempty"`
	Scripts []string `yaml:"scripts,omitempty"`
}

// OutputConfig describes the central output tree.
type OutputConfig struct {
	// Dir is the central output directory, cleared before every build.
	Dir string `yaml:"dir,omitempty"`
	// ChunkDir is where shared script chunks are emitted, relative to Dir.
	// Chunks are never relocated; component scripts are rewritten to import
	// them from here.
	ChunkDir string `yaml:"chunk_dir,omitempty"`
	// VendorDir is where vendor assets are copied, relative to Dir.
	VendorDir string `yaml:"vendor_dir,omitempty"`
	// ExternalExtensions are asset extensions the bundler leaves unresolved.
	ExternalExtensions []string `yaml:"external_extensions,omitempty"`
}

// WatchConfig tunes the watch loop.
type WatchConfig struct {
	// Debounce is how long to wait after the last filesystem event before
	// triggering a rebuild (time.ParseDuration syntax, e.g. "300ms").
	Debounce string `yaml:"debounce,omitempty"`
}

// DebounceInterval parses the configured debounce; invalid or missing values
// fall back to the default.
func (w WatchConfig) DebounceInterval() time.Duration {
	if d, err := time.ParseDuration(w.Debounce); err == nil && d > 0 {
		return d
	}
	return 300 * time.Millisecond
}

// LintConfig tunes the style linter.
type LintConfig struct {
	// Disabled turns off the post-rebuild lint pass entirely.
	Disabled bool `yaml:"disabled,omitempty"`
}

// Default returns a Config with all defaults applied, rooted at root.
func Default(root string) *Config {
	cfg := &Config{Root: root}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file at path. A missing file is not
// an error: the defaults apply, rooted at the file's directory.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	root := filepath.Dir(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(root), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{Root: root}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults normalizes zero values to the standard layout conventions.
func (c *Config) applyDefaults() {
	if c.Components.Dir == "" {
		c.Components.Dir = "components"
	}
	if c.Components.SourceDir == "" {
		c.Components.SourceDir = "src"
	}
	if c.Components.Prefix == "" {
		c.Components.Prefix = "c-"
	}
	if c.Components.Manifest == "" {
		c.Components.Manifest = "component.yaml"
	}
	if len(c.Entries.Styles) == 0 {
		c.Entries.Styles = []string{"assets/css/theme.scss"}
	}
	if len(c.Entries.Scripts) == 0 {
		c.Entries.Scripts = []string{"assets/js/main.ts"}
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "dist"
	}
	if c.Output.ChunkDir == "" {
		c.Output.ChunkDir = "assets/js/chunks"
	}
	if c.Output.VendorDir == "" {
		c.Output.VendorDir = "assets/css/vendor"
	}
	if len(c.Output.ExternalExtensions) == 0 {
		c.Output.ExternalExtensions = []string{
			".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif",
			".woff", ".woff2", ".ttf", ".eot", ".json",
		}
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "300ms"
	}
}

// ComponentsRoot returns the absolute components root directory.
func (c *Config) ComponentsRoot() string {
	return filepath.Join(c.Root, c.Components.Dir)
}

// OutputRoot returns the absolute central output directory.
func (c *Config) OutputRoot() string {
	return filepath.Join(c.Root, c.Output.Dir)
}

// ChunkRoot returns the absolute shared chunk directory.
func (c *Config) ChunkRoot() string {
	return filepath.Join(c.OutputRoot(), filepath.FromSlash(c.Output.ChunkDir))
}

// VendorRoot returns the absolute shared vendor asset directory.
func (c *Config) VendorRoot() string {
	return filepath.Join(c.OutputRoot(), filepath.FromSlash(c.Output.VendorDir))
}

// StyleRoots returns the absolute directories holding shared style sources.
func (c *Config) StyleRoots() []string {
	seen := map[string]bool{}
	var roots []string
	for _, e := range c.Entries.Styles {
		dir := filepath.Join(c.Root, filepath.FromSlash(filepath.Dir(e)))
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}
