// Package assets copies third-party files declared by component manifests
// into the shared vendor directory of the output tree. It runs before every
// build and rebuild, after cleanup has emptied the output tree.
package assets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/themekit/internal/config"
	"git.home.luguber.info/inful/themekit/internal/manifest"
)

// VendorCopier copies manifest-declared vendor assets verbatim. Copies are
// keyed by base filename only: the source directory structure is discarded,
// and a name declared by two manifests silently overwrites. Known limitation.
type VendorCopier struct {
	cfg *config.Config
}

// New builds a VendorCopier.
func New(cfg *config.Config) *VendorCopier {
	return &VendorCopier{cfg: cfg}
}

// Run scans every component manifest fresh and copies its vendor assets.
// Errors are logged per manifest and per asset; one component's broken
// declaration never blocks another's copying. The first error is returned
// for visibility but callers continue the pipeline.
func (v *VendorCopier) Run() error {
	manifests, errs := manifest.Discover(v.cfg.ComponentsRoot(), v.cfg.Components.Manifest)
	var firstErr error
	for _, err := range errs {
		slog.Warn("skipping unreadable manifest", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	vendorRoot := v.cfg.VendorRoot()
	copied := map[string]string{}
	for _, m := range manifests {
		if len(m.Vendor) == 0 {
			continue
		}
		for label, src := range m.Vendor {
			srcPath := filepath.Join(v.cfg.Root, filepath.FromSlash(src))
			dst := filepath.Join(vendorRoot, filepath.Base(srcPath))
			if prev, ok := copied[dst]; ok {
				slog.Debug("vendor asset name collision, overwriting", "name", filepath.Base(srcPath), "previous", prev, "component", m.Name)
			}
			if err := copyFile(srcPath, dst); err != nil {
				slog.Warn("vendor asset copy failed", "component", m.Name, "asset", label, "source", src, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("copy vendor asset %s of %s: %w", label, m.Name, err)
				}
				continue
			}
			copied[dst] = m.Name
			slog.Debug("vendor asset copied", "component", m.Name, "asset", label, "dest", dst)
		}
	}
	return firstErr
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
