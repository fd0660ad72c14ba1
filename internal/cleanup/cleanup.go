// Package cleanup guarantees that no stale output survives into the next
// build cycle: the central output tree is emptied and previously relocated
// component artifacts are deleted before the bundler runs. Without it, a
// renamed or deleted source file would leave its old artifact behind.
package cleanup

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/themekit/internal/config"
)

// Stage removes all build output from previous cycles. Safe to run when
// nothing exists yet; zero matches is success.
type Stage struct {
	cfg *config.Config
}

// New builds a cleanup stage.
func New(cfg *config.Config) *Stage {
	return &Stage{cfg: cfg}
}

// compiledExtensions are the artifact extensions the pipeline writes into
// component directories, plus their companion map files.
var compiledExtensions = []string{".css", ".js", ".css.map", ".js.map"}

// Run clears the central output directory (recreating it empty) and deletes
// relocated component artifacts under the components root. Errors are
// logged and do not abort the stage: an unwritable output directory
// surfaces again at build time.
func (s *Stage) Run() error {
	var firstErr error

	out := s.cfg.OutputRoot()
	if err := os.RemoveAll(out); err != nil {
		slog.Warn("clearing output directory failed", "dir", out, "error", err)
		firstErr = err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		slog.Warn("creating output directory failed", "dir", out, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := s.deleteRelocatedArtifacts(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// deleteRelocatedArtifacts removes files matching the component naming
// convention with a compiled extension anywhere under the components root.
// Sources keep their style/script source extensions and are never touched.
func (s *Stage) deleteRelocatedArtifacts() error {
	root := s.cfg.ComponentsRoot()
	var firstErr error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.isRelocatedArtifact(d.Name()) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("deleting stale artifact failed", "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		slog.Debug("deleted stale artifact", "path", path)
		return nil
	})
	if walkErr != nil && !os.IsNotExist(walkErr) && firstErr == nil {
		firstErr = walkErr
	}
	return firstErr
}

func (s *Stage) isRelocatedArtifact(name string) bool {
	if !strings.HasPrefix(name, s.cfg.Components.Prefix) {
		return false
	}
	for _, ext := range compiledExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
