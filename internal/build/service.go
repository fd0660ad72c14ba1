// Package build sequences the asset pipeline. All execution paths (one-shot
// CLI build and the watch loop) route through Service: cleanup, vendor copy,
// bundling with post-build relocation, and the advisory style lint.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/themekit/internal/assets"
	"git.home.luguber.info/inful/themekit/internal/bundler"
	"git.home.luguber.info/inful/themekit/internal/cleanup"
	"git.home.luguber.info/inful/themekit/internal/config"
	"git.home.luguber.info/inful/themekit/internal/lint"
	"git.home.luguber.info/inful/themekit/internal/relocate"
	"git.home.luguber.info/inful/themekit/internal/watch"
)

// Stage is one sequenced pipeline step. Stages run strictly one after the
// other; that sequencing is the pipeline's concurrency-safety mechanism.
type Stage interface {
	Run() error
}

// Service executes complete build cycles.
type Service struct {
	cfg     *config.Config
	cleaner Stage
	vendor  Stage
	linter  *lint.Linter
}

// NewService wires the pipeline stages for the given configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		cleaner: cleanup.New(cfg),
		vendor:  assets.New(cfg),
		linter:  lint.NewLinter(),
	}
}

// RunOnce performs a single build and returns any fatal error: cleanup and
// vendor failures are best-effort, a bundler failure fails the run.
func (s *Service) RunOnce(ctx context.Context) error {
	sass, err := bundler.NewSassCompiler()
	if err != nil {
		return err
	}
	defer func() { _ = sass.Close() }()

	relocator := relocate.New(s.cfg, false)
	b := bundler.New(s.cfg, sass, relocator, false)

	return s.runCycle(b.Build)
}

// RunWatch performs the first full build, then blocks in the watch loop
// until ctx is cancelled. Build failures inside the loop are logged and the
// loop continues; only setup failures are returned.
func (s *Service) RunWatch(ctx context.Context) error {
	sass, err := bundler.NewSassCompiler()
	if err != nil {
		return err
	}
	defer func() { _ = sass.Close() }()

	relocator := relocate.New(s.cfg, true)
	b := bundler.New(s.cfg, sass, relocator, true)

	ictx, err := b.Context()
	if err != nil {
		return err
	}
	defer ictx.Dispose()

	if err := s.runCycle(ictx.Rebuild); err != nil {
		slog.Error("initial build failed", "error", err)
	}

	loop := watch.New(s.cfg, func(styleTouched bool) error {
		if err := s.runCycle(ictx.Rebuild); err != nil {
			return err
		}
		if styleTouched {
			s.lintStyles()
		}
		return nil
	})
	return loop.Run(ctx)
}

// runCycle executes one cycle in the fixed stage order. Each cycle gets its
// own ID for log correlation.
func (s *Service) runCycle(bundle func() error) error {
	id := uuid.NewString()[:8]
	start := time.Now()
	slog.Info("build cycle starting", "build_id", id)

	if err := s.cleaner.Run(); err != nil {
		slog.Warn("cleanup incomplete, continuing", "build_id", id, "error", err)
	}
	if err := s.vendor.Run(); err != nil {
		slog.Warn("vendor copy incomplete, continuing", "build_id", id, "error", err)
	}
	if err := bundle(); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}

	slog.Info("build cycle completed", "build_id", id, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// lintStyles runs the advisory style lint over the shared style roots and
// every component style source. Findings never fail the pipeline; an empty
// report is suppressed.
func (s *Service) lintStyles() {
	if s.cfg.Lint.Disabled {
		return
	}
	roots := s.cfg.StyleRoots()
	targets, err := bundler.DiscoverComponentTargets(s.cfg)
	if err != nil {
		slog.Warn("style lint skipped", "error", err)
		return
	}
	for _, t := range targets {
		if t.Kind == config.KindStyle {
			roots = append(roots, filepath.Join(s.cfg.Root, filepath.FromSlash(t.Path)))
		}
	}

	result, err := s.linter.LintRoots(roots...)
	if err != nil {
		slog.Warn("style lint failed", "error", err)
		return
	}
	if result.Empty() {
		return
	}
	if err := lint.FormatText(os.Stderr, result); err != nil {
		slog.Warn("writing lint report failed", "error", err)
	}
}
