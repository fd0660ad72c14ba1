// Package relocate implements the post-build relocation pass: component-owned
// build outputs are moved out of the central output tree into their owning
// component's directory, with shared-chunk references rewritten so the moved
// scripts still resolve shared code from their new, shallower location.
package relocate

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/themekit/internal/bundler"
	"git.home.luguber.info/inful/themekit/internal/config"
)

// Relocator moves component artifacts back next to their sources after every
// build. It implements the bundler's post-build hook.
type Relocator struct {
	cfg *config.Config
	// moveSourceMaps is set in watch mode, where the bundler emits companion
	// .map files next to every script artifact.
	moveSourceMaps bool
}

// New builds a Relocator. Set moveSourceMaps when the bundler runs with
// source maps enabled.
func New(cfg *config.Config, moveSourceMaps bool) *Relocator {
	return &Relocator{cfg: cfg, moveSourceMaps: moveSourceMaps}
}

// relocation is one artifact's unit of work. Failures are isolated per
// relocation; one artifact failing never blocks the others.
type relocation struct {
	// outPath is the artifact's current absolute path in the output tree.
	outPath string
	// destPath is the absolute destination inside the component directory.
	destPath string
	script   bool
}

// AfterBuild relocates every component-owned output named in the manifest.
// Outputs without an originating entry point (shared chunks, map files) are
// left in place. All relocations within one build run concurrently.
func (r *Relocator) AfterBuild(meta *bundler.Metafile) error {
	plan := r.plan(meta)
	if len(plan) == 0 {
		return nil
	}

	// Destination lookup for import rewriting: a moved artifact importing
	// another moved artifact must point at its post-move location.
	dests := make(map[string]string, len(plan))
	for _, rel := range plan {
		dests[rel.outPath] = rel.destPath
	}

	var g errgroup.Group
	for _, rel := range plan {
		rel := rel
		g.Go(func() error {
			if err := r.relocateOne(rel, dests); err != nil {
				slog.Error("relocation failed", "artifact", rel.outPath, "error", err)
				return fmt.Errorf("relocate %s: %w", rel.outPath, err)
			}
			return nil
		})
	}
	err := g.Wait()
	slog.Debug("relocation pass completed", "artifacts", len(plan))
	return err
}

// plan selects the component-owned outputs and computes their destinations.
func (r *Relocator) plan(meta *bundler.Metafile) []relocation {
	componentsPrefix := r.cfg.Components.Dir + "/"
	var plan []relocation
	for outPath, out := range meta.Outputs {
		if out.EntryPoint == "" {
			continue
		}
		if !strings.HasPrefix(out.EntryPoint, componentsPrefix) {
			continue
		}
		ext := filepath.Ext(outPath)
		if ext != ".css" && ext != ".js" {
			continue
		}
		dest, ok := r.destinationFor(outPath)
		if !ok {
			continue
		}
		plan = append(plan, relocation{
			outPath:  filepath.Join(r.cfg.Root, filepath.FromSlash(outPath)),
			destPath: dest,
			script:   ext == ".js",
		})
	}
	return plan
}

// destinationFor maps an output path (project-root relative, slash form) to
// its component-local destination: the output-dir prefix and the intermediate
// source segment are dropped so the artifact lands directly in the component
// directory. Extension normalization already happened in the bundler.
func (r *Relocator) destinationFor(outPath string) (string, bool) {
	rel, ok := strings.CutPrefix(outPath, r.cfg.Output.Dir+"/")
	if !ok {
		return "", false
	}
	segments := strings.Split(rel, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == r.cfg.Components.SourceDir {
			continue
		}
		kept = append(kept, seg)
	}
	return filepath.Join(r.cfg.Root, filepath.FromSlash(strings.Join(kept, "/"))), true
}

// relocateOne rewrites one artifact in place (scripts only), then moves it.
// The companion map file moves along in watch mode.
func (r *Relocator) relocateOne(rel relocation, dests map[string]string) error {
	if rel.script {
		if err := r.rewriteArtifact(rel, dests); err != nil {
			return err
		}
	}
	if err := moveFile(rel.outPath, rel.destPath); err != nil {
		return err
	}
	if r.moveSourceMaps {
		mapSrc := rel.outPath + ".map"
		if _, err := os.Stat(mapSrc); err == nil {
			if err := moveFile(mapSrc, rel.destPath+".map"); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteArtifact repoints relative imports while the artifact still resides
// at its pre-move path.
func (r *Relocator) rewriteArtifact(rel relocation, dests map[string]string) error {
	content, err := os.ReadFile(rel.outPath)
	if err != nil {
		return err
	}
	rewritten := RewriteImports(content, filepath.Dir(rel.outPath), filepath.Dir(rel.destPath), r.cfg.OutputRoot(), dests)
	if bytes.Equal(rewritten, content) {
		return nil
	}
	info, err := os.Stat(rel.outPath)
	if err != nil {
		return err
	}
	return os.WriteFile(rel.outPath, rewritten, info.Mode().Perm())
}

// moveFile renames src to dst, overwriting dst, creating parent directories
// as needed. Falls back to copy+remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
