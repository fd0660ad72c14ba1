// Package bundler adapts the external bundling engine to the pipeline. It
// owns entry-point discovery, option assembly, and the post-build hook seam
// through which relocation runs; it never interprets artifact contents
// itself.
package bundler

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/themekit/internal/config"
)

// Bundler drives the external bundling engine. Minification and source maps
// follow the mode: one-shot builds minify without maps, watch builds emit
// maps without minifying.
type Bundler struct {
	cfg   *config.Config
	sass  *SassCompiler
	hook  PostBuildHook
	watch bool
}

// New wires a Bundler. The hook runs after every successful (re)build with
// the build's output manifest.
func New(cfg *config.Config, sass *SassCompiler, hook PostBuildHook, watch bool) *Bundler {
	return &Bundler{cfg: cfg, sass: sass, hook: hook, watch: watch}
}

// options assembles the engine configuration, re-discovering component entry
// points so files added since the last cycle are picked up.
func (b *Bundler) options() (api.BuildOptions, error) {
	targets := SharedTargets(b.cfg)
	componentTargets, err := DiscoverComponentTargets(b.cfg)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("discover component targets: %w", err)
	}
	targets = append(targets, componentTargets...)

	entryPoints := make([]string, 0, len(targets))
	for _, t := range targets {
		entryPoints = append(entryPoints, t.Path)
	}

	externals := make([]string, 0, len(b.cfg.Output.ExternalExtensions))
	for _, ext := range b.cfg.Output.ExternalExtensions {
		externals = append(externals, "*"+ext)
	}

	sourcemap := api.SourceMapNone
	if b.watch {
		sourcemap = api.SourceMapLinked
	}

	return api.BuildOptions{
		AbsWorkingDir:     b.cfg.Root,
		EntryPoints:       entryPoints,
		Outdir:            b.cfg.Output.Dir,
		Outbase:           ".",
		EntryNames:        "[dir]/[name]",
		ChunkNames:        path.Join(b.cfg.Output.ChunkDir, "[name]-[hash]"),
		Bundle:            true,
		Splitting:         true,
		Format:            api.FormatESModule,
		MinifyWhitespace:  !b.watch,
		MinifyIdentifiers: !b.watch,
		MinifySyntax:      !b.watch,
		Sourcemap:         sourcemap,
		External:          externals,
		Metafile:          true,
		Write:             true,
		LogLevel:          api.LogLevelSilent,
		Plugins: []api.Plugin{
			b.sass.Plugin(b.cfg.StyleRoots(), b.watch),
			postBuildPlugin(b.hook),
		},
	}, nil
}

// Build runs a single one-shot build, including the post-build hook.
func (b *Bundler) Build() error {
	opts, err := b.options()
	if err != nil {
		return err
	}
	result := api.Build(opts)
	logWarnings(result.Warnings)
	if err := messagesToError("build", result.Errors); err != nil {
		return err
	}
	slog.Debug("build completed", "outputs", countOutputs(result.Metafile))
	return nil
}

// IncrementalContext is a persistent build context supporting repeated
// rebuilds. The post-build hook re-runs on every Rebuild.
type IncrementalContext struct {
	ctx api.BuildContext
}

// Context establishes the persistent incremental build context. No build has
// run yet when it returns; call Rebuild for the first build.
func (b *Bundler) Context() (*IncrementalContext, error) {
	opts, err := b.options()
	if err != nil {
		return nil, err
	}
	ctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, messagesToError("build context", ctxErr.Errors)
	}
	return &IncrementalContext{ctx: ctx}, nil
}

// Rebuild runs one incremental build to completion.
func (c *IncrementalContext) Rebuild() error {
	result := c.ctx.Rebuild()
	logWarnings(result.Warnings)
	return messagesToError("rebuild", result.Errors)
}

// Dispose releases the context's resources.
func (c *IncrementalContext) Dispose() {
	c.ctx.Dispose()
}

func countOutputs(metafile string) int {
	meta, err := ParseMetafile([]byte(metafile))
	if err != nil {
		return 0
	}
	return len(meta.Outputs)
}
