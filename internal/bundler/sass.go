package bundler

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bep/godartsass/v2"
	"github.com/evanw/esbuild/pkg/api"
)

// SassCompiler wraps a persistent dart-sass transpiler process. One compiler
// is shared across all builds of a process lifetime; Close must be called on
// shutdown.
type SassCompiler struct {
	transpiler *godartsass.Transpiler
}

// NewSassCompiler starts the style-preprocessing engine.
func NewSassCompiler() (*SassCompiler, error) {
	t, err := godartsass.Start(godartsass.Options{})
	if err != nil {
		return nil, fmt.Errorf("start sass transpiler: %w", err)
	}
	return &SassCompiler{transpiler: t}, nil
}

// Close shuts down the transpiler process.
func (s *SassCompiler) Close() error {
	return s.transpiler.Close()
}

// Plugin returns the bundler plugin that compiles .scss entry points and
// imports into plain CSS. When sourceMap is set the map is embedded inline,
// matching watch-mode builds.
func (s *SassCompiler) Plugin(includePaths []string, sourceMap bool) api.Plugin {
	return api.Plugin{
		Name: "sass",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.scss$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				src, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				paths := append([]string{filepath.Dir(args.Path)}, includePaths...)
				res, err := s.transpiler.Execute(godartsass.Args{
					Source:          string(src),
					URL:             "file://" + filepath.ToSlash(args.Path),
					IncludePaths:    paths,
					OutputStyle:     godartsass.OutputStyleExpanded,
					SourceSyntax:    godartsass.SourceSyntaxSCSS,
					EnableSourceMap: sourceMap,
				})
				if err != nil {
					return api.OnLoadResult{}, fmt.Errorf("compile %s: %w", args.Path, err)
				}
				css := res.CSS
				if sourceMap && res.SourceMap != "" {
					encoded := base64.StdEncoding.EncodeToString([]byte(res.SourceMap))
					css += "\n/*# sourceMappingURL=data:application/json;base64," + encoded + " */"
				}
				return api.OnLoadResult{
					Contents:   &css,
					Loader:     api.LoaderCSS,
					ResolveDir: filepath.Dir(args.Path),
					WatchFiles: []string{args.Path},
				}, nil
			})
		},
	}
}
