package bundler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/evanw/esbuild/pkg/api"
)

// PostBuildHook is invoked once per completed build or rebuild with the
// build's output manifest. Implementations must be safe to call repeatedly;
// the returned error is surfaced as a build error.
type PostBuildHook interface {
	AfterBuild(meta *Metafile) error
}

// postBuildPlugin adapts a PostBuildHook into a bundler plugin. The hook is
// skipped when the build itself failed: there is no usable output to process.
func postBuildPlugin(hook PostBuildHook) api.Plugin {
	return api.Plugin{
		Name: "post-build",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}
				meta, err := ParseMetafile([]byte(result.Metafile))
				if err != nil {
					return api.OnEndResult{}, err
				}
				if err := hook.AfterBuild(meta); err != nil {
					return api.OnEndResult{}, err
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

// messagesToError flattens bundler diagnostics into a single error.
func messagesToError(what string, messages []api.Message) error {
	if len(messages) == 0 {
		return nil
	}
	errs := make([]error, 0, len(messages))
	for _, m := range messages {
		if m.Location != nil {
			errs = append(errs, fmt.Errorf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
		} else {
			errs = append(errs, errors.New(m.Text))
		}
	}
	return fmt.Errorf("%s: %w", what, errors.Join(errs...))
}

func logWarnings(messages []api.Message) {
	for _, m := range messages {
		if m.Location != nil {
			slog.Warn("bundler warning", "file", m.Location.File, "line", m.Location.Line, "text", m.Text)
		} else {
			slog.Warn("bundler warning", "text", m.Text)
		}
	}
}
