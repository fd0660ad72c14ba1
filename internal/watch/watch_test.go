package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themekit/internal/config"
)

func TestIsSourcePath_ComponentSourcesTrigger(t *testing.T) {
	cfg := config.Default("/proj")
	l := New(cfg, nil)

	require.True(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "src", "c-card.scss")))
	require.True(t, l.IsSourcePath(filepath.Join("/proj", "components", "nav", "menu", "src", "c-menu.ts")))
}

func TestIsSourcePath_RelocatedArtifactsDoNot(t *testing.T) {
	cfg := config.Default("/proj")
	l := New(cfg, nil)

	// The pipeline's own outputs live next to the manifest, outside src.
	require.False(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "c-card.css")))
	require.False(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "c-card.js")))
	require.False(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "component.yaml")))
}

func TestIsSourcePath_SharedAssetRootsTrigger(t *testing.T) {
	cfg := config.Default("/proj")
	l := New(cfg, nil)

	require.True(t, l.IsSourcePath(filepath.Join("/proj", "assets", "css", "theme.scss")))
	require.True(t, l.IsSourcePath(filepath.Join("/proj", "assets", "js", "main.ts")))
}

func TestIsSourcePath_IgnoresHiddenAndTempFiles(t *testing.T) {
	cfg := config.Default("/proj")
	l := New(cfg, nil)

	require.False(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "src", ".c-card.scss.swp")))
	require.False(t, l.IsSourcePath(filepath.Join("/proj", "components", "card", "src", "c-card.scss~")))
	require.False(t, l.IsSourcePath(filepath.Join("/proj", "assets", "css", "#theme.scss#")))
}

func TestIsStyleSource(t *testing.T) {
	require.True(t, isStyleSource("a/b/c-card.scss"))
	require.True(t, isStyleSource("a/b/theme.css"))
	require.False(t, isStyleSource("a/b/c-card.ts"))
}

func TestRun_TriggersRebuildOnSourceChange(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Watch.Debounce = "20ms"
	srcDir := filepath.Join(root, "components", "card", "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "js"), 0o755))

	rebuilt := make(chan bool, 8)
	l := New(cfg, func(styleTouched bool) error {
		rebuilt <- styleTouched
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// Give the watcher time to register the roots.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "c-card.scss"), []byte(".a{}"), 0o644))

	select {
	case styleTouched := <-rebuilt:
		require.True(t, styleTouched)
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild triggered by style source change")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop on cancellation")
	}
}

func TestRun_IgnoresCompiledArtifactWrites(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Watch.Debounce = "20ms"
	compDir := filepath.Join(root, "components", "card")
	require.NoError(t, os.MkdirAll(filepath.Join(compDir, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "js"), 0o755))

	rebuilt := make(chan bool, 8)
	l := New(cfg, func(styleTouched bool) error {
		rebuilt <- styleTouched
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	// Simulates the relocation plugin writing its output next to the manifest.
	require.NoError(t, os.WriteFile(filepath.Join(compDir, "c-card.css"), []byte(".a{}"), 0o644))

	select {
	case <-rebuilt:
		t.Fatal("compiled artifact write must not trigger a rebuild")
	case <-time.After(500 * time.Millisecond):
	}
}
