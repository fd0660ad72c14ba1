package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themekit/internal/config"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_CopiesDeclaredAssetByBaseName(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)

	write(t, filepath.Join(root, "node_modules", "flickity", "dist", "flickity.css"), ".flickity{}")
	write(t, filepath.Join(root, "components", "card", "component.yaml"), `
name: card
vendor:
  flickity: node_modules/flickity/dist/flickity.css
`)

	require.NoError(t, New(cfg).Run())

	data, err := os.ReadFile(filepath.Join(root, "dist", "assets", "css", "vendor", "flickity.css"))
	require.NoError(t, err)
	require.Equal(t, ".flickity{}", string(data))

	// Exactly one file lands in the vendor directory.
	entries, err := os.ReadDir(filepath.Join(root, "dist", "assets", "css", "vendor"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRun_MissingAssetDoesNotBlockOthers(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)

	write(t, filepath.Join(root, "vendor-src", "good.css"), "/*ok*/")
	write(t, filepath.Join(root, "components", "a", "component.yaml"), `
vendor:
  nope: vendor-src/missing.css
`)
	write(t, filepath.Join(root, "components", "b", "component.yaml"), `
vendor:
  good: vendor-src/good.css
`)

	err := New(cfg).Run()
	require.Error(t, err)
	require.FileExists(t, filepath.Join(root, "dist", "assets", "css", "vendor", "good.css"))
}

func TestRun_NoManifestsIsSuccess(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)

	require.NoError(t, New(cfg).Run())
	require.NoDirExists(t, filepath.Join(root, "dist", "assets", "css", "vendor"))
}

func TestRun_ManifestWithoutVendorIsSkipped(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	write(t, filepath.Join(root, "components", "card", "component.yaml"), "name: card\n")

	require.NoError(t, New(cfg).Run())
	require.NoDirExists(t, filepath.Join(root, "dist", "assets", "css", "vendor"))
}
