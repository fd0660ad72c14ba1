package relocate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteImports_StaticChunkImport(t *testing.T) {
	root := "/proj"
	outDir := filepath.Join(root, "dist", "components", "card", "src")
	destDir := filepath.Join(root, "components", "card")
	outputRoot := filepath.Join(root, "dist")

	content := []byte(`import { shared } from "../../../assets/js/chunks/chunk-ABC.js";`)
	got := RewriteImports(content, outDir, destDir, outputRoot, nil)

	require.Equal(t, `import { shared } from "../../dist/assets/js/chunks/chunk-ABC.js";`, string(got))
}

func TestRewriteImports_DynamicImport(t *testing.T) {
	root := "/proj"
	outDir := filepath.Join(root, "dist", "components", "card", "src")
	destDir := filepath.Join(root, "components", "card")
	outputRoot := filepath.Join(root, "dist")

	content := []byte(`const mod = await import("../../../assets/js/chunks/lazy-XYZ.js");`)
	got := RewriteImports(content, outDir, destDir, outputRoot, nil)

	require.Equal(t, `const mod = await import("../../dist/assets/js/chunks/lazy-XYZ.js");`, string(got))
}

func TestRewriteImports_MinifiedOutput(t *testing.T) {
	root := "/proj"
	outDir := filepath.Join(root, "dist", "components", "card", "src")
	destDir := filepath.Join(root, "components", "card")
	outputRoot := filepath.Join(root, "dist")

	// One-shot builds minify whitespace away.
	content := []byte(`import{a}from"../../../assets/js/chunks/chunk-ABC.js";a();`)
	got := RewriteImports(content, outDir, destDir, outputRoot, nil)

	require.Equal(t, `import{a}from"../../dist/assets/js/chunks/chunk-ABC.js";a();`, string(got))
}

func TestRewriteImports_RelocatedSiblingRepointsToDestination(t *testing.T) {
	root := "/proj"
	outDir := filepath.Join(root, "dist", "components", "card", "src")
	destDir := filepath.Join(root, "components", "card")
	outputRoot := filepath.Join(root, "dist")

	dests := map[string]string{
		filepath.Join(root, "dist", "components", "teaser", "src", "c-teaser.js"): filepath.Join(root, "components", "teaser", "c-teaser.js"),
	}

	content := []byte(`import "../../teaser/src/c-teaser.js";`)
	got := RewriteImports(content, outDir, destDir, outputRoot, dests)

	require.Equal(t, `import "../teaser/c-teaser.js";`, string(got))
}

func TestRewriteImports_LeavesOutsideReferencesAlone(t *testing.T) {
	root := "/proj"
	outDir := filepath.Join(root, "dist", "components", "card", "src")
	destDir := filepath.Join(root, "components", "card")
	outputRoot := filepath.Join(root, "dist")

	// Resolves above the output tree: not ours to touch.
	content := []byte(`import "../../../../outside/thing.js";`)
	got := RewriteImports(content, outDir, destDir, outputRoot, nil)

	require.Equal(t, string(content), string(got))
}

func TestRewriteImports_BareSpecifiersUntouched(t *testing.T) {
	content := []byte(`import lib from "somelib"; import "./keep" + x;`)
	got := RewriteImports(content, "/proj/dist/a", "/proj/a", "/proj/dist", nil)

	// "./keep" resolves under the output tree and gets a recomputed, equal
	// depth; "somelib" is a bare specifier and never matches.
	require.Contains(t, string(got), `"somelib"`)
}
