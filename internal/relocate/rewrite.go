package relocate

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// importSpecifierRe matches the relative specifier of static imports
// (`import ... from "./x"`, `import "./x"`) and dynamic imports
// (`import("./x")`), with or without whitespace, in bundled ES module output.
var importSpecifierRe = regexp.MustCompile(`(?:\bfrom|\bimport)\s*\(?\s*["'](\.\.?/[^"']+)["']`)

// RewriteImports repoints every relative import in content that resolves
// inside the central output tree. The artifact currently lives in outDir and
// is about to move to destDir; referenced files that are themselves being
// relocated are looked up in dests (absolute pre-move path → absolute
// destination) and repointed to where they will land. Relative paths are
// computed from the actual directories, never by fixed string substitution,
// so the rewrite is correct at any nesting depth.
func RewriteImports(content []byte, outDir, destDir, outputRoot string, dests map[string]string) []byte {
	return importSpecifierRe.ReplaceAllFunc(content, func(match []byte) []byte {
		sub := importSpecifierRe.FindSubmatch(match)
		if sub == nil {
			return match
		}
		spec := string(sub[1])
		target := filepath.Clean(filepath.Join(outDir, filepath.FromSlash(spec)))
		if !withinDir(outputRoot, target) {
			return match
		}
		if dest, ok := dests[target]; ok {
			target = dest
		}
		rel, err := filepath.Rel(destDir, target)
		if err != nil {
			return match
		}
		newSpec := filepath.ToSlash(rel)
		if !strings.HasPrefix(newSpec, ".") {
			newSpec = "./" + newSpec
		}
		return bytes.Replace(match, sub[1], []byte(newSpec), 1)
	})
}

// withinDir reports whether path lies under dir.
func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
