package bundler

import (
	"encoding/json"
	"fmt"
)

// Metafile mirrors the bundler's JSON build report. It is the sole input to
// the post-build hook: every emitted file appears under Outputs, keyed by its
// path relative to the project root.
type Metafile struct {
	Inputs  map[string]MetaInput  `json:"inputs"`
	Outputs map[string]MetaOutput `json:"outputs"`
}

// MetaInput describes one source file that contributed to the build.
type MetaInput struct {
	Bytes   int          `json:"bytes"`
	Imports []MetaImport `json:"imports"`
	Format  string       `json:"format,omitempty"`
}

// MetaImport is a single import edge in the build graph.
type MetaImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetaOutput describes one emitted file. Shared chunks carry no EntryPoint.
type MetaOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	Imports    []MetaImport            `json:"imports"`
	Exports    []string                `json:"exports"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
	CSSBundle  string                  `json:"cssBundle,omitempty"`
}

// InputContrib is the byte contribution of an input to an output.
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// ParseMetafile decodes the raw metafile JSON emitted by the bundler.
func ParseMetafile(data []byte) (*Metafile, error) {
	var m Metafile
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metafile: %w", err)
	}
	return &m, nil
}
