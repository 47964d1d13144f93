// Package sourcemap reads and writes source map v3 files. The optimizer's
// section-level passes never move code, so maps pass through unmodified.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"os"
)

// SourceMap is a source map v3 document.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// New returns an empty v3 source map.
func New() *SourceMap {
	return &SourceMap{Version: 3, Sources: []string{}, Names: []string{}}
}

// Decode parses a source map and rejects unsupported versions.
func Decode(data []byte) (*SourceMap, error) {
	var m SourceMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sourcemap: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("sourcemap: unsupported version %d", m.Version)
	}
	return &m, nil
}

// ReadFile reads and parses the source map at path.
func ReadFile(path string) (*SourceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// WriteFile writes the source map to path.
func (m *SourceMap) WriteFile(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
