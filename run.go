package wasmopt

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/pgavlin/wasm-opt/passes"
	"github.com/pgavlin/wasm-opt/sourcemap"
	"github.com/pgavlin/wasm-opt/validate"
	"github.com/pgavlin/wasm-opt/wasm"
	"github.com/pgavlin/wasm-opt/wasm/leb128"
)

// Run reads the module at inputPath, applies the configured passes, and
// writes the result to outputPath.
func (o *OptimizationOptions) Run(inputPath, outputPath string) error {
	return o.RunWithSourcemaps(inputPath, "", outputPath, "")
}

// RunWithSourcemaps is Run with optional source map paths. An empty path
// means no source map on that side. The input map, if any, passes through to
// the output map unmodified; with no input map, an empty map is written.
//
// There is no partial-success mode: any failure aborts the run, and nothing
// is rolled back beyond what the underlying writes guarantee.
func (o *OptimizationOptions) RunWithSourcemaps(inputPath, inputSourceMapPath, outputPath, outputSourceMapPath string) error {
	reader := &ModuleReader{FileType: o.ReaderFileType}
	m, err := reader.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	var sm *sourcemap.SourceMap
	if inputSourceMapPath != "" {
		if sm, err = sourcemap.ReadFile(inputSourceMapPath); err != nil {
			return fmt.Errorf("reading %s: %w", inputSourceMapPath, err)
		}
	}

	runner := passes.NewRunner(o.PassOptions)
	if o.Passes.AddDefaultPasses {
		runner.AddDefaultOptimizationPasses()
	}
	for _, name := range o.Passes.More {
		if err := runner.Add(name); err != nil {
			return err
		}
	}
	if err := runner.Run(m); err != nil {
		return err
	}

	if o.SourceMapURL != "" {
		setSourceMappingURL(m, o.SourceMapURL)
	}

	if o.PassOptions.Validate {
		var buf bytes.Buffer
		if err := wasm.EncodeModule(&buf, m); err != nil {
			return err
		}
		if err := validate.Module(context.Background(), buf.Bytes(), o.Features); err != nil {
			return err
		}
	}

	writer := &ModuleWriter{FileType: o.WriterFileType}
	if err := writer.WriteFile(outputPath, m); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	if outputSourceMapPath != "" {
		if sm == nil {
			sm = sourcemap.New()
			sm.File = filepath.Base(outputPath)
		}
		if err := sm.WriteFile(outputSourceMapPath); err != nil {
			return fmt.Errorf("writing %s: %w", outputSourceMapPath, err)
		}
	}

	return nil
}

// setSourceMappingURL replaces the module's sourceMappingURL section with one
// naming url.
func setSourceMappingURL(m *wasm.Module, url string) {
	m.RemoveCustom(func(name string) bool { return name != "sourceMappingURL" })

	var buf bytes.Buffer
	leb128.WriteVarUint32(&buf, uint32(len(url)))
	buf.WriteString(url)
	m.Sections = append(m.Sections, wasm.Section{
		ID:    wasm.SectionIDCustom,
		Name:  "sourceMappingURL",
		Bytes: buf.Bytes(),
	})
}
