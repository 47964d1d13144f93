// Package wasmopt optimizes WebAssembly modules in process, mirroring the
// option surface of the wasm-opt command-line tool. Construct an
// OptimizationOptions, adjust it (or apply a Profile), and call Run. Tools
// that already assemble wasm-opt command lines can hand them to the
// integration package instead.
package wasmopt

import (
	"github.com/pgavlin/wasm-opt/passes"
	"github.com/pgavlin/wasm-opt/validate"
)

// FileType selects the encoding of a module file.
type FileType int

const (
	// FileTypeAny detects the encoding from the file contents.
	FileTypeAny FileType = iota
	// FileTypeWasm is the binary format.
	FileTypeWasm
	// FileTypeWat is the text format.
	FileTypeWat
)

// Passes selects which passes an optimization run executes.
type Passes struct {
	// AddDefaultPasses runs the default pipeline for the configured optimize
	// and shrink levels.
	AddDefaultPasses bool
	// More names additional passes to run after the defaults.
	More []string
}

// OptimizationOptions configures a single optimization run.
type OptimizationOptions struct {
	ReaderFileType FileType
	WriterFileType FileType

	// SourceMapURL, when set, is recorded in the output module's
	// sourceMappingURL section.
	SourceMapURL string

	Features validate.Features

	Passes      Passes
	PassOptions passes.Options
}

// NewOptimizationOptions returns the default options: binary output, no
// passes, validation on.
func NewOptimizationOptions() *OptimizationOptions {
	return &OptimizationOptions{
		WriterFileType: FileTypeWasm,
		PassOptions:    passes.NewOptions(),
	}
}
