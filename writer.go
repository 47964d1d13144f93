package wasmopt

import (
	"io"
	"os"

	"github.com/pgavlin/wasm-opt/wasm"
	"github.com/pgavlin/wasm-opt/wast"
)

// A ModuleWriter writes modules in the binary or text format.
type ModuleWriter struct {
	FileType FileType
}

// NewModuleWriter returns a writer that emits the binary format.
func NewModuleWriter() *ModuleWriter {
	return &ModuleWriter{FileType: FileTypeWasm}
}

// Write writes m to w.
func (mw *ModuleWriter) Write(w io.Writer, m *wasm.Module) error {
	if mw.FileType == FileTypeWat {
		return wast.WriteTo(w, m)
	}
	return wasm.EncodeModule(w, m)
}

// WriteFile writes m to the file at path.
func (mw *ModuleWriter) WriteFile(path string, m *wasm.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := mw.Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
