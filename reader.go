package wasmopt

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pgavlin/wasm-opt/wasm"
	"github.com/pgavlin/wasm-opt/wast"
)

// A ModuleReader reads modules in the binary or text format.
type ModuleReader struct {
	FileType FileType
}

// NewModuleReader returns a reader that detects the format from the input.
func NewModuleReader() *ModuleReader {
	return &ModuleReader{FileType: FileTypeAny}
}

// Read reads a module from r.
func (mr *ModuleReader) Read(r io.Reader) (*wasm.Module, error) {
	switch mr.FileType {
	case FileTypeWasm:
		return wasm.DecodeModule(r)
	case FileTypeWat:
		return wast.DecodeModule(r)
	}

	br := bufio.NewReader(r)
	buf, err := br.Peek(4)
	if err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(buf) == wasm.Magic {
		return wasm.DecodeModule(br)
	}
	return wast.DecodeModule(br)
}

// ReadFile reads a module from the file at path.
func (mr *ModuleReader) ReadFile(path string) (*wasm.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return mr.Read(f)
}
