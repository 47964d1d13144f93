package integration

import (
	"errors"
	"fmt"
)

var (
	// ErrInputFileRequired is returned when no positional argument names an
	// input file.
	ErrInputFileRequired = errors.New("an input file is required")

	// ErrOutputFileRequired is returned when no `-o` argument names an
	// output file. wasm-opt itself writes to stdout by default; this library
	// always writes to a file.
	ErrOutputFileRequired = errors.New("the `-o` option to `wasm-opt` is required")

	// ErrUnexpectedEndOfArgs is returned when a flag that takes a value is
	// the last argument.
	ErrUnexpectedEndOfArgs = errors.New("the `wasm-opt` argument list ended while expecting another argument")
)

// UnsupportedError reports every argument that was not understood, in the
// order encountered. Arguments are never silently dropped: anything the
// translator cannot classify, and any repeat of a single-valued flag or of
// the input positional, lands here.
type UnsupportedError struct {
	Args []string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported `wasm-opt` command-line arguments: %q", e.Args)
}

// ExecutionError wraps a failure from the optimizer itself during read,
// optimize, or write.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error while optimizing wasm modules: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
