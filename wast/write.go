// Copyright 2018 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wast reads and writes modules in the WebAssembly text format's
// binary-module form, `(module binary "...")`. That form can carry any module
// the section-level model can hold, which a structured text rendering cannot.
package wast

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pgavlin/wasm-opt/wasm"
)

const tab = `  `

// Number of module bytes rendered per string literal line.
const bytesPerLine = 32

// WriteTo writes a module in the text representation.
func WriteTo(w io.Writer, m *wasm.Module) error {
	var bin bytes.Buffer
	if err := wasm.EncodeModule(&bin, m); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("(module binary")

	raw := bin.Bytes()
	for len(raw) > 0 {
		line := raw
		if len(line) > bytesPerLine {
			line = line[:bytesPerLine]
		}
		raw = raw[len(line):]

		bw.WriteString("\n")
		bw.WriteString(tab)
		writeString(bw, line)
	}

	bw.WriteString("\n)\n")
	return bw.Flush()
}

const hex = "0123456789abcdef"

func writeString(bw *bufio.Writer, b []byte) {
	bw.WriteByte('"')
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			bw.WriteByte('\\')
			bw.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			bw.WriteByte(c)
		default:
			bw.WriteByte('\\')
			bw.WriteByte(hex[c>>4])
			bw.WriteByte(hex[c&0xf])
		}
	}
	bw.WriteByte('"')
}
