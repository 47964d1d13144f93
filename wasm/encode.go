// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"encoding/binary"
	"io"

	"github.com/pgavlin/wasm-opt/wasm/leb128"
)

// EncodeModule encodes a module to the WASM binary format. Section sizes are
// written with minimal LEB128 encodings, so encoding is canonical: decoding
// and re-encoding a module always produces the same bytes.
func EncodeModule(w io.Writer, m *Module) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], Magic)
	binary.LittleEndian.PutUint32(hdr[4:], m.Version)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	for i := range m.Sections {
		if err := encodeSection(w, &m.Sections[i]); err != nil {
			return err
		}
	}
	return nil
}

// EncodedSize returns the number of bytes EncodeModule writes for m.
func EncodedSize(m *Module) int {
	n := 8
	for i := range m.Sections {
		size := sectionPayloadSize(&m.Sections[i])
		n += 1 + leb128.VarUint32Size(uint32(size)) + size
	}
	return n
}

func sectionPayloadSize(s *Section) int {
	size := len(s.Bytes)
	if s.ID == SectionIDCustom {
		size += leb128.VarUint32Size(uint32(len(s.Name))) + len(s.Name)
	}
	return size
}

func encodeSection(w io.Writer, s *Section) error {
	if _, err := w.Write([]byte{byte(s.ID)}); err != nil {
		return err
	}
	if _, err := leb128.WriteVarUint32(w, uint32(sectionPayloadSize(s))); err != nil {
		return err
	}
	if s.ID == SectionIDCustom {
		if _, err := leb128.WriteVarUint32(w, uint32(len(s.Name))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s.Name); err != nil {
			return err
		}
	}
	_, err := w.Write(s.Bytes)
	return err
}
