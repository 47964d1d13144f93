// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/willf/bitset"

	"github.com/pgavlin/wasm-opt/wasm/leb128"
)

// Known sections must occur at most once and in the prescribed order. The
// data count section slots in between the element and code sections.
var sectionOrder = map[SectionID]int{
	SectionIDType:      1,
	SectionIDImport:    2,
	SectionIDFunction:  3,
	SectionIDTable:     4,
	SectionIDMemory:    5,
	SectionIDGlobal:    6,
	SectionIDExport:    7,
	SectionIDStart:     8,
	SectionIDElement:   9,
	SectionIDDataCount: 10,
	SectionIDCode:      11,
	SectionIDData:      12,
}

// DecodeModule decodes a module from the WASM binary format.
func DecodeModule(r io.Reader) (*Module, error) {
	br := bufio.NewReader(r)

	magic, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	m := &Module{}
	if m.Version, err = readU32(br); err != nil {
		return nil, err
	}
	if m.Version != Version {
		return nil, errors.New("wasm: unknown binary version")
	}

	seen, lastOrder := bitset.New(16), 0
	for {
		id, err := br.ReadByte()
		if err == io.EOF {
			return m, nil
		} else if err != nil {
			return nil, err
		}

		s := Section{ID: SectionID(id)}
		order, known := sectionOrder[s.ID]
		switch {
		case s.ID == SectionIDCustom:
			// Custom sections may appear anywhere, any number of times.
		case !known:
			return nil, InvalidSectionIDError(s.ID)
		case seen.Test(uint(id)):
			return nil, DuplicateSectionError(s.ID)
		case order < lastOrder:
			return nil, SectionOrderError(s.ID)
		default:
			seen.Set(uint(id))
			lastOrder = order
		}

		size, err := leb128.ReadVarUint32(br)
		if err != nil {
			return nil, fmt.Errorf("wasm: reading %s section size: %w", s.ID, err)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("wasm: reading %s section payload: %w", s.ID, err)
		}

		if s.ID == SectionIDCustom {
			pr := bytes.NewReader(payload)
			name, err := readString(pr)
			if err != nil {
				return nil, fmt.Errorf("wasm: reading custom section name: %w", err)
			}
			s.Name = name
			s.Bytes = payload[len(payload)-pr.Len():]
		} else {
			s.Bytes = payload
		}

		m.Sections = append(m.Sections, s)
	}
}

// MustDecode decodes a WASM module and panics on failure.
func MustDecode(r io.Reader) *Module {
	m, err := DecodeModule(r)
	if err != nil {
		panic(fmt.Errorf("decoding module: %w", err))
	}
	return m
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := leb128.ReadVarUint32(r)
	if err != nil {
		return "", err
	}
	if uint32(r.Len()) < n {
		return "", io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", errors.New("wasm: name is not valid UTF-8")
	}
	return string(buf), nil
}
