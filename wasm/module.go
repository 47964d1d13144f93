// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wasm models WebAssembly modules at section granularity and codes
// them to and from the binary format.
package wasm

import (
	"errors"
	"fmt"
)

var ErrInvalidMagic = errors.New("magic header not detected")

const (
	Magic   uint32 = 0x6d736100
	Version uint32 = 0x1
)

// SectionID is a 1-byte code that identifies both known and custom sections.
type SectionID uint8

const (
	SectionIDCustom    SectionID = 0
	SectionIDType      SectionID = 1
	SectionIDImport    SectionID = 2
	SectionIDFunction  SectionID = 3
	SectionIDTable     SectionID = 4
	SectionIDMemory    SectionID = 5
	SectionIDGlobal    SectionID = 6
	SectionIDExport    SectionID = 7
	SectionIDStart     SectionID = 8
	SectionIDElement   SectionID = 9
	SectionIDCode      SectionID = 10
	SectionIDData      SectionID = 11
	SectionIDDataCount SectionID = 12
)

var sectionNames = map[SectionID]string{
	SectionIDCustom:    "custom",
	SectionIDType:      "type",
	SectionIDImport:    "import",
	SectionIDFunction:  "function",
	SectionIDTable:     "table",
	SectionIDMemory:    "memory",
	SectionIDGlobal:    "global",
	SectionIDExport:    "export",
	SectionIDStart:     "start",
	SectionIDElement:   "element",
	SectionIDCode:      "code",
	SectionIDData:      "data",
	SectionIDDataCount: "data count",
}

func (s SectionID) String() string {
	n, ok := sectionNames[s]
	if !ok {
		return "unknown"
	}
	return n
}

// Section is a declared section in a module. For custom sections, Name holds
// the section name and Bytes holds the payload that follows it; for known
// sections, Name is empty and Bytes is the entire payload.
type Section struct {
	ID    SectionID
	Name  string
	Bytes []byte
}

// Module represents a WebAssembly module as an ordered list of sections:
// http://webassembly.org/docs/modules/
type Module struct {
	Version  uint32
	Sections []Section
}

// Custom returns the first custom section with the given name, if it exists.
func (m *Module) Custom(name string) *Section {
	for i := range m.Sections {
		s := &m.Sections[i]
		if s.ID == SectionIDCustom && s.Name == name {
			return s
		}
	}
	return nil
}

// RemoveCustom removes every custom section for which keep returns false and
// reports whether any section was removed.
func (m *Module) RemoveCustom(keep func(name string) bool) bool {
	sections, removed := m.Sections[:0], false
	for _, s := range m.Sections {
		if s.ID == SectionIDCustom && !keep(s.Name) {
			removed = true
			continue
		}
		sections = append(sections, s)
	}
	m.Sections = sections
	return removed
}

type InvalidSectionIDError SectionID

func (e InvalidSectionIDError) Error() string {
	return fmt.Sprintf("wasm: malformed section id %d", uint8(e))
}

type DuplicateSectionError SectionID

func (e DuplicateSectionError) Error() string {
	return fmt.Sprintf("wasm: duplicate %s section", SectionID(e))
}

type SectionOrderError SectionID

func (e SectionOrderError) Error() string {
	return fmt.Sprintf("wasm: %s section out of order", SectionID(e))
}
