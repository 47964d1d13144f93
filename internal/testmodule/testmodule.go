// Package testmodule builds the small "hello world" module used as a fixture
// throughout the tests. The module is valid WebAssembly: one empty exported
// function, one exported memory, and a handful of custom sections for the
// strip passes to chew on.
package testmodule

import (
	"bytes"

	"github.com/pgavlin/wasm-opt/wasm"
	"github.com/pgavlin/wasm-opt/wasm/leb128"
)

// Module returns a fresh copy of the fixture module.
func Module() *wasm.Module {
	return &wasm.Module{
		Version: wasm.Version,
		Sections: []wasm.Section{
			// (type (func))
			{ID: wasm.SectionIDType, Bytes: []byte{0x01, 0x60, 0x00, 0x00}},
			// (func (type 0))
			{ID: wasm.SectionIDFunction, Bytes: []byte{0x01, 0x00}},
			// (memory 1)
			{ID: wasm.SectionIDMemory, Bytes: []byte{0x01, 0x00, 0x01}},
			// (export "run" (func 0)) (export "memory" (memory 0))
			{ID: wasm.SectionIDExport, Bytes: exportSection()},
			// (func) body: no locals, end
			{ID: wasm.SectionIDCode, Bytes: []byte{0x01, 0x02, 0x00, 0x0b}},
			{ID: wasm.SectionIDCustom, Name: "name", Bytes: nameSection()},
			{ID: wasm.SectionIDCustom, Name: "producers", Bytes: producersSection()},
			{ID: wasm.SectionIDCustom, Name: "target_features", Bytes: targetFeaturesSection()},
			{ID: wasm.SectionIDCustom, Name: ".debug_str", Bytes: []byte("hello_world.wat\x00main\x00")},
		},
	}
}

// Binary returns the fixture module in the WASM binary format.
func Binary() []byte {
	var buf bytes.Buffer
	if err := wasm.EncodeModule(&buf, Module()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func exportSection() []byte {
	var buf bytes.Buffer
	leb128.WriteVarUint32(&buf, 2)
	writeString(&buf, "run")
	buf.Write([]byte{0x00, 0x00}) // func 0
	writeString(&buf, "memory")
	buf.Write([]byte{0x02, 0x00}) // memory 0
	return buf.Bytes()
}

func nameSection() []byte {
	var module, funcs bytes.Buffer
	writeString(&module, "hello")
	leb128.WriteVarUint32(&funcs, 1)
	leb128.WriteVarUint32(&funcs, 0)
	writeString(&funcs, "run")

	var buf bytes.Buffer
	writeSubsection(&buf, 0, module.Bytes())
	writeSubsection(&buf, 1, funcs.Bytes())
	return buf.Bytes()
}

func producersSection() []byte {
	var buf bytes.Buffer
	leb128.WriteVarUint32(&buf, 1)
	writeString(&buf, "language")
	leb128.WriteVarUint32(&buf, 1)
	writeString(&buf, "wat")
	writeString(&buf, "1.0")
	return buf.Bytes()
}

func targetFeaturesSection() []byte {
	var buf bytes.Buffer
	leb128.WriteVarUint32(&buf, 1)
	buf.WriteByte('+')
	writeString(&buf, "mutable-globals")
	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s string) {
	leb128.WriteVarUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeSubsection(buf *bytes.Buffer, id byte, payload []byte) {
	buf.WriteByte(id)
	leb128.WriteVarUint32(buf, uint32(len(payload)))
	buf.Write(payload)
}
