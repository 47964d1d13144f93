// Copyright 2020 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasm-opt/internal/testmodule"
	"github.com/pgavlin/wasm-opt/wasm"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := testmodule.Binary()

	m, err := wasm.DecodeModule(bytes.NewReader(raw))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wasm.EncodeModule(&buf, m))
	assert.Equal(t, raw, buf.Bytes())
	assert.Equal(t, len(raw), wasm.EncodedSize(m))
}

func TestEncodeIsCanonical(t *testing.T) {
	// A module whose type section size is padded to two LEB bytes.
	padded := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x84, 0x80, 0x80, 0x80, 0x00, 0x01, 0x60, 0x00, 0x00,
	}
	m, err := wasm.DecodeModule(bytes.NewReader(padded))
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, wasm.EncodeModule(&first, m))
	assert.Less(t, first.Len(), len(padded))

	m2, err := wasm.DecodeModule(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, wasm.EncodeModule(&second, m2))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := wasm.DecodeModule(bytes.NewReader([]byte{0x00, 0x61, 0x73, 0x00, 0x01, 0x00, 0x00, 0x00}))
	assert.ErrorIs(t, err, wasm.ErrInvalidMagic)
}

func TestDecodeDuplicateSection(t *testing.T) {
	raw := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	}
	_, err := wasm.DecodeModule(bytes.NewReader(raw))
	var dup wasm.DuplicateSectionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, wasm.SectionIDType, wasm.SectionID(dup))
}

func TestDecodeSectionOrder(t *testing.T) {
	// A function section before a type section.
	raw := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x03, 0x02, 0x01, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	}
	_, err := wasm.DecodeModule(bytes.NewReader(raw))
	var order wasm.SectionOrderError
	require.ErrorAs(t, err, &order)
	assert.Equal(t, wasm.SectionIDType, wasm.SectionID(order))
}

func TestDecodeTruncatedSection(t *testing.T) {
	raw := testmodule.Binary()
	_, err := wasm.DecodeModule(bytes.NewReader(raw[:len(raw)-4]))
	assert.Error(t, err)
}

func TestCustomSections(t *testing.T) {
	m := testmodule.Module()

	names := m.Custom("name")
	require.NotNil(t, names)
	assert.NotEmpty(t, names.Bytes)
	assert.Nil(t, m.Custom("no-such-section"))

	removed := m.RemoveCustom(func(name string) bool { return name != "producers" })
	assert.True(t, removed)
	assert.Nil(t, m.Custom("producers"))
	assert.NotNil(t, m.Custom("name"))

	removed = m.RemoveCustom(func(name string) bool { return name != "producers" })
	assert.False(t, removed)
}
