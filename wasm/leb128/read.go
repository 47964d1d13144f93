// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package leb128 provides functions for reading and writing integers in the
// Little Endian Base 128 format: https://en.wikipedia.org/wiki/LEB128
package leb128

import (
	"errors"
	"io"
)

var ErrOverflow = errors.New("leb128: overflow")

// ReadVarUint32 reads an unsigned integer of at most 32 bits from r.
func ReadVarUint32(r io.ByteReader) (uint32, error) {
	var v uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b&0xf0 != 0 {
			return 0, ErrOverflow
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// ReadVarint64 reads a signed integer of at most 64 bits from r.
func ReadVarint64(r io.ByteReader) (int64, error) {
	var v int64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b != 0 && b != 0x7f {
			return 0, ErrOverflow
		}
		v |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				v |= -1 << shift
			}
			return v, nil
		}
	}
}

// ReadVarint32 reads a signed integer of at most 32 bits from r.
func ReadVarint32(r io.ByteReader) (int32, error) {
	v, err := ReadVarint64(r)
	if err != nil {
		return 0, err
	}
	if v < -1<<31 || v >= 1<<31 {
		return 0, ErrOverflow
	}
	return int32(v), nil
}
