// Copyright 2011 The Go Authors. All rights reserved.  Use of this source code
// is governed by a BSD-style license that can be found at
// https://go.googlesource.com/go/+/refs/heads/master/LICENSE.

package dettrace

import (
	"encoding/binary"
	"math"
)

type fnv64 uint64

const (
	fnv64init = 14695981039346656037
	prime64   = 1099511628211
)

func newFnv64() fnv64 {
	return fnv64init
}

func (s *fnv64) hash(data []byte) {
	h := *s
	for _, c := range data {
		h *= prime64
		h ^= fnv64(c)
	}
	*s = h
}

// hashInt hashes data using as few bytes as it needs. Zero hashes to
// nothing.
func (s *fnv64) hashInt(data uint64) {
	switch {
	case data == 0:
	case data < math.MaxUint8:
		s.hash([]byte{uint8(data)})
	case data < math.MaxUint16:
		var n [2]byte
		binary.LittleEndian.PutUint16(n[:], uint16(data))
		s.hash(n[:])
	case data < math.MaxUint32:
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(data))
		s.hash(n[:])
	default:
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], data)
		s.hash(n[:])
	}
}
