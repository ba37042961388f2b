// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes state keys that carry their maximum value size.
//
// Every key ends with a big-endian uint16 holding the maximum number of
// 64-byte chunks its value may occupy. Writers must respect it.
package keys

import (
	"encoding/binary"

	"github.com/ava-labs/cpamm/consts"
)

const chunkSize = 64 // bytes

// Valid returns true if [key] is long enough to hold a chunk suffix.
func Valid(key []byte) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the chunk limit encoded in [key].
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

// NumChunks returns the number of chunks needed to store [value].
func NumChunks(value []byte) (uint16, bool) {
	l := len(value)
	if l == 0 {
		return 0, true
	}
	raw := l/chunkSize + 1
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue returns true if [value] fits within the limit of [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// Encode builds [prefix] || parts... || [maxChunks].
func Encode(prefix byte, maxChunks uint16, parts ...[]byte) []byte {
	size := consts.ByteLen + consts.Uint16Len
	for _, p := range parts {
		size += len(p)
	}
	k := make([]byte, 0, size)
	k = append(k, prefix)
	for _, p := range parts {
		k = append(k, p...)
	}
	return binary.BigEndian.AppendUint16(k, maxChunks)
}
