// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	require := require.New(t)

	k := Encode(7, 3, []byte{1, 2}, []byte{3})
	require.Equal([]byte{7, 1, 2, 3, 0, 3}, k)
	require.True(Valid(k))

	chunks, ok := MaxChunks(k)
	require.True(ok)
	require.Equal(uint16(3), chunks)
}

func TestVerifyValue(t *testing.T) {
	tests := []struct {
		name     string
		chunks   uint16
		valueLen int
		valid    bool
	}{
		{"empty value", 1, 0, true},
		{"single chunk", 1, 63, true},
		{"exactly one chunk boundary", 1, 64, false},
		{"two chunks", 2, 64, true},
		{"no chunks allowed", 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Encode(0, tt.chunks, []byte("key"))
			require.Equal(t, tt.valid, VerifyValue(k, bytes.Repeat([]byte{1}, tt.valueLen)))
		})
	}
}

func TestInvalidKey(t *testing.T) {
	require := require.New(t)
	require.False(Valid([]byte{1}))
	_, ok := MaxChunks([]byte{1})
	require.False(ok)
	require.False(VerifyValue([]byte{1}, nil))
}
