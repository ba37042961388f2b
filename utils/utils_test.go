// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)

	a := ToID([]byte("pool"))
	require.Equal(a, ToID([]byte("pool")))
	require.NotEqual(a, ToID([]byte("pool2")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	p, err := InitSubDirectory(t.TempDir(), "statedb")
	require.NoError(err)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())
}
