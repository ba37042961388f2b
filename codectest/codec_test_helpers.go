// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"crypto/rand"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
)

// NewRandomAddress returns a random account address
// for use during testing
func NewRandomAddress() codec.Address {
	var addr codec.Address
	if _, err := rand.Read(addr[:]); err != nil {
		panic(err)
	}
	addr[0] = consts.AccountID
	return addr
}

// NewRandomAsset returns a random asset address.
func NewRandomAsset() codec.Address {
	addr := NewRandomAddress()
	addr[0] = consts.AssetID
	return addr
}
