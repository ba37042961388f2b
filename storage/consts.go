// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	poolPrefix byte = iota
	balancePrefix
	supplyPrefix
)

// Chunks
const (
	PoolChunks    uint16 = 2
	BalanceChunks uint16 = 1
	SupplyChunks  uint16 = 1
)
