// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/cpamm/consts"
)

type registration struct {
	name      string
	newAction func() Action
	newResult func() Result
}

var registry = map[uint8]registration{
	consts.DepositID: {
		name:      "deposit",
		newAction: func() Action { return &Deposit{} },
		newResult: func() Result { return &DepositResult{} },
	},
	consts.WithdrawID: {
		name:      "withdraw",
		newAction: func() Action { return &Withdraw{} },
		newResult: func() Result { return &WithdrawResult{} },
	},
	consts.SwapID: {
		name:      "swap",
		newAction: func() Action { return &Swap{} },
		newResult: func() Result { return &SwapResult{} },
	},
	consts.CreatePoolID: {
		name:      "createPool",
		newAction: func() Action { return &CreatePool{} },
		newResult: func() Result { return &CreatePoolResult{} },
	},
	consts.SetLockID: {
		name:      "setLock",
		newAction: func() Action { return &SetLock{} },
		newResult: func() Result { return &SetLockResult{} },
	},
}

// NewAction returns an empty action of [typeID], ready to be decoded into.
func NewAction(typeID uint8) (Action, error) {
	r, ok := registry[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, typeID)
	}
	return r.newAction(), nil
}

// NewResult returns an empty result of the action [typeID].
func NewResult(typeID uint8) (Result, error) {
	r, ok := registry[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, typeID)
	}
	return r.newResult(), nil
}

// Name returns a readable name of the action [typeID].
func Name(typeID uint8) string {
	r, ok := registry[typeID]
	if !ok {
		return "unknown"
	}
	return r.name
}

// TypeID returns the type of the action registered as [name].
func TypeID(name string) (uint8, error) {
	for typeID, r := range registry {
		if r.name == name {
			return typeID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
