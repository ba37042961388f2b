// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/cpamm/codec"
)

var errInputEmpty = errors.New("input is empty")

func validateAddress(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return errInputEmpty
	}
	_, err := codec.StringToAddress(input)
	return err
}

func promptAddress(label string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label:    label,
		Validate: validateAddress,
	}
	text, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.StringToAddress(strings.TrimSpace(text))
}
