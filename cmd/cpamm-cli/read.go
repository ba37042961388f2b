// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/controller"
)

var errUnknownQuote = errors.New("quote kind must be one of deposit, withdraw or swap")

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List every pool",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		pools, err := cli.Pools(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, poolsResponse{Pools: pools})
	},
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show a pool with its reserves and share supply",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		info, err := cli.Pool(cmd.Context(), pool)
		if err != nil {
			return err
		}
		return printValue(cmd, poolResponse{info})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the balance of an account in an asset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		asset, err := getAddress(cmd, "asset")
		if err != nil {
			return err
		}
		account, err := getAddress(cmd, "account")
		if err != nil {
			// fall back to the configured actor
			account, err = getAddress(cmd, "actor")
			if err != nil {
				return err
			}
		}
		balance, err := cli.Balance(cmd.Context(), asset, account)
		if err != nil {
			return err
		}
		return printValue(cmd, balanceResponse{Asset: asset, Account: account, Balance: balance})
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote [deposit|withdraw|swap]",
	Short: "Price an action against current reserves without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		var (
			flags       = cmd.Flags()
			shares, _   = flags.GetUint64("shares")
			maxX, _     = flags.GetUint64("max-x")
			maxY, _     = flags.GetUint64("max-y")
			isX, _      = flags.GetBool("x")
			amountIn, _ = flags.GetUint64("amount-in")
			kind        = strings.ToLower(args[0])
			result      any
		)
		switch kind {
		case "deposit":
			result, err = cli.QuoteDeposit(cmd.Context(), pool, shares, maxX, maxY)
		case "withdraw":
			result, err = cli.QuoteWithdraw(cmd.Context(), pool, shares)
		case "swap":
			result, err = cli.QuoteSwap(cmd.Context(), pool, isX, amountIn)
		default:
			return fmt.Errorf("%w: %q", errUnknownQuote, kind)
		}
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: kind, Result: result})
	},
}

type poolsResponse struct {
	Pools []codec.Address `json:"pools"`
}

func (r poolsResponse) String() string {
	lines := make([]string, len(r.Pools))
	for i, p := range r.Pools {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

type poolResponse struct {
	*controller.PoolInfo
}

func (r poolResponse) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pool:        %s\n", r.Address)
	fmt.Fprintf(&b, "custody:     %s\n", r.Custody)
	fmt.Fprintf(&b, "share asset: %s\n", r.ShareAsset)
	fmt.Fprintf(&b, "asset x:     %s (reserve %d)\n", r.AssetX, r.ReserveX)
	fmt.Fprintf(&b, "asset y:     %s (reserve %d)\n", r.AssetY, r.ReserveY)
	fmt.Fprintf(&b, "shares:      %d\n", r.ShareSupply)
	fmt.Fprintf(&b, "fee:         %d bps\n", r.FeeBps)
	if r.HasAuthority {
		fmt.Fprintf(&b, "authority:   %s\n", r.Authority)
	}
	fmt.Fprintf(&b, "locked:      %t", r.Locked)
	return b.String()
}

type balanceResponse struct {
	Asset   codec.Address `json:"asset"`
	Account codec.Address `json:"account"`
	Balance uint64        `json:"balance"`
}

func (r balanceResponse) String() string {
	return fmt.Sprintf("%d", r.Balance)
}

func init() {
	rootCmd.AddCommand(poolsCmd, poolCmd, balanceCmd, quoteCmd)

	poolCmd.Flags().String("pool", "", "Pool address")
	markRequired(poolCmd, "pool")

	balanceCmd.Flags().String("asset", "", "Asset address")
	balanceCmd.Flags().String("account", "", "Account address, defaults to the actor")
	markRequired(balanceCmd, "asset")

	quoteCmd.Flags().String("pool", "", "Pool address")
	quoteCmd.Flags().Uint64("shares", 0, "Shares to mint or burn")
	quoteCmd.Flags().Uint64("max-x", 0, "Most of asset X to pay on deposit")
	quoteCmd.Flags().Uint64("max-y", 0, "Most of asset Y to pay on deposit")
	quoteCmd.Flags().Bool("x", false, "Swap asset X for asset Y")
	quoteCmd.Flags().Uint64("amount-in", 0, "Amount paid into a swap")
	markRequired(quoteCmd, "pool")
}
