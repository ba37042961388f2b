// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/actions"
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Mint pool shares in exchange for both assets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, actor, err := newActorClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		shares, _ := flags.GetUint64("shares")
		maxX, _ := flags.GetUint64("max-x")
		maxY, _ := flags.GetUint64("max-y")
		result, err := cli.Deposit(cmd.Context(), actor, &actions.Deposit{
			Pool:   pool,
			Shares: shares,
			MaxX:   maxX,
			MaxY:   maxY,
		})
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: "deposit", Result: result})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Burn pool shares for a proportional share of the reserves",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, actor, err := newActorClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		shares, _ := flags.GetUint64("shares")
		minX, _ := flags.GetUint64("min-x")
		minY, _ := flags.GetUint64("min-y")
		result, err := cli.Withdraw(cmd.Context(), actor, &actions.Withdraw{
			Pool:   pool,
			Shares: shares,
			MinX:   minX,
			MinY:   minY,
		})
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: "withdraw", Result: result})
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Trade one pool asset for the other",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, actor, err := newActorClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		isX, _ := flags.GetBool("x")
		amountIn, _ := flags.GetUint64("amount-in")
		minOut, _ := flags.GetUint64("min-out")
		result, err := cli.Swap(cmd.Context(), actor, &actions.Swap{
			Pool:     pool,
			IsX:      isX,
			AmountIn: amountIn,
			MinOut:   minOut,
		})
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: "swap", Result: result})
	},
}

var createPoolCmd = &cobra.Command{
	Use:   "create-pool",
	Short: "Create a pool for a pair of assets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, actor, err := newActorClient(cmd)
		if err != nil {
			return err
		}
		assetX, err := getAddress(cmd, "asset-x")
		if err != nil {
			return err
		}
		assetY, err := getAddress(cmd, "asset-y")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		seed, _ := flags.GetUint64("seed")
		feeBps, _ := flags.GetUint16("fee-bps")
		cp := &actions.CreatePool{
			AssetX: assetX,
			AssetY: assetY,
			Seed:   seed,
			FeeBps: feeBps,
		}
		if authority, _ := flags.GetString("authority"); authority != "" {
			cp.HasAuthority = true
			cp.Authority, err = getAddress(cmd, "authority")
			if err != nil {
				return err
			}
		}
		result, err := cli.CreatePool(cmd.Context(), actor, cp)
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: "createPool", Result: result})
	},
}

var setLockCmd = &cobra.Command{
	Use:   "set-lock",
	Short: "Lock or unlock a pool",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, actor, err := newActorClient(cmd)
		if err != nil {
			return err
		}
		pool, err := getAddress(cmd, "pool")
		if err != nil {
			return err
		}
		locked, _ := cmd.Flags().GetBool("locked")
		result, err := cli.SetLock(cmd.Context(), actor, &actions.SetLock{
			Pool:   pool,
			Locked: locked,
		})
		if err != nil {
			return err
		}
		return printValue(cmd, resultResponse{Action: "setLock", Result: result})
	},
}

type resultResponse struct {
	Action string `json:"action"`
	Result any    `json:"result"`
}

func (r resultResponse) String() string {
	b, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Sprintf("%s: %v", r.Action, r.Result)
	}
	return fmt.Sprintf("%s: %s", r.Action, b)
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			log.Fatalf("failed to mark %s flag as required: %s", name, err)
		}
	}
}

func init() {
	rootCmd.AddCommand(depositCmd, withdrawCmd, swapCmd, createPoolCmd, setLockCmd)

	depositCmd.Flags().String("pool", "", "Pool address")
	depositCmd.Flags().Uint64("shares", 0, "Shares to mint")
	depositCmd.Flags().Uint64("max-x", 0, "Most of asset X to pay")
	depositCmd.Flags().Uint64("max-y", 0, "Most of asset Y to pay")
	markRequired(depositCmd, "pool", "shares", "max-x", "max-y")

	withdrawCmd.Flags().String("pool", "", "Pool address")
	withdrawCmd.Flags().Uint64("shares", 0, "Shares to burn")
	withdrawCmd.Flags().Uint64("min-x", 0, "Least of asset X to receive")
	withdrawCmd.Flags().Uint64("min-y", 0, "Least of asset Y to receive")
	markRequired(withdrawCmd, "pool", "shares")

	swapCmd.Flags().String("pool", "", "Pool address")
	swapCmd.Flags().Bool("x", false, "Pay asset X and receive asset Y")
	swapCmd.Flags().Uint64("amount-in", 0, "Amount paid in")
	swapCmd.Flags().Uint64("min-out", 0, "Least amount to receive")
	markRequired(swapCmd, "pool", "amount-in")

	createPoolCmd.Flags().String("asset-x", "", "First asset of the pair")
	createPoolCmd.Flags().String("asset-y", "", "Second asset of the pair")
	createPoolCmd.Flags().Uint64("seed", 0, "Seed distinguishing pools of the same pair")
	createPoolCmd.Flags().Uint16("fee-bps", 0, "Swap fee in basis points")
	createPoolCmd.Flags().String("authority", "", "Account allowed to lock the pool")
	markRequired(createPoolCmd, "asset-x", "asset-y")

	setLockCmd.Flags().String("pool", "", "Pool address")
	setLockCmd.Flags().Bool("locked", true, "Whether the pool is locked")
	markRequired(setLockCmd, "pool")
}
