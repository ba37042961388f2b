// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/rpc"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		return printValue(cmd, settingResponse{
			Key:   "endpoint",
			Value: endpoint,
		})
	},
}

var endpointSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the endpoint URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to get endpoint flag: %w", err)
		}
		if endpoint == "" {
			return errors.New("endpoint is required")
		}
		if err := setConfigValue("endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, settingResponse{
			Key:   "endpoint",
			Value: endpoint,
			Set:   true,
		})
	},
}

var actorCmd = &cobra.Command{
	Use:   "actor",
	Short: "Print the configured actor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		actor, err := getAddress(cmd, "actor")
		if err != nil {
			return err
		}
		return printValue(cmd, settingResponse{
			Key:   "actor",
			Value: actor.String(),
		})
	},
}

var actorSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the actor used by default",
	Long:  `Set the actor used by default. Prompts for it when --actor is not given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			actor codec.Address
			err   error
		)
		if flag, _ := cmd.Flags().GetString("actor"); flag != "" {
			actor, err = getAddress(cmd, "actor")
		} else {
			actor, err = promptAddress("actor")
		}
		if err != nil {
			return err
		}
		if err := setConfigValue("actor", actor.String()); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, settingResponse{
			Key:   "actor",
			Value: actor.String(),
			Set:   true,
		})
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the endpoint is serving",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		version, err := cli.Version(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, settingResponse{Key: "version", Value: version})
	},
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Set   bool   `json:"set,omitempty"`
}

func (r settingResponse) String() string {
	if r.Set {
		return fmt.Sprintf("%s set to: %s", r.Key, r.Value)
	}
	return r.Value
}

func newClient(cmd *cobra.Command) (*rpc.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return rpc.NewJSONRPCClient(endpoint), nil
}

func newActorClient(cmd *cobra.Command) (*rpc.JSONRPCClient, codec.Address, error) {
	actor, err := getAddress(cmd, "actor")
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	cli, err := newClient(cmd)
	return cli, actor, err
}

func init() {
	rootCmd.AddCommand(endpointCmd, actorCmd, pingCmd)
	endpointCmd.AddCommand(endpointSetCmd)
	actorCmd.AddCommand(actorSetCmd)

	endpointSetCmd.Flags().String("endpoint", "", "Endpoint URL to set")
	if err := endpointSetCmd.MarkFlagRequired("endpoint"); err != nil {
		log.Fatalf("failed to mark endpoint flag as required: %s", err)
	}
}
