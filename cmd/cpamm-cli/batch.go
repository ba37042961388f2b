// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/controller"
)

// batchEntry is one action of a batch file. Entries without an actor act
// as the configured actor.
type batchEntry struct {
	Actor  *codec.Address  `json:"actor,omitempty"`
	Type   string          `json:"type"`
	Action json.RawMessage `json:"action"`
}

var batchCmd = &cobra.Command{
	Use:   "batch [file or inline JSON]",
	Short: "Execute a list of actions in one request",
	Long: `Execute a list of actions in one request. Actions on different pools run
in parallel and actions on the same pool run in the order given. Each entry
has a "type" (deposit, withdraw, swap, createPool or setLock) and an "action"
object.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readFileOrInline(args[0])
		if err != nil {
			return err
		}
		reqs, err := parseBatch(cmd, b)
		if err != nil {
			return err
		}
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		responses, err := cli.Batch(cmd.Context(), reqs)
		if err != nil {
			return err
		}

		out := batchResponse{Results: make([]batchResult, len(responses))}
		for i, resp := range responses {
			out.Results[i].Action = actions.Name(reqs[i].Action.GetTypeID())
			if resp.Err != nil {
				out.Results[i].Error = resp.Err.Error()
				continue
			}
			out.Results[i].Result = resp.Result
		}
		return printValue(cmd, out)
	},
}

func parseBatch(cmd *cobra.Command, b []byte) ([]*controller.Request, error) {
	var entries []batchEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}

	var defaultActor *codec.Address
	reqs := make([]*controller.Request, len(entries))
	for i, entry := range entries {
		typeID, err := actions.TypeID(entry.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		action, err := actions.NewAction(typeID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := json.Unmarshal(entry.Action, action); err != nil {
			return nil, fmt.Errorf("entry %d: failed to parse %s: %w", i, entry.Type, err)
		}

		actor := entry.Actor
		if actor == nil {
			if defaultActor == nil {
				a, err := getAddress(cmd, "actor")
				if err != nil {
					return nil, fmt.Errorf("entry %d: %w", i, err)
				}
				defaultActor = &a
			}
			actor = defaultActor
		}
		reqs[i] = &controller.Request{Actor: *actor, Action: action}
	}
	return reqs, nil
}

type batchResult struct {
	Action string `json:"action"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

func (r batchResponse) String() string {
	lines := make([]string, len(r.Results))
	for i, res := range r.Results {
		if res.Error != "" {
			lines[i] = fmt.Sprintf("%d %s failed: %s", i, res.Action, res.Error)
			continue
		}
		lines[i] = fmt.Sprintf("%d %s", i, resultResponse{Action: res.Action, Result: res.Result})
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
