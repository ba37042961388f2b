// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	arpc "github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/controller"
)

type JSONRPCClient struct {
	requester      arpc.EndpointRequester
	stateRequester arpc.EndpointRequester
}

// NewJSONRPCClient talks to both the action and the state endpoint served
// under [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	return &JSONRPCClient{
		requester:      arpc.NewEndpointRequester(uri + JSONRPCEndpoint),
		stateRequester: arpc.NewEndpointRequester(uri + JSONRPCStateEndpoint),
	}
}

func method(name string) string {
	return Name + "." + name
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		method("ping"),
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Version(ctx context.Context) (string, error) {
	resp := new(VersionReply)
	if err := cli.requester.SendRequest(ctx, method("version"), nil, resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

func (cli *JSONRPCClient) Deposit(ctx context.Context, actor codec.Address, d *actions.Deposit) (*actions.DepositResult, error) {
	resp := new(actions.DepositResult)
	err := cli.requester.SendRequest(ctx, method("deposit"), &DepositArgs{Actor: actor, Action: *d}, resp)
	return resp, err
}

func (cli *JSONRPCClient) Withdraw(ctx context.Context, actor codec.Address, w *actions.Withdraw) (*actions.WithdrawResult, error) {
	resp := new(actions.WithdrawResult)
	err := cli.requester.SendRequest(ctx, method("withdraw"), &WithdrawArgs{Actor: actor, Action: *w}, resp)
	return resp, err
}

func (cli *JSONRPCClient) Swap(ctx context.Context, actor codec.Address, s *actions.Swap) (*actions.SwapResult, error) {
	resp := new(actions.SwapResult)
	err := cli.requester.SendRequest(ctx, method("swap"), &SwapArgs{Actor: actor, Action: *s}, resp)
	return resp, err
}

func (cli *JSONRPCClient) CreatePool(ctx context.Context, actor codec.Address, cp *actions.CreatePool) (*actions.CreatePoolResult, error) {
	resp := new(actions.CreatePoolResult)
	err := cli.requester.SendRequest(ctx, method("createPool"), &CreatePoolArgs{Actor: actor, Action: *cp}, resp)
	return resp, err
}

func (cli *JSONRPCClient) SetLock(ctx context.Context, actor codec.Address, s *actions.SetLock) (*actions.SetLockResult, error) {
	resp := new(actions.SetLockResult)
	err := cli.requester.SendRequest(ctx, method("setLock"), &SetLockArgs{Actor: actor, Action: *s}, resp)
	return resp, err
}

// Batch executes [reqs] together. A failed action is reported in its
// response and does not fail the call.
func (cli *JSONRPCClient) Batch(ctx context.Context, reqs []*controller.Request) ([]*controller.Response, error) {
	args := &BatchArgs{Requests: make([]*BatchRequest, len(reqs))}
	for i, r := range reqs {
		b, err := json.Marshal(r.Action)
		if err != nil {
			return nil, err
		}
		args.Requests[i] = &BatchRequest{
			Actor:  r.Actor,
			Type:   r.Action.GetTypeID(),
			Action: b,
		}
	}
	resp := new(BatchReply)
	if err := cli.requester.SendRequest(ctx, method("batch"), args, resp); err != nil {
		return nil, err
	}
	if len(resp.Results) != len(reqs) {
		return nil, fmt.Errorf("%w: %d != %d", ErrResultLength, len(resp.Results), len(reqs))
	}

	responses := make([]*controller.Response, len(reqs))
	for i, r := range resp.Results {
		if len(r.Error) > 0 {
			responses[i] = &controller.Response{Err: errors.New(r.Error)}
			continue
		}
		result, err := actions.NewResult(reqs[i].Action.GetTypeID())
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(r.Result, result); err != nil {
			return nil, err
		}
		responses[i] = &controller.Response{Result: result}
	}
	return responses, nil
}

func (cli *JSONRPCClient) Pools(ctx context.Context) ([]codec.Address, error) {
	resp := new(PoolsReply)
	err := cli.stateRequester.SendRequest(ctx, method("pools"), nil, resp)
	return resp.Pools, err
}

func (cli *JSONRPCClient) Pool(ctx context.Context, pool codec.Address) (*controller.PoolInfo, error) {
	resp := new(controller.PoolInfo)
	if err := cli.stateRequester.SendRequest(ctx, method("pool"), &PoolArgs{Pool: pool}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, asset codec.Address, account codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.stateRequester.SendRequest(ctx, method("balance"), &BalanceArgs{Asset: asset, Account: account}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) QuoteDeposit(ctx context.Context, pool codec.Address, shares, maxX, maxY uint64) (*actions.DepositResult, error) {
	resp := new(actions.DepositResult)
	err := cli.stateRequester.SendRequest(ctx, method("quoteDeposit"), &QuoteDepositArgs{
		Pool:   pool,
		Shares: shares,
		MaxX:   maxX,
		MaxY:   maxY,
	}, resp)
	return resp, err
}

func (cli *JSONRPCClient) QuoteWithdraw(ctx context.Context, pool codec.Address, shares uint64) (*actions.WithdrawResult, error) {
	resp := new(actions.WithdrawResult)
	err := cli.stateRequester.SendRequest(ctx, method("quoteWithdraw"), &QuoteWithdrawArgs{Pool: pool, Shares: shares}, resp)
	return resp, err
}

func (cli *JSONRPCClient) QuoteSwap(ctx context.Context, pool codec.Address, isX bool, amountIn uint64) (*actions.SwapResult, error) {
	resp := new(actions.SwapResult)
	err := cli.stateRequester.SendRequest(ctx, method("quoteSwap"), &QuoteSwapArgs{
		Pool:     pool,
		IsX:      isX,
		AmountIn: amountIn,
	}, resp)
	return resp, err
}
