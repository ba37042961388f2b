// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/controller"
)

// JSONRPCServer applies actions on behalf of the actor named in each
// request. Callers are expected to be authorized before reaching it.
type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type VersionReply struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (*JSONRPCServer) Version(_ *http.Request, _ *struct{}, reply *VersionReply) error {
	reply.Name = consts.Name
	reply.Version = consts.Version
	return nil
}

type DepositArgs struct {
	Actor  codec.Address   `json:"actor"`
	Action actions.Deposit `json:"action"`
}

func (j *JSONRPCServer) Deposit(req *http.Request, args *DepositArgs, reply *actions.DepositResult) error {
	return execute(req.Context(), j.c, "JSONRPCServer.Deposit", args.Actor, &args.Action, reply)
}

type WithdrawArgs struct {
	Actor  codec.Address    `json:"actor"`
	Action actions.Withdraw `json:"action"`
}

func (j *JSONRPCServer) Withdraw(req *http.Request, args *WithdrawArgs, reply *actions.WithdrawResult) error {
	return execute(req.Context(), j.c, "JSONRPCServer.Withdraw", args.Actor, &args.Action, reply)
}

type SwapArgs struct {
	Actor  codec.Address `json:"actor"`
	Action actions.Swap  `json:"action"`
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *actions.SwapResult) error {
	return execute(req.Context(), j.c, "JSONRPCServer.Swap", args.Actor, &args.Action, reply)
}

type CreatePoolArgs struct {
	Actor  codec.Address      `json:"actor"`
	Action actions.CreatePool `json:"action"`
}

func (j *JSONRPCServer) CreatePool(req *http.Request, args *CreatePoolArgs, reply *actions.CreatePoolResult) error {
	return execute(req.Context(), j.c, "JSONRPCServer.CreatePool", args.Actor, &args.Action, reply)
}

type SetLockArgs struct {
	Actor  codec.Address   `json:"actor"`
	Action actions.SetLock `json:"action"`
}

func (j *JSONRPCServer) SetLock(req *http.Request, args *SetLockArgs, reply *actions.SetLockResult) error {
	return execute(req.Context(), j.c, "JSONRPCServer.SetLock", args.Actor, &args.Action, reply)
}

func execute[T any, R interface {
	*T
	actions.Result
}](
	ctx context.Context,
	c Controller,
	spanName string,
	actor codec.Address,
	action actions.Action,
	reply R,
) error {
	ctx, span := c.Tracer().Start(ctx, spanName)
	defer span.End()

	result, err := c.Execute(ctx, actor, action)
	if err != nil {
		return err
	}
	typed, ok := result.(R)
	if !ok {
		return fmt.Errorf("%w: %T", controller.ErrUnexpectedResult, result)
	}
	*reply = *typed
	return nil
}

type BatchRequest struct {
	Actor  codec.Address   `json:"actor"`
	Type   uint8           `json:"type"`
	Action json.RawMessage `json:"action"`
}

type BatchArgs struct {
	Requests []*BatchRequest `json:"requests"`
}

type BatchResult struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type BatchReply struct {
	Results []*BatchResult `json:"results"`
}

// Batch executes several actions at once. Conflicting actions apply in the
// order given and each one succeeds or fails on its own.
func (j *JSONRPCServer) Batch(req *http.Request, args *BatchArgs, reply *BatchReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Batch")
	defer span.End()

	reqs := make([]*controller.Request, len(args.Requests))
	for i, r := range args.Requests {
		if len(r.Action) == 0 {
			return fmt.Errorf("%w: request %d", ErrMissingAction, i)
		}
		action, err := actions.NewAction(r.Type)
		if err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
		if err := json.Unmarshal(r.Action, action); err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
		reqs[i] = &controller.Request{Actor: r.Actor, Action: action}
	}

	responses, err := j.c.ExecuteBatch(ctx, reqs)
	if err != nil {
		return err
	}
	reply.Results = make([]*BatchResult, len(responses))
	for i, resp := range responses {
		if resp.Err != nil {
			reply.Results[i] = &BatchResult{Error: resp.Err.Error()}
			continue
		}
		b, err := json.Marshal(resp.Result)
		if err != nil {
			return err
		}
		reply.Results[i] = &BatchResult{Result: b}
	}
	j.c.Logger().Debug("served batch", zap.Int("requests", len(reqs)))
	return nil
}
