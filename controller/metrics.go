// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/executor"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/pricing"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	_ executor.Metrics = (*executorMetrics)(nil)

	// failures are labelled by the first sentinel that matches
	failureReasons = []struct {
		err    error
		reason string
	}{
		{actions.ErrPoolLocked, "pool_locked"},
		{actions.ErrSlippageExceeded, "slippage"},
		{pricing.ErrNoLiquidity, "no_liquidity"},
		{pricing.ErrMath, "math"},
		{ledger.ErrLedger, "ledger"},
		{actions.ErrZeroAmount, "zero_amount"},
		{actions.ErrPoolDoesNotExist, "pool_missing"},
	}
)

type executorMetrics struct {
	blocked    prometheus.Counter
	executable prometheus.Counter
}

func (em *executorMetrics) RecordBlocked() {
	em.blocked.Inc()
}

func (em *executorMetrics) RecordExecutable() {
	em.executable.Inc()
}

type metrics struct {
	actions  *prometheus.CounterVec
	failures *prometheus.CounterVec
	batches  prometheus.Counter

	stateChanges prometheus.Counter
	execute      metric.Averager

	executor *executorMetrics
}

func newMetrics(gatherer ametrics.MultiGatherer) (*metrics, error) {
	r := prometheus.NewRegistry()

	execute, err := metric.NewAverager(
		"controller_execute",
		"time spent executing an action, including lock waits",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "executed",
			Help:      "number of executed actions by outcome",
		}, []string{"action", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "failures",
			Help:      "number of failed actions by reason",
		}, []string{"action", "reason"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "batches",
			Help:      "number of executed batches",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "state_changes",
			Help:      "number of keys written to the database",
		}),
		execute: execute,
		executor: &executorMetrics{
			blocked: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "executor",
				Name:      "blocked",
				Help:      "batch actions that waited on a conflicting action",
			}),
			executable: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "executor",
				Name:      "executable",
				Help:      "batch actions that could run immediately",
			}),
		},
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.actions),
		r.Register(m.failures),
		r.Register(m.batches),
		r.Register(m.stateChanges),
		r.Register(m.executor.blocked),
		r.Register(m.executor.executable),
		gatherer.Register(consts.Name, r),
	)
	return m, errs.Err
}

func (m *metrics) record(typeID uint8, err error, elapsed time.Duration) {
	name := actions.Name(typeID)
	m.execute.Observe(float64(elapsed))
	if err == nil {
		m.actions.WithLabelValues(name, outcomeSuccess).Inc()
		return
	}
	m.actions.WithLabelValues(name, outcomeFailure).Inc()
	reason := "other"
	for _, fr := range failureReasons {
		if errors.Is(err, fr.err) {
			reason = fr.reason
			break
		}
	}
	m.failures.WithLabelValues(name, reason).Inc()
}
