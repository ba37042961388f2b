// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/cpamm/state"
)

var errTooManyTasks = errors.New("too many tasks created")

// Metrics records how tasks were scheduled. It may be nil.
type Metrics interface {
	RecordBlocked()
	RecordExecutable()
}

// Executor sequences the concurrent execution of
// tasks with arbitrary conflicts on-the-fly.
//
// A task that writes a key runs after every earlier task touching that key.
// A task that only reads a key runs after the last earlier writer of it, so
// readers of the same key may run in parallel. Tasks with no conflicts are
// executed immediately, bounded by the concurrency limit.
type Executor struct {
	metrics Metrics

	added int
	tasks []*task
	keys  map[string]*keyHistory

	sem         chan struct{}
	outstanding sync.WaitGroup

	err atomic.Error
}

type keyHistory struct {
	writer  int
	readers []int
}

type task struct {
	f    func() error
	done chan struct{}
}

// New creates a new [Executor] that accepts up to [items] tasks and runs at
// most [concurrency] of them at once.
func New(items, concurrency int, metrics Metrics) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		metrics: metrics,
		tasks:   make([]*task, items),
		keys:    make(map[string]*keyHistory, items*2),
		sem:     make(chan struct{}, concurrency),
	}
}

// Run executes [f] after all previously enqueued [f] with
// conflicting [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, errTooManyTasks)
		return
	}

	id := e.added
	e.added++
	t := &task{
		f:    f,
		done: make(chan struct{}),
	}
	e.tasks[id] = t
	e.outstanding.Add(1)

	deps := map[int]struct{}{}
	for k, perm := range conflicts {
		h, ok := e.keys[k]
		if !ok {
			h = &keyHistory{writer: -1}
			e.keys[k] = h
		}
		if h.writer >= 0 {
			deps[h.writer] = struct{}{}
		}
		if perm.Mutates() {
			for _, r := range h.readers {
				deps[r] = struct{}{}
			}
			h.writer = id
			h.readers = h.readers[:0]
			continue
		}
		h.readers = append(h.readers, id)
	}

	waitOn := make([]chan struct{}, 0, len(deps))
	for dep := range deps {
		dt := e.tasks[dep]
		select {
		case <-dt.done:
		default:
			waitOn = append(waitOn, dt.done)
		}
	}
	if e.metrics != nil {
		if len(waitOn) > 0 {
			e.metrics.RecordBlocked()
		} else {
			e.metrics.RecordExecutable()
		}
	}

	go func() {
		defer func() {
			close(t.done)
			e.outstanding.Done()
		}()

		for _, ch := range waitOn {
			<-ch
		}

		// Stop early if executor is stopped
		if e.err.Load() != nil {
			return
		}

		e.sem <- struct{}{}
		defer func() { <-e.sem }()

		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

// Stop prevents any task that has not started from running.
func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
