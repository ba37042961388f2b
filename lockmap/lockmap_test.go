// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/cpamm/state"
)

func TestLockUnlock(t *testing.T) {
	require := require.New(t)
	l := New(2)

	l.Lock("a")
	l.RLock("b")
	l.RLock("b")
	require.Equal(2, l.Locks())

	l.Unlock("a")
	require.Equal(1, l.Locks())
	l.RUnlock("b")
	require.Equal(1, l.Locks())
	l.RUnlock("b")
	require.Zero(l.Locks())
}

func TestWriteLockExcludes(t *testing.T) {
	require := require.New(t)
	l := New(1)

	var (
		mu      sync.Mutex
		counter int
		g       errgroup.Group
	)
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			l.Lock("pool")
			defer l.Unlock("pool")

			mu.Lock()
			v := counter
			mu.Unlock()
			time.Sleep(10 * time.Microsecond)
			mu.Lock()
			counter = v + 1
			mu.Unlock()
			return nil
		})
	}
	require.NoError(g.Wait())
	require.Equal(100, counter)
	require.Zero(l.Locks())
}

func TestAcquireOverlapping(t *testing.T) {
	require := require.New(t)
	l := New(4)

	first := state.Keys{"a": state.Write, "b": state.Write, "shared": state.Read}
	second := state.Keys{"b": state.Write, "a": state.Write, "shared": state.Read}

	var (
		g     errgroup.Group
		total int
	)
	for i := 0; i < 50; i++ {
		keys := first
		if i%2 == 1 {
			keys = second
		}
		g.Go(func() error {
			release := l.Acquire(keys)
			defer release()
			total++
			return nil
		})
	}
	require.NoError(g.Wait())
	require.Equal(50, total)
	require.Zero(l.Locks())
}

func TestAcquireReadersShare(t *testing.T) {
	require := require.New(t)
	l := New(1)

	release := l.Acquire(state.Keys{"k": state.Read})
	done := make(chan struct{})
	go func() {
		release2 := l.Acquire(state.Keys{"k": state.Read})
		release2()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow("reader blocked by reader")
	}
	release()
	require.Zero(l.Locks())
}
