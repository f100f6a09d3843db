package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_FirstCallerLeads(t *testing.T) {
	r := &refresher{}

	leader, _, err := r.acquireOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, leader)

	type res struct {
		leader bool
		token  string
		err    error
	}
	out := make(chan res, 2)
	for i := 0; i < 2; i++ {
		go func() {
			l, tok, err := r.acquireOrWait(context.Background())
			out <- res{l, tok, err}
		}()
	}
	require.Eventually(t, func() bool { return r.pending() == 2 }, time.Second, time.Millisecond)

	r.release("tok", nil)
	for i := 0; i < 2; i++ {
		got := <-out
		assert.False(t, got.leader)
		assert.Equal(t, "tok", got.token)
		assert.NoError(t, got.err)
	}

	// Released: the next caller leads a new cycle.
	leader, _, err = r.acquireOrWait(context.Background())
	require.NoError(t, err)
	assert.True(t, leader)
}

func TestRefresher_ErrorReachesWaiters(t *testing.T) {
	r := &refresher{}
	_, _, _ = r.acquireOrWait(context.Background())

	done := make(chan error, 1)
	go func() {
		_, _, err := r.acquireOrWait(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return r.pending() == 1 }, time.Second, time.Millisecond)

	boom := errors.New("refresh failed")
	r.release("", boom)
	assert.ErrorIs(t, <-done, boom)
}

func TestRefresher_CancelledWaiterLeavesQueue(t *testing.T) {
	var sizes []int
	r := &refresher{onQueue: func(n int) { sizes = append(sizes, n) }}
	_, _, _ = r.acquireOrWait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := r.acquireOrWait(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return r.pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, r.pending())

	r.release("tok", nil)
	assert.Equal(t, []int{1, 0, 0}, sizes)
}

func TestRefresher_JoinInFlight(t *testing.T) {
	r := &refresher{}

	joined, _, err := r.joinInFlight(context.Background())
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Zero(t, r.pending())

	_, _, _ = r.acquireOrWait(context.Background())

	type res struct {
		joined bool
		err    error
	}
	done := make(chan res, 1)
	go func() {
		j, _, err := r.joinInFlight(context.Background())
		done <- res{j, err}
	}()
	require.Eventually(t, func() bool { return r.pending() == 1 }, time.Second, time.Millisecond)

	boom := errors.New("refresh failed")
	r.release("", boom)
	got := <-done
	assert.True(t, got.joined)
	assert.ErrorIs(t, got.err, boom)

	// Joining never takes the lead.
	joined, _, err = r.joinInFlight(context.Background())
	require.NoError(t, err)
	assert.False(t, joined)
	leader, _, _ := r.acquireOrWait(context.Background())
	assert.True(t, leader)
}
