package api

import (
	"context"
	"sync"
)

type refreshResult struct {
	token string
	err   error
}

// refresher serialises token refreshes. The first caller to acquire it
// becomes the leader and must call release exactly once; callers arriving
// while a refresh is in flight queue up and receive its outcome.
type refresher struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult

	// onQueue, when set, is told the queue length after every change.
	onQueue func(n int)
}

// acquireOrWait returns leader=true when the caller must perform the
// refresh. Otherwise it blocks until the leader releases and returns the
// leader's token or error.
func (r *refresher) acquireOrWait(ctx context.Context) (leader bool, token string, err error) {
	r.mu.Lock()
	if !r.inFlight {
		r.inFlight = true
		r.mu.Unlock()
		return true, "", nil
	}
	ch := r.enqueue()
	r.mu.Unlock()

	token, err = r.wait(ctx, ch)
	return false, token, err
}

// joinInFlight waits for a refresh that is already running and reports
// joined=false without blocking when none is.
func (r *refresher) joinInFlight(ctx context.Context) (joined bool, token string, err error) {
	r.mu.Lock()
	if !r.inFlight {
		r.mu.Unlock()
		return false, "", nil
	}
	ch := r.enqueue()
	r.mu.Unlock()

	token, err = r.wait(ctx, ch)
	return true, token, err
}

// enqueue must be called with mu held.
func (r *refresher) enqueue() chan refreshResult {
	ch := make(chan refreshResult, 1)
	r.waiters = append(r.waiters, ch)
	r.notify(len(r.waiters))
	return ch
}

func (r *refresher) wait(ctx context.Context, ch chan refreshResult) (string, error) {
	select {
	case res := <-ch:
		return res.token, res.err
	case <-ctx.Done():
		if r.forget(ch) {
			return "", ctx.Err()
		}
		// release already picked this waiter; take its result.
		res := <-ch
		return res.token, res.err
	}
}

// release settles every queued waiter with the outcome and frees the
// refresher for the next cycle.
func (r *refresher) release(token string, err error) {
	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.inFlight = false
	r.notify(0)
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}
}

func (r *refresher) forget(ch chan refreshResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.waiters {
		if w == ch {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			r.notify(len(r.waiters))
			return true
		}
	}
	return false
}

func (r *refresher) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}

func (r *refresher) notify(n int) {
	if r.onQueue != nil {
		r.onQueue(n)
	}
}
