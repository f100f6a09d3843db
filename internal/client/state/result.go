package state

import (
	"errors"
	"sync"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the outcome of one slice operation. Message is set exactly when
// the operation failed.
type Result[T any] struct {
	Value   T
	Message string
	Err     error
}

func (r Result[T]) OK() bool { return r.Err == nil }

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failed[T any](err error, msg string) Result[T] {
	return Result[T]{Err: err, Message: msg}
}

// messageOf prefers the server's message and falls back to the error text.
func messageOf(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// slice is the status bookkeeping shared by all slices. Embedders guard
// their collections with mu as well.
type slice struct {
	mu     sync.RWMutex
	status Status
	err    string
}

func (s *slice) begin() {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()
}

// fail records msg; callers must not hold mu.
func (s *slice) fail(msg string) {
	s.mu.Lock()
	s.status = StatusFailed
	s.err = msg
	s.mu.Unlock()
}

// succeedLocked marks success; callers must hold mu.
func (s *slice) succeedLocked() {
	s.status = StatusSuccess
	s.err = ""
}

func (s *slice) resetLocked() {
	s.status = StatusIdle
	s.err = ""
}
