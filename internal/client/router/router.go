// Package router maps view paths to views and decides, per navigation,
// whether the target may be shown.
package router

import (
	"strings"
	"sync"
)

const (
	Login    = "/login"
	Register = "/register"
	Notes    = "/"
	Settings = "/settings"
)

// Resolve normalizes path to a known route. Unknown paths fall back to Notes.
func Resolve(path string) string {
	p := strings.TrimSpace(path)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	switch p {
	case Login, Register, Notes, Settings:
		return p
	}
	return Notes
}

// Protected reports whether route requires an authenticated session.
func Protected(route string) bool {
	return route == Notes || route == Settings
}

// Access describes the viewer at navigation time.
type Access struct {
	Authenticated bool
	HasWorkspace  bool
}

// Decision is the outcome of Guard.
type Decision struct {
	Path       string
	Redirected bool

	// NeedsWorkspace is set when the notes view is shown without a
	// selected workspace; the view prompts to pick or create one.
	NeedsWorkspace bool
}

// Guard resolves path and redirects unauthenticated viewers of protected
// routes to Login.
func Guard(path string, a Access) Decision {
	route := Resolve(path)
	if Protected(route) && !a.Authenticated {
		return Decision{Path: Login, Redirected: true}
	}
	return Decision{
		Path:           route,
		Redirected:     route != path,
		NeedsWorkspace: route == Notes && !a.HasWorkspace,
	}
}

// Navigator holds the current location. It is safe for concurrent use.
type Navigator struct {
	mu       sync.Mutex
	location string
	hooks    []func(from, to string)
}

func NewNavigator(start string) *Navigator {
	return &Navigator{location: Resolve(start)}
}

func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Navigate moves to path and runs the subscribed hooks outside the lock.
func (n *Navigator) Navigate(path string) {
	to := Resolve(path)
	n.mu.Lock()
	from := n.location
	n.location = to
	hooks := append([]func(from, to string){}, n.hooks...)
	n.mu.Unlock()

	for _, h := range hooks {
		h(from, to)
	}
}

// Subscribe registers fn to run after every navigation.
func (n *Navigator) Subscribe(fn func(from, to string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, fn)
}
