package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type fakeCreds struct {
	mu       sync.Mutex
	token    string
	cleared  int
	setCalls int
	setErr   error
}

func (f *fakeCreds) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCreds) SetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.token = token
	return f.setErr
}

func (f *fakeCreds) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.token = ""
	return nil
}

type fakeNav struct {
	mu       sync.Mutex
	location string
	visits   []string
}

func (f *fakeNav) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location
}

func (f *fakeNav) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = path
	f.visits = append(f.visits, path)
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "message": message})
}

// backend is a fake API: tokens in valid are accepted, refresh answers with
// next.
type backend struct {
	mu        sync.Mutex
	valid     map[string]bool
	next      string
	refreshOK bool

	refreshes   atomic.Int32
	refreshGate chan struct{}

	seenAuth []string
	seenIDs  []string
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		b.refreshes.Add(1)
		assert.Empty(t, r.Header.Get("Authorization"))
		if b.refreshGate != nil {
			<-b.refreshGate
		}
		b.mu.Lock()
		ok, next := b.refreshOK, b.next
		if ok {
			b.valid[next] = true
		}
		b.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, nil, "Refresh token expired")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": next}, "ok")
	})
	mux.HandleFunc("GET /notes/get-all/{tenant}", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		b.mu.Lock()
		b.seenAuth = append(b.seenAuth, auth)
		b.seenIDs = append(b.seenIDs, r.Header.Get("X-Request-ID"))
		ok := len(auth) > 7 && b.valid[auth[7:]]
		b.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, nil, "jwt expired")
			return
		}
		writeEnvelope(w, http.StatusOK, []map[string]any{{"_id": "n1", "title": "t", "content": "c", "createdBy": "u1"}}, "")
	})
	return mux
}

func newBackend() *backend {
	return &backend{valid: map[string]bool{}, next: "fresh", refreshOK: true}
}

func newTestClient(t *testing.T, srv *httptest.Server, creds *fakeCreds, nav *fakeNav, reg prometheus.Registerer) *Client {
	t.Helper()
	c, err := New(creds, nav, Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Metrics: NewMetrics(reg)})
	require.NoError(t, err)
	return c
}

/*************
 * Tests
 *************/

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(&fakeCreds{}, nil, Options{BaseURL: "not a url"})
	require.Error(t, err)

	_, err = New(nil, nil, Options{BaseURL: "http://localhost"})
	require.Error(t, err)
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	b := newBackend()
	b.valid["good"] = true
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	c := newTestClient(t, srv, &fakeCreds{token: "good"}, &fakeNav{location: "/"}, nil)

	notes, err := c.ListNotes(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)

	require.Equal(t, []string{"Bearer good"}, b.seenAuth)
	assert.NotEmpty(t, b.seenIDs[0])
	assert.Zero(t, b.refreshes.Load())
}

func TestClient_RefreshesOnceAndReplays(t *testing.T) {
	b := newBackend()
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	nav := &fakeNav{location: "/"}
	c := newTestClient(t, srv, creds, nav, nil)

	notes, err := c.ListNotes(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.Equal(t, int32(1), b.refreshes.Load())
	assert.Equal(t, "fresh", creds.Token())
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, b.seenAuth)
	assert.Equal(t, b.seenIDs[0], b.seenIDs[1], "replay keeps the request id")
	assert.Empty(t, nav.visits)

	// Later calls use the new token straight away.
	_, err = c.ListNotes(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), b.refreshes.Load())
	assert.Equal(t, "Bearer fresh", b.seenAuth[2])
}

func TestClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 5

	b := newBackend()
	b.refreshGate = make(chan struct{})
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	creds := &fakeCreds{token: "stale"}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, reg)

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := c.ListNotes(context.Background(), "t1")
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return c.refresher.pending() == n-1 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, float64(n-1), testutil.ToFloat64(c.metrics.RefreshWaiters))
	close(b.refreshGate)

	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, int32(1), b.refreshes.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.RefreshesTotal.WithLabelValues("success")))
	assert.Zero(t, testutil.ToFloat64(c.metrics.RefreshWaiters))
}

func TestClient_RefreshFailureRejectsAllAndRedirects(t *testing.T) {
	const n = 4

	b := newBackend()
	b.refreshOK = false
	b.refreshGate = make(chan struct{})
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	nav := &fakeNav{location: "/settings"}
	c := newTestClient(t, srv, creds, nav, prometheus.NewRegistry())

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := c.ListNotes(context.Background(), "t1")
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return c.refresher.pending() == n-1 }, 5*time.Second, 5*time.Millisecond)
	close(b.refreshGate)

	for i := 0; i < n; i++ {
		err := <-errs
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Refresh token expired", err.Error())
	}

	assert.Equal(t, int32(1), b.refreshes.Load())
	assert.Equal(t, "", creds.Token())
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, []string{"/login"}, nav.visits)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.RefreshesTotal.WithLabelValues("failure")))
}

func TestClient_NoRedirectWhenAlreadyOnLogin(t *testing.T) {
	b := newBackend()
	b.refreshOK = false
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	nav := &fakeNav{location: "/login"}
	c := newTestClient(t, srv, &fakeCreds{token: "stale"}, nav, nil)

	_, err := c.ListNotes(context.Background(), "t1")
	require.Error(t, err)
	assert.Empty(t, nav.visits)
}

func TestClient_MissingTokenInRefreshIsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]string{}, "ok")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "expired")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	nav := &fakeNav{location: "/"}
	c := newTestClient(t, srv, creds, nav, nil)

	err := c.DeleteNote(context.Background(), "t1", "n1")
	require.ErrorIs(t, err, ErrNoAccessToken)
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, []string{"/login"}, nav.visits)
}

func TestClient_ReplayIsNotRefreshedAgain(t *testing.T) {
	var refreshes, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": "fresh"}, "")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusUnauthorized, nil, "still no")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	nav := &fakeNav{location: "/"}
	c := newTestClient(t, srv, &fakeCreds{token: "stale"}, nav, nil)

	_, err := c.ListNotes(context.Background(), "t1")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "still no", err.Error())
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, nav.visits)
}

func TestClient_PublicCallsSkipRefresh(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
	})
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid password")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &fakeCreds{}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/login"}, nil)

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "secret1"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid password", err.Error())
	assert.Zero(t, refreshes.Load())
	assert.Zero(t, creds.cleared)
}

func TestClient_NonUnauthorizedPropagatesUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, "Only admins can delete notes")
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "good"}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, nil)

	err := c.DeleteNote(context.Background(), "t1", "n1")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
	assert.Equal(t, "Only admins can delete notes", err.Error())
	assert.Equal(t, "good", creds.Token())
}

func TestClient_StaleTokenReplaysWithoutRefresh(t *testing.T) {
	b := newBackend()
	b.valid["newer"] = true
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, nil)

	// Simulate a refresh completing while the first attempt is on the wire.
	r := &request{method: http.MethodGet, path: "/notes/get-all/t1", id: "req-1", sentToken: "stale"}
	creds.token = "newer"

	err := c.recoverUnauthorized(context.Background(), r, nil, &APIError{Status: http.StatusUnauthorized})
	require.NoError(t, err)
	assert.Zero(t, b.refreshes.Load())
	assert.Equal(t, []string{"Bearer newer"}, b.seenAuth)
}

func TestClient_ClearedSessionDoesNotRefresh(t *testing.T) {
	b := newBackend()
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, nil)

	cause := &APIError{Status: http.StatusUnauthorized, Message: "jwt expired"}
	r := &request{method: http.MethodGet, path: "/notes/get-all/t1", id: "req-1", sentToken: "old"}
	err := c.recoverUnauthorized(context.Background(), r, nil, cause)
	require.Same(t, cause, err)
	assert.Zero(t, b.refreshes.Load())
}

func TestClient_ClearedSessionJoinsFailingRefresh(t *testing.T) {
	b := newBackend()
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, nil)

	// A leader has cleared the session but not yet released its outcome.
	leader, _, err := c.refresher.acquireOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, leader)

	done := make(chan error, 1)
	go func() {
		r := &request{method: http.MethodGet, path: "/notes/get-all/t1", id: "req-1", sentToken: "old"}
		done <- c.recoverUnauthorized(context.Background(), r, nil, &APIError{Status: http.StatusUnauthorized})
	}()
	require.Eventually(t, func() bool { return c.refresher.pending() == 1 }, time.Second, time.Millisecond)

	refreshErr := &APIError{Status: http.StatusUnauthorized, Message: "Refresh token expired"}
	c.refresher.release("", refreshErr)

	err = <-done
	require.ErrorIs(t, err, refreshErr)
	assert.Equal(t, "Refresh token expired", err.Error())
	assert.Zero(t, b.refreshes.Load())
	assert.Empty(t, b.seenAuth)
}

func TestClient_MissingRequestClearsAndRedirects(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	creds := &fakeCreds{token: "t"}
	nav := &fakeNav{location: "/"}
	c := newTestClient(t, srv, creds, nav, nil)

	cause := errors.New("boom")
	err := c.recoverUnauthorized(context.Background(), nil, nil, cause)
	require.Same(t, cause, err)
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, []string{"/login"}, nav.visits)
}

func TestClient_PersistFailureStillReplays(t *testing.T) {
	b := newBackend()
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	creds := &fakeCreds{token: "stale", setErr: errors.New("disk full")}
	c := newTestClient(t, srv, creds, &fakeNav{location: "/"}, nil)

	_, err := c.ListNotes(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, creds.setCalls)
}

func TestClient_TransportErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(&fakeCreds{}, nil, Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ListNotes(context.Background(), "t1")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, StatusOf(err))
}

func TestClient_MetricsCountStatusClasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			writeEnvelope(w, http.StatusInternalServerError, nil, "db down")
			return
		}
		writeEnvelope(w, http.StatusOK, []any{}, "")
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := newTestClient(t, srv, &fakeCreds{token: "x"}, nil, reg)

	_, err := c.ListNotes(context.Background(), "t1")
	require.NoError(t, err)
	err = c.DeleteNote(context.Background(), "t1", "n1")
	require.ErrorIs(t, err, ErrServer)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.RequestsTotal.WithLabelValues("GET", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.RequestsTotal.WithLabelValues("DELETE", "5xx")))
}
