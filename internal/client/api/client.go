package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/common"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	refreshPath = "/users/refresh-token"

	// DefaultLoginPath is where the user is sent once the session is lost.
	DefaultLoginPath = "/login"

	maxBodySize = 8 << 20
)

// Credentials is the access-token store the pipeline reads and updates.
type Credentials interface {
	Token() string
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Navigator receives the redirect to the login view.
type Navigator interface {
	Location() string
	Navigate(path string)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	RateBurst int

	// Jar carries the refresh cookie. Nil means no cookies are kept.
	Jar http.CookieJar
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper

	LoginPath string
	Logger    logging.Logger
	Metrics   *Metrics
}

// Client talks to the CollabNotes backend. Safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     Credentials
	nav       Navigator
	loginPath string

	limiter   *rate.Limiter
	refresher *refresher
	logger    logging.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// request describes one logical call. It survives a replay; retry marks that
// the single allowed replay has been spent.
type request struct {
	method string
	path   string
	body   []byte
	id     string

	public   bool // no refresh recovery
	noBearer bool
	retry    bool

	sentToken string
	override  string
}

func New(creds Credentials, nav Navigator, opts Options) (*Client, error) {
	if creds == nil {
		return nil, errors.New("api: nil credentials")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Jar:       opts.Jar,
			Timeout:   opts.Timeout,
		},
		creds:     creds,
		nav:       nav,
		loginPath: loginPath,
		limiter:   rate.NewLimiter(limit, burst),
		refresher: &refresher{},
		logger:    logger.With("component", "api"),
		metrics:   opts.Metrics,
		tracer:    otel.Tracer("github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"),
	}
	c.refresher.onQueue = c.metrics.setWaiters
	return c, nil
}

// Do sends one logical call. in, when non-nil, is sent as the JSON body; the
// data member of the response is decoded into out.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.call(ctx, method, path, in, out, false)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any, public bool) error {
	r := &request{method: method, path: path, id: uuid.NewString(), public: public}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r.body = body
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("request.id", r.id),
	))
	defer span.End()

	err := c.do(ctx, r, out)
	span.SetAttributes(attribute.Bool("request.replayed", r.retry))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, r *request, out any) error {
	status, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if status < http.StatusBadRequest {
		return decodeData(body, out)
	}

	apiErr := errorFromBody(status, body)
	if status != http.StatusUnauthorized || r.public || r.retry {
		return apiErr
	}
	return c.recoverUnauthorized(ctx, r, out, apiErr)
}

func (c *Client) send(ctx context.Context, r *request) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent)
	req.Header.Set(common.RequestIDHeader, r.id)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := r.override
	if token == "" {
		token = c.creds.Token()
	}
	r.sentToken = ""
	if token != "" && !r.noBearer {
		req.Header.Set(common.AuthorizationHeader, common.BearerToken(token))
		r.sentToken = token
	}

	c.logger.Debug(ctx, "api request", "method", r.method, "path", r.path, "request_id", r.id, "retry", r.retry)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observeStatus(r.method, 0)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.metrics.observeStatus(r.method, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	return resp.StatusCode, data, nil
}

// recoverUnauthorized handles the first 401 of a logical call: it refreshes the access
// token (or waits for the refresh already in flight) and replays r once.
func (c *Client) recoverUnauthorized(ctx context.Context, r *request, out any, cause error) error {
	if r == nil {
		c.expire(ctx)
		return cause
	}
	r.retry = true

	// Another call may have refreshed or cleared the session since r went out.
	if r.sentToken != "" {
		switch current := c.creds.Token(); {
		case current == "":
			// A failing leader clears the session before it releases; take
			// its outcome so every concurrent caller sees the same error.
			joined, token, err := c.refresher.joinInFlight(ctx)
			if !joined {
				return cause
			}
			if err != nil {
				return err
			}
			r.override = token
			return c.do(ctx, r, out)
		case current != r.sentToken:
			r.override = current
			return c.do(ctx, r, out)
		}
	}

	leader, token, err := c.refresher.acquireOrWait(ctx)
	if !leader {
		if err != nil {
			return err
		}
		r.override = token
		return c.do(ctx, r, out)
	}

	token, err = c.refreshAsLeader(ctx)
	if err != nil {
		return err
	}
	r.override = token
	return c.do(ctx, r, out)
}

// refreshAsLeader performs the single refresh call and settles the waiters.
// The refresh call ignores cancellation of ctx; waiters depend on its outcome.
func (c *Client) refreshAsLeader(ctx context.Context) (token string, err error) {
	settled := false
	defer func() {
		if !settled {
			c.refresher.release("", errors.New("token refresh aborted"))
		}
	}()

	c.logger.Info(ctx, "refreshing access token")

	token, err = c.requestRefresh(context.WithoutCancel(ctx))
	c.metrics.observeRefresh(err)
	if err != nil {
		c.logger.Warn(ctx, "token refresh failed", "error", err)
		c.clearSession(ctx)
		settled = true
		c.refresher.release("", err)
		c.redirectToLogin(ctx)
		return "", err
	}

	if perr := c.creds.SetToken(ctx, token); perr != nil {
		c.logger.Warn(ctx, "persist refreshed token", "error", perr)
	}
	settled = true
	c.refresher.release(token, nil)
	c.logger.Info(ctx, "access token refreshed")
	return token, nil
}

func (c *Client) requestRefresh(ctx context.Context) (string, error) {
	r := &request{
		method:   http.MethodGet,
		path:     refreshPath,
		id:       uuid.NewString(),
		public:   true,
		noBearer: true,
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, r, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return out.AccessToken, nil
}

// expire drops the session and sends the user to the login view.
func (c *Client) expire(ctx context.Context) {
	c.clearSession(ctx)
	c.redirectToLogin(ctx)
}

func (c *Client) clearSession(ctx context.Context) {
	if err := c.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error(ctx, "clear session", "error", err)
	}
}

func (c *Client) redirectToLogin(ctx context.Context) {
	if c.nav == nil {
		return
	}
	if strings.Contains(c.nav.Location(), c.loginPath) {
		return
	}
	c.logger.Info(ctx, "session expired, redirecting", "to", c.loginPath)
	c.nav.Navigate(c.loginPath)
}

// pathf joins escaped segments onto a fixed prefix.
func pathf(prefix string, segments ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
