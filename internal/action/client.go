// Package action forwards authenticated calls to the remote clinic API and
// normalises every outcome into a Result.
package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"clinic-web/internal/domain"
	"clinic-web/internal/observability"
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionAccessor returns the caller's current session. Implementations must
// read it fresh on every call.
type SessionAccessor interface {
	CurrentSession(ctx context.Context) (*domain.Session, error)
}

// failure kinds, kept for logs and metrics only
const (
	outcomeOK              = "ok"
	outcomeRejected        = "rejected"
	outcomeTransport       = "transport"
	outcomeUnauthenticated = "unauthenticated"
)

// Client talks to the remote API. It holds no per-user state.
type Client struct {
	baseURL  string
	http     Doer
	sessions SessionAccessor
}

// NewClient creates a new remote API client. A nil httpClient means
// http.DefaultClient.
func NewClient(baseURL string, httpClient Doer, sessions SessionAccessor) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		sessions: sessions,
	}
}

// Orders returns the order actions.
func (c *Client) Orders() *OrderActions { return &OrderActions{client: c} }

// Reviews returns the review actions.
func (c *Client) Reviews() *ReviewActions { return &ReviewActions{client: c} }

// Catalog returns the public catalog actions.
func (c *Client) Catalog() *CatalogActions { return &CatalogActions{client: c} }

type request struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	public    bool   // no bearer credential required
	fallback  string // error text when the remote gives none
}

// envelope is the remote success body.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
	Message    string          `json:"message"`
}

// remoteError is the remote failure body.
type remoteError struct {
	Message string `json:"message"`
}

type callError struct {
	outcome string
	status  int
	msg     string
	err     error
}

func (c *Client) send(ctx context.Context, r request) (*envelope, *callError) {
	start := time.Now()
	env, cerr := c.roundTrip(ctx, r)

	outcome := outcomeOK
	if cerr != nil {
		outcome = cerr.outcome
		attrs := []any{
			slog.String("resource", r.resource),
			slog.String("operation", r.operation),
			slog.String("kind", cerr.outcome),
			slog.String("message", cerr.msg),
		}
		if cerr.status != 0 {
			attrs = append(attrs, slog.Int("status", cerr.status))
		}
		if cerr.err != nil {
			attrs = append(attrs, observability.Err(cerr.err))
		}
		observability.FromContext(ctx).Warn("remote API call failed", attrs...)
	}

	observability.ActionRequestsTotal.WithLabelValues(r.resource, r.operation, outcome).Inc()
	if outcome != outcomeUnauthenticated {
		observability.ActionRequestDuration.WithLabelValues(r.resource, r.operation).Observe(time.Since(start).Seconds())
	}
	return env, cerr
}

func (c *Client) roundTrip(ctx context.Context, r request) (*envelope, *callError) {
	var token string
	if !r.public {
		session, err := c.currentSession(ctx)
		if err != nil {
			return nil, &callError{outcome: outcomeUnauthenticated, msg: MsgNotAuthenticated, err: err}
		}
		token = session.AccessToken
	}

	req, err := c.newRequest(ctx, r, token)
	if err != nil {
		return nil, &callError{outcome: outcomeTransport, msg: err.Error(), err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &callError{outcome: outcomeTransport, msg: err.Error(), err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &callError{outcome: outcomeTransport, status: resp.StatusCode, msg: err.Error(), err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rerr remoteError
		if jsonErr := json.Unmarshal(body, &rerr); jsonErr != nil {
			rerr = remoteError{}
		}
		msg := rerr.Message
		if msg == "" {
			msg = r.fallback
		}
		return nil, &callError{outcome: outcomeRejected, status: resp.StatusCode, msg: msg}
	}

	var env envelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			err = fmt.Errorf("failed to decode response: %w", err)
			return nil, &callError{outcome: outcomeTransport, status: resp.StatusCode, msg: err.Error(), err: err}
		}
	}
	return &env, nil
}

func (c *Client) currentSession(ctx context.Context) (*domain.Session, error) {
	if c.sessions == nil {
		return nil, domain.ErrNotAuthenticated
	}
	session, err := c.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || session.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return session, nil
}

func (c *Client) newRequest(ctx context.Context, r request, token string) (*http.Request, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if r.method == http.MethodGet {
		// reads must never be served from an intermediate cache
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")
	}
	return req, nil
}

// call performs r and decodes the remote data field into T.
func call[T any](ctx context.Context, c *Client, r request) Result[T] {
	env, cerr := c.send(ctx, r)
	if cerr != nil {
		return failure[T](cerr.msg)
	}

	var data T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return failure[T](fmt.Sprintf("failed to decode %s: %v", r.resource, err))
		}
	}

	return Result[T]{
		Success:    true,
		Data:       data,
		Message:    env.Message,
		Pagination: env.Pagination,
	}
}

// callList is call for collection endpoints.
func callList[T any](ctx context.Context, c *Client, r request) Result[[]T] {
	res := call[[]T](ctx, c, r)
	if !res.Success {
		return listFailure[T](res.Error)
	}
	if res.Data == nil {
		res.Data = []T{}
	}
	return res
}

// IsNotAuthenticated reports whether a result failed for lack of a session.
func IsNotAuthenticated[T any](r Result[T]) bool {
	return !r.Success && r.Error == MsgNotAuthenticated
}
