package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// Session is the slice of the session store the gateway needs: reading the
// current access token and triggering a refresh. Only the refresh path
// writes shared state, which is why no broader locking exists here.
type Session interface {
	AccessToken() string
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Client is the single chokepoint for authenticated requests. It attaches
// the bearer token, treats a 401 as token expiry, coordinates at most one
// refresh across concurrent callers, and retries the original request
// exactly once after a successful refresh.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
	refresh singleflight.Group
	metrics *Metrics
	logger  *zap.Logger
}

// Option customises a gateway client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a gateway client against the given base URL.
func New(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues an authenticated request and returns the raw response. Auth
// outcomes are resolved here: a missing token fails immediately with an
// unauthenticated error, and a 401 that survives one refresh-and-retry
// round surfaces as-is for the caller's decoder. The caller owns closing
// the response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	token := c.session.AccessToken()
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindValidation, 0, "encode request body")
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// 401 means the access token expired, not a permanent failure. Drain
	// the dead response before the refresh round.
	drain(resp)

	newToken, err := c.refreshToken(ctx)
	if err != nil {
		return nil, err
	}

	c.observeRetry()
	retryResp, err := c.send(ctx, method, path, query, payload, newToken)
	if err != nil {
		return nil, err
	}
	// Whatever the retry produced is final; there is no second retry.
	return retryResp, nil
}

// refreshToken coordinates the single-flight refresh: concurrent callers
// that hit a 401 at the same time share one call to the session store.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		token, err := c.session.RefreshAccessToken(ctx)
		if err != nil {
			c.observeRefresh("failure")
			return "", err
		}
		c.observeRefresh("success")
		return token, nil
	})
	if err != nil {
		// The session store already cleared itself and redirect is the
		// top-level handler's decision, not ours.
		return "", apperrors.Wrap(err, apperrors.KindSessionExpired, http.StatusUnauthorized, "session expired")
	}
	return v.(string), nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindNetwork, 0, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observeRequest(method, 0)
		return nil, apperrors.Wrap(err, apperrors.KindNetwork, 0, "request failed")
	}
	c.observeRequest(method, resp.StatusCode)
	return resp, nil
}

// GetJSON issues a GET and decodes the response envelope into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST and decodes the response envelope into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// PutJSON issues a PUT and decodes the response envelope into out.
func (c *Client) PutJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE, expecting an envelope with no data.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindNetwork, 0, "read response body")
	}
	if err := response.Decode(resp.StatusCode, raw, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) observeRequest(method string, status int) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(method, status)
	}
}

func (c *Client) observeRefresh(outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveRefresh(outcome)
	}
}

func (c *Client) observeRetry() {
	if c.metrics != nil {
		c.metrics.ObserveRetry()
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
