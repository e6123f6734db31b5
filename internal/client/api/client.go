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

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/charitydesk/internal/client/identity"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/client/session"
	"github.com/dmitrijs2005/charitydesk/internal/common"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	maxBodySize    = 4 << 20
	defaultTimeout = 30 * time.Second

	// ReasonSessionExpired is recorded on the session when the API rejects
	// its token.
	ReasonSessionExpired = "session expired"
)

var (
	ErrUnauthorized = identity.ErrUnauthorized
	ErrUnavailable  = errors.New("api unavailable")
)

// Session is the slice of session.Manager the client depends on.
type Session interface {
	AccessToken() string
	RefreshAuth(ctx context.Context) error
	ForceLogout(ctx context.Context, reason string) error
	UpdateUser(ctx context.Context, user models.User) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	session    Session
	log        logging.Logger
	now        func() time.Time

	attempts   uint
	retryDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. It applies to the client given by
// WithHTTPClient regardless of option order, without modifying it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRetry sets how many times a GET is attempted and the base delay
// between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts == 0 {
			attempts = 1
		}
		c.attempts = attempts
		c.retryDelay = delay
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, s Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    s,
		log:        logging.Discard(),
		now:        time.Now,
		attempts:   3,
		retryDelay: 200 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	c.httpClient = common.TimeoutClient(c.httpClient, c.timeout, defaultTimeout)
	return c
}

type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.ensureFresh(ctx); err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var resp response
	send := func() error {
		r, err := c.send(ctx, method, target, payload)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	var err error
	if method == http.MethodGet {
		err = retry.Do(send,
			retry.Context(ctx),
			retry.Attempts(c.attempts),
			retry.Delay(c.retryDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return errors.Is(err, ErrUnavailable) && ctx.Err() == nil
			}),
			retry.OnRetry(func(n uint, err error) {
				c.log.Debug(ctx, "retrying request", "method", method, "path", path, "attempt", n+1, "err", err)
			}),
		)
	} else {
		err = send()
	}
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		if ferr := c.session.ForceLogout(ctx, ReasonSessionExpired); ferr != nil {
			c.log.Error(ctx, "failed to clear session after 401", "err", ferr)
		}
		return &identity.APIError{StatusCode: resp.status, Message: identity.ErrorMessage(resp.body)}
	}
	if resp.status < 200 || resp.status > 299 {
		return &identity.APIError{StatusCode: resp.status, Message: identity.ErrorMessage(resp.body)}
	}
	if out == nil {
		return nil
	}
	return identity.DecodeBody(resp.body, out)
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return response{}, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", common.ContentTypeJSON)
	req.Header.Set(common.RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return response{}, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "api request", "method", method, "url", target, "status", resp.StatusCode, "request_id", requestID)
	return response{status: resp.StatusCode, body: data}, nil
}

// ensureFresh refreshes the session when its access token has expired.
// Tokens that are not JWTs or carry no exp are sent as they are.
func (c *Client) ensureFresh(ctx context.Context) error {
	token := c.session.AccessToken()
	if token == "" || !c.expired(token) {
		return nil
	}

	err := c.session.RefreshAuth(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrRefreshFailed):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		// busy or no refresh token: let the server decide
		c.log.Debug(ctx, "pre-request refresh skipped", "err", err)
		return nil
	}
}

func (c *Client) expired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(c.now())
}
