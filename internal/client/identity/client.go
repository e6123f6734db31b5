package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/common"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
	"github.com/google/uuid"
)

const (
	maxBodySize    = 1 << 20
	defaultTimeout = 30 * time.Second
)

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	log            logging.Logger
	onUnauthorized func(ctx context.Context) error
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

// WithUnauthorizedHandler registers fn to run when a call made on behalf of
// a signed-in user is answered with 401. Login, Refresh, Verify and Logout
// never trigger it; the session manager handles their failures itself.
func WithUnauthorizedHandler(fn func(ctx context.Context) error) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New returns a client for the identity endpoint rooted at baseURL,
// e.g. "http://localhost:8080/api/v1/auth".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.httpClient = common.TimeoutClient(c.httpClient, c.timeout, defaultTimeout)
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	in := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", "", in, &out); err != nil {
		return nil, err
	}
	if err := validateAuth(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the endpoint to revoke the session. Callers treat its
// failure as non-fatal.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var out AuthResponse
	in := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}
	if err := c.do(ctx, http.MethodPost, "/refresh", "", in, &out); err != nil {
		return nil, err
	}
	if err := validateAuth(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify confirms accessToken is still accepted and returns its owner.
func (c *Client) Verify(ctx context.Context, accessToken string) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/verify", accessToken, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil || out.User.ID == "" {
		return nil, fmt.Errorf("%w: verify returned no user", ErrMalformedResponse)
	}
	return out.User, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, accessToken, current, next string) error {
	in := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{current, next}
	return c.doAuthed(ctx, http.MethodPost, "/change-password", accessToken, in, nil)
}

// ForgotPassword asks the endpoint to send a reset token for email. The
// answer is the same whether or not the address is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	in := struct {
		Email string `json:"email"`
	}{email}
	if err := c.do(ctx, http.MethodPost, "/forgot-password", "", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword sets a new password using a token from ForgotPassword.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var out messageBody
	in := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{token, password}
	if err := c.do(ctx, http.MethodPost, "/reset-password", "", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

type messageBody struct {
	Message string `json:"message"`
}

func validateAuth(r *AuthResponse) error {
	if r.Token == "" || r.User.ID == "" {
		return fmt.Errorf("%w: token and user are required", ErrMalformedResponse)
	}
	return nil
}

// doAuthed is do for calls made on behalf of the signed-in user: a 401
// also runs the unauthorized handler.
func (c *Client) doAuthed(ctx context.Context, method, path, token string, in, out any) error {
	err := c.do(ctx, method, path, token, in, out)
	var apiErr *APIError
	if c.onUnauthorized != nil && errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if herr := c.onUnauthorized(ctx); herr != nil {
			c.log.Error(ctx, "unauthorized handler failed", "path", path, "err", herr)
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", common.ContentTypeJSON)
	req.Header.Set(common.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "identity request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "identity request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: ErrorMessage(data)}
	}
	if out == nil {
		return nil
	}
	return DecodeBody(data, out)
}

// DecodeBody unmarshals data into out, unwrapping a {"data": …} envelope
// when present.
func DecodeBody(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		data = env.Data
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// ErrorMessage extracts the reason from an error body. It understands a
// top-level "message" or "error" field and the {"meta":{"message":…}}
// envelope used by the platform backend.
func ErrorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Meta    struct {
			Message string `json:"message"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	}
	return body.Meta.Message
}
