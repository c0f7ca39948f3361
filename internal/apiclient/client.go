// Package apiclient executes authenticated requests against the shipyard
// backend. It owns the bearer header, the forced-logout path on an
// authentication-rejected response, and the extraction of human-readable
// error messages from failure bodies.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/session"
)

const defaultFailureMessage = "Request failed"

// Client is the authenticated request executor shared by all endpoint
// groups.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessions       *session.Store
	logger         *zap.Logger
	onAuthRejected func()

	Auth          *AuthService
	Users         *UsersService
	ShipOrders    *ShipOrdersService
	ShipRepairs   *ShipRepairsService
	Tenders       *TendersService
	Inventory     *InventoryService
	StockExports  *StockExportsService
	Payments      *PaymentsService
	Notifications *NotificationsService
	Dashboard     *DashboardService
	Public        *PublicService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthRejectedHook registers the redirect-to-login analogue invoked after
// the session has been cleared by a rejected credential.
func WithAuthRejectedHook(hook func()) Option {
	return func(c *Client) { c.onAuthRejected = hook }
}

// New creates a Client rooted at baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string, sessions *session.Store, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		sessions:   sessions,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthService{c}
	c.Users = &UsersService{c}
	c.ShipOrders = &ShipOrdersService{c}
	c.ShipRepairs = &ShipRepairsService{c}
	c.Tenders = &TendersService{c}
	c.Inventory = &InventoryService{c}
	c.StockExports = &StockExportsService{c}
	c.Payments = &PaymentsService{c}
	c.Notifications = &NotificationsService{c}
	c.Dashboard = &DashboardService{c}
	c.Public = &PublicService{c}
	return c
}

// send executes one request. A 401 clears the session, fires the
// auth-rejected hook and returns ErrAuthRejected. Any other non-2xx status
// becomes a *RequestError carrying the body's message field. A 204 or empty
// body yields a nil payload.
func (c *Client) send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Message: defaultFailureMessage, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &RequestError{Message: defaultFailureMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if credential := c.sessions.Credential(); credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &RequestError{Message: defaultFailureMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("credential rejected, forcing logout",
			zap.String("method", method),
			zap.String("path", path))
		c.sessions.Clear()
		if c.onAuthRejected != nil {
			c.onAuthRejected()
		}
		return nil, ErrAuthRejected
	}

	payload, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractMessage(payload)
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &RequestError{Status: resp.StatusCode, Message: message}
	}
	if readErr != nil {
		return nil, &RequestError{Message: defaultFailureMessage, Err: readErr}
	}
	if resp.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return nil, nil
	}
	return payload, nil
}

// extractMessage pulls the message field out of an error body, falling back
// to a generic failure message.
func extractMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return defaultFailureMessage
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || payload == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &RequestError{Message: defaultFailureMessage, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
