// Package client is the Go client of the MyContacts REST API. It attaches the session token to
// every authenticated call and logs the session out when the server rejects it.
package client

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

	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// ErrSessionExpired is returned when the server rejects the session token. The session has
// already been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired, please log in again")

// ErrNotLoggedIn is returned for authenticated calls without a session token.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response of the API.
type APIError struct {
	Status  int
	Title   string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, e.Title)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// New creates a client for the server at baseURL, e.g. http://localhost:10000.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// Register creates an account and stores the returned token in the session.
func (c *Client) Register(ctx context.Context, username, password string) (apimodel.User, error) {
	return c.authenticate(ctx, "/api/users/register", username, password)
}

// Login stores a fresh token in the session.
func (c *Client) Login(ctx context.Context, username, password string) (apimodel.User, error) {
	return c.authenticate(ctx, "/api/users/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (apimodel.User, error) {
	var resp apimodel.AuthResponse
	err := c.do(ctx, http.MethodPost, path, apimodel.Credentials{Username: username, Password: password}, &resp, false)
	if err != nil {
		return apimodel.User{}, err
	}
	if err := c.session.Set(resp.Token, resp.User); err != nil {
		return apimodel.User{}, err
	}
	return resp.User, nil
}

// Logout forgets the session. The server keeps no session state.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// CurrentUser returns the user the session belongs to.
func (c *Client) CurrentUser(ctx context.Context) (apimodel.User, error) {
	var user apimodel.User
	err := c.do(ctx, http.MethodGet, "/api/users/current", nil, &user, true)
	return user, err
}

// ListContacts returns all contacts of the user, oldest first.
func (c *Client) ListContacts(ctx context.Context) ([]apimodel.Contact, error) {
	contacts := make([]apimodel.Contact, 0)
	err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &contacts, true)
	return contacts, err
}

// CreateContact stores a new contact.
func (c *Client) CreateContact(ctx context.Context, req apimodel.ContactRequest) (apimodel.Contact, error) {
	var contact apimodel.Contact
	err := c.do(ctx, http.MethodPost, "/api/contacts", req, &contact, true)
	return contact, err
}

// GetContact returns one contact.
func (c *Client) GetContact(ctx context.Context, id string) (apimodel.Contact, error) {
	var contact apimodel.Contact
	err := c.do(ctx, http.MethodGet, contactPath(id), nil, &contact, true)
	return contact, err
}

// UpdateContact changes the fields set in req.
func (c *Client) UpdateContact(ctx context.Context, id string, req apimodel.ContactRequest) (apimodel.Contact, error) {
	var contact apimodel.Contact
	err := c.do(ctx, http.MethodPut, contactPath(id), req, &contact, true)
	return contact, err
}

// DeleteContact removes a contact and returns it.
func (c *Client) DeleteContact(ctx context.Context, id string) (apimodel.Contact, error) {
	var contact apimodel.Contact
	err := c.do(ctx, http.MethodDelete, contactPath(id), nil, &contact, true)
	return contact, err
}

// Ping returns nil if the server answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil, false)
}

func contactPath(id string) string {
	return "/api/contacts/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authenticated {
		token := c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if authenticated && res.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			return errors.Join(ErrSessionExpired, err)
		}
		return ErrSessionExpired
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status, Title: http.StatusText(status)}
	var envelope apimodel.ErrorResponse
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Title != "" {
		apiErr.Title = envelope.Title
		apiErr.Message = envelope.Message
		apiErr.Fields = envelope.Fields
	}
	return apiErr
}
