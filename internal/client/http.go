// Package client talks to the work-order service over REST or gRPC. Both
// transports satisfy the Remote the list controllers are built on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maintenanceManagement/internal/workorder"
	"maintenanceManagement/models"
)

// APIError is a non-2xx answer of the REST API.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// LoginResult is the answer of POST /api/auth/login.
type LoginResult struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// HTTPClient is the REST transport.
type HTTPClient struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewHTTPClient returns a client for the API at baseURL. token may be empty
// until Login.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *HTTPClient) WithHTTPClient(hc *http.Client) *HTTPClient {
	c.hc = hc
	return c
}

// SetToken sets the bearer token sent with every request.
func (c *HTTPClient) SetToken(token string) { c.token = token }

// Login exchanges credentials for a token and keeps it for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	c.token = res.Token
	return res, nil
}

func (c *HTTPClient) GetAll(ctx context.Context) ([]models.WorkOrder, error) {
	var out []models.WorkOrder
	if err := c.do(ctx, http.MethodGet, "/api/ots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Create(ctx context.Context, o models.WorkOrder) (models.WorkOrder, error) {
	var out models.WorkOrder
	err := c.do(ctx, http.MethodPost, "/api/ots", o, &out)
	return out, err
}

// Update sends a partial update as PATCH.
func (c *HTTPClient) Update(ctx context.Context, id int64, p models.WorkOrderPatch) (models.WorkOrder, error) {
	var out models.WorkOrder
	err := c.do(ctx, http.MethodPatch, "/api/ots/"+strconv.FormatInt(id, 10), p, &out)
	return out, err
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/ots/"+strconv.FormatInt(id, 10), nil, nil)
}

// Users lists the registered accounts (admin only).
func (c *HTTPClient) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
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
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

var _ workorder.Remote = (*HTTPClient)(nil)
