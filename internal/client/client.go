// Package client talks to the timesheet API on behalf of one signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/timesheet"

	"golang.org/x/oauth2"
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is an authenticated timesheet API client. It satisfies timesheet.Source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ timesheet.Source = (*Client)(nil)

// New returns a client sending token as a bearer credential on every request
func New(ctx context.Context, baseURL, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// Login exchanges credentials for a token. It needs no client.
func Login(ctx context.Context, baseURL, email, password string) (*models.AuthResponse, error) {
	c := &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: http.DefaultClient}
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the signed-in employee
func (c *Client) Me(ctx context.Context) (*models.Employee, error) {
	var emp models.Employee
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// Fetch returns the nested timesheet of an employee for [start, end]
func (c *Client) Fetch(ctx context.Context, start, end, employeeID string) ([]timesheet.PackageGroup, error) {
	q := url.Values{"start": {start}, "end": {end}}
	path := fmt.Sprintf("/api/employees/%s/timesheets?%s", url.PathEscape(employeeID), q.Encode())

	var groups []timesheet.PackageGroup
	if err := c.do(ctx, http.MethodGet, path, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Submit posts a nested payload for an employee
func (c *Client) Submit(ctx context.Context, payload []timesheet.PackageGroup, employeeID string) error {
	path := fmt.Sprintf("/api/employees/%s/timesheets", url.PathEscape(employeeID))
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

// Summary returns the per-package and per-day totals of a range
func (c *Client) Summary(ctx context.Context, start, end, employeeID string) (*models.TimesheetSummary, error) {
	q := url.Values{"start": {start}, "end": {end}}
	path := fmt.Sprintf("/api/employees/%s/timesheets/summary?%s", url.PathEscape(employeeID), q.Encode())

	var sum models.TimesheetSummary
	if err := c.do(ctx, http.MethodGet, path, nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
