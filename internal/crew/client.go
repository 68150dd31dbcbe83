// Package crew is the HTTP client for the remote Crew record-management
// API. It owns transport concerns end to end: auth, timeouts, response
// decoding, and classifying failures into APIError values the pipeline
// can inspect without ever parsing message text itself.
package crew

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

	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"
)

// Config holds the client's connection settings.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// Client talks to the Crew API. It satisfies core.RecordService.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client from config. A zero timeout falls back to
// 30 seconds; the pipeline itself imposes no timeouts of its own.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: timeout},
	}
}

// apiUser is the wire shape of one user in the /api/users listing.
type apiUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID int64  `json:"company_id"`
}

// ResolveCompanyID resolves the owning company id from the first user
// returned by /api/users. Every record created in a batch shares it.
func (c *Client) ResolveCompanyID(ctx context.Context) (int64, error) {
	users, err := c.fetchUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve company id: %w", err)
	}
	for _, u := range users {
		if u.CompanyID != 0 {
			return u.CompanyID, nil
		}
	}
	return 0, &APIError{
		Status:  http.StatusInternalServerError,
		Message: "unable to resolve company_id from /api/users",
	}
}

// ListUsers returns the existing remote users for duplicate prefetching.
func (c *Client) ListUsers(ctx context.Context) ([]core.ExistingUser, error) {
	users, err := c.fetchUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]core.ExistingUser, 0, len(users))
	for _, u := range users {
		out = append(out, core.ExistingUser{ID: u.ID, Email: u.Email, Name: u.Name})
	}
	return out, nil
}

func (c *Client) fetchUsers(ctx context.Context) ([]apiUser, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Data []apiUser `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode /api/users response: %w", err)
	}
	return body.Data, nil
}

// FindOrCreateCompanyByName looks a customer-company up by name and
// creates it when absent. Matching is case-insensitive on the trimmed
// name, mirroring how the pipeline's per-batch cache is keyed.
func (c *Client) FindOrCreateCompanyByName(ctx context.Context, name string, companyID int64) (int64, error) {
	path := "/api/customer-companies?name=" + url.QueryEscape(name)
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("find customer company: %w", err)
	}

	var listing struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &listing); err != nil {
		return 0, fmt.Errorf("decode customer-companies response: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, cc := range listing.Data {
		if strings.ToLower(strings.TrimSpace(cc.Name)) == want {
			return cc.ID, nil
		}
	}

	created, err := c.do(ctx, http.MethodPost, "/api/customer-companies", map[string]any{
		"name":       name,
		"company_id": companyID,
	})
	if err != nil {
		return 0, fmt.Errorf("create customer company: %w", err)
	}

	var createdBody struct {
		ID   int64 `json:"id"`
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(created, &createdBody); err != nil {
		return 0, fmt.Errorf("decode created customer company: %w", err)
	}
	if createdBody.ID != 0 {
		return createdBody.ID, nil
	}
	if createdBody.Data.ID != 0 {
		return createdBody.Data.ID, nil
	}
	return 0, &APIError{
		Status:  http.StatusInternalServerError,
		Message: "customer company created but no id returned",
	}
}

// Submit posts one record payload to the given endpoint and returns the
// raw response body.
func (c *Client) Submit(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// do performs one request. Non-2xx responses become *APIError with the
// status, the server's message, and the duplicate-entry classification
// applied at this boundary.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	return json.RawMessage(data), nil
}
