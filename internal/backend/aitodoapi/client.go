// Package aitodoapi implements the service.Service interface against
// the AI Todo REST backend.
package aitodoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"aitodo/internal/config"
	"aitodo/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second
)

// Client implements service.Service against the AI Todo backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new backend client. Requires token.json to exist; the
// stored token is attached as a bearer token to every request.
func New(ctx context.Context, cfg *config.Config, baseURL string) (*Client, error) {
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token.json has no access token")
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// PendingReminders returns all reminders currently in pending status.
func (c *Client) PendingReminders(ctx context.Context) ([]service.Reminder, error) {
	var result []service.Reminder
	if err := c.do(ctx, http.MethodGet, "/reminders/pending", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkReminderSent transitions a reminder to sent.
func (c *Client) MarkReminderSent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/reminders/%d/sent", id), nil, nil)
}

// DismissReminder transitions a reminder to dismissed.
func (c *Client) DismissReminder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/reminders/%d/dismiss", id), nil, nil)
}

// Goals returns all goals.
func (c *Client) Goals(ctx context.Context) ([]service.Goal, error) {
	var result []service.Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GoalTasks returns the task forest for a goal.
func (c *Client) GoalTasks(ctx context.Context, goalID int) ([]*service.Task, error) {
	var result []*service.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/goals/%d/tasks", goalID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Task returns a single task by id.
func (c *Client) Task(ctx context.Context, id int) (*service.Task, error) {
	var result service.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateTask creates a task under a goal.
func (c *Client) CreateTask(ctx context.Context, goalID int, t service.TaskCreate) (*service.Task, error) {
	var result service.Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/goals/%d/tasks", goalID), t, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), upd, nil)
}

// DeleteTask deletes a task. The backend cascades to the subtree.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// do performs one request with the per-call timeout. body (if non-nil)
// is JSON-encoded; a non-nil out receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return wrapStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wrapStatus maps HTTP error responses to user-friendly messages.
func wrapStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("token expired or revoked (run: aitodo login)")
	case http.StatusNotFound:
		return fmt.Errorf("not found")
	}

	// Surface the backend's detail message when present.
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Detail != "" {
		return fmt.Errorf("backend: %s", payload.Detail)
	}
	return fmt.Errorf("backend: %s", resp.Status)
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	return err
}
