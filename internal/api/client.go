// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flappyballoon/balloon/pkg/core"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the game backend. The session cookie set by Login is kept
// in the client's cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil options value
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login opens a session with username and password.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.send(ctx, http.MethodPost, "/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the logged-in player, or nil when there is no session.
func (c *Client) Me(ctx context.Context) (*core.Player, error) {
	var p core.Player
	err := c.send(ctx, http.MethodGet, "/me", nil, &p)
	if IsStatus(err, http.StatusUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &p, nil
}

// SubmitRun stores a finished run for the logged-in player.
func (c *Client) SubmitRun(ctx context.Context, run core.RunResult) error {
	if err := c.send(ctx, http.MethodPost, "/games", run, nil); err != nil {
		return fmt.Errorf("submit run: %w", err)
	}
	return nil
}

// FetchMyStats returns the logged-in player's aggregate stats.
func (c *Client) FetchMyStats(ctx context.Context) (core.PlayerStats, error) {
	var stats core.PlayerStats
	if err := c.send(ctx, http.MethodGet, "/stats/me", nil, &stats); err != nil {
		return core.PlayerStats{}, fmt.Errorf("fetch stats: %w", err)
	}
	return stats, nil
}

// Leaderboard returns the top players by best score.
func (c *Client) Leaderboard(ctx context.Context) ([]core.PlayerStats, error) {
	var board []core.PlayerStats
	if err := c.send(ctx, http.MethodGet, "/leaderboard", nil, &board); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return board, nil
}

// Player looks up a player by id.
func (c *Client) Player(ctx context.Context, id int) (*core.Player, error) {
	var p core.Player
	if err := c.send(ctx, http.MethodGet, "/players/"+strconv.Itoa(id), nil, &p); err != nil {
		return nil, fmt.Errorf("player %d: %w", id, err)
	}
	return &p, nil
}

// send encodes body as JSON (when non-nil) and decodes the answer into out
// (when non-nil).
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
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
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readDetail extracts the "detail" field of an error body. A detail that is
// not a string (validation errors) is returned as raw JSON.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}
