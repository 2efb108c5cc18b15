// Package account wraps the remote account service: session, profile,
// goals, and course resources behind a bearer-token HTTP API.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microacademy/tracker/internal/kv"
	"github.com/microacademy/tracker/internal/types"
)

// APIError is an ordinary HTTP failure: the service answered with a non-2xx
// status. Transport failures are returned as plain wrapped errors instead.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("account service: %s (status %d)", e.Detail, e.Status)
}

// Client is the remote account service client. The bearer token is read
// fresh from the key-value store on every request, so logging out
// de-authenticates all subsequent calls immediately.
type Client struct {
	baseURL string
	kv      kv.Store
	http    *http.Client
}

// New creates a Client for the service at baseURL (e.g.
// "http://localhost:8000/api/v1") with credentials stored in kvs.
func New(baseURL string, kvs kv.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		kv:      kvs,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// token returns the stored bearer token, or empty when not logged in.
func (c *Client) token(ctx context.Context) string {
	data, err := c.kv.Get(ctx, kv.KeyAuthToken)
	if err != nil {
		return ""
	}
	return string(data)
}

// IsAuthenticated reports whether a session token is held.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.token(ctx) != ""
}

// CachedUser returns the locally cached profile from the last login,
// or nil when absent.
func (c *Client) CachedUser(ctx context.Context) *types.User {
	data, err := c.kv.Get(ctx, kv.KeyUser)
	if err != nil {
		return nil
	}
	var user types.User
	if err := json.Unmarshal(data, &user); err != nil {
		slog.Error("cached user profile is corrupt", "error", err)
		return nil
	}
	return &user
}

// request performs an authenticated JSON round trip. A non-2xx response is
// returned as *APIError carrying the service's detail message; anything at
// the transport level comes back as a wrapped network error.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := struct {
			Detail string `json:"detail"`
		}{}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil || detail.Detail == "" {
			detail.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Signup creates a new account. The issued token is not persisted; callers
// that want a session follow up with Login.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*types.TokenResponse, error) {
	var resp types.TokenResponse
	err := c.request(ctx, http.MethodPost, "/auth/signup",
		types.SignupRequest{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and, on success, persists the session token and the
// returned profile into local storage.
func (c *Client) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	var resp types.TokenResponse
	err := c.request(ctx, http.MethodPost, "/auth/login",
		types.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken != "" {
		if err := c.kv.Set(ctx, kv.KeyAuthToken, []byte(resp.AccessToken)); err != nil {
			return nil, fmt.Errorf("persist session token: %w", err)
		}
		if resp.User != nil {
			data, err := json.Marshal(resp.User)
			if err == nil {
				if err := c.kv.Set(ctx, kv.KeyUser, data); err != nil {
					slog.Error("failed to cache user profile", "error", err)
				}
			}
		}
	}

	return &resp, nil
}

// Logout clears the session token and cached profile.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.kv.Delete(ctx, kv.KeyAuthToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := c.kv.Delete(ctx, kv.KeyUser); err != nil {
		return fmt.Errorf("clear cached user: %w", err)
	}
	return nil
}

// RefreshToken exchanges the current token for a fresh one and persists it.
func (c *Client) RefreshToken(ctx context.Context) (*types.TokenResponse, error) {
	var resp types.TokenResponse
	if err := c.request(ctx, http.MethodPost, "/auth/refresh", nil, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken != "" {
		if err := c.kv.Set(ctx, kv.KeyAuthToken, []byte(resp.AccessToken)); err != nil {
			return nil, fmt.Errorf("persist session token: %w", err)
		}
	}
	return &resp, nil
}

// CurrentUser fetches the authenticated profile.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.request(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates name and/or preferences on the profile.
func (c *Client) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (*types.User, error) {
	var user types.User
	if err := c.request(ctx, http.MethodPut, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePreferences replaces the stored preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs types.Preferences) error {
	return c.request(ctx, http.MethodPut, "/users/me/preferences",
		types.PreferencesUpdate{Preferences: prefs}, nil)
}

// UpdateGoals replaces the stored goal list.
func (c *Client) UpdateGoals(ctx context.Context, goals []types.Goal) error {
	return c.request(ctx, http.MethodPut, "/users/me/goals",
		types.GoalsUpdate{Goals: goals}, nil)
}

// Goals fetches the goal list.
func (c *Client) Goals(ctx context.Context) ([]types.Goal, error) {
	var goals []types.Goal
	if err := c.request(ctx, http.MethodGet, "/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates a goal.
func (c *Client) CreateGoal(ctx context.Context, goal types.Goal) (*types.Goal, error) {
	var created types.Goal
	if err := c.request(ctx, http.MethodPost, "/goals", goal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGoal updates a goal by id.
func (c *Client) UpdateGoal(ctx context.Context, goalID string, goal types.Goal) (*types.Goal, error) {
	var updated types.Goal
	if err := c.request(ctx, http.MethodPut, "/goals/"+goalID, goal, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGoal removes a goal by id.
func (c *Client) DeleteGoal(ctx context.Context, goalID string) error {
	return c.request(ctx, http.MethodDelete, "/goals/"+goalID, nil, nil)
}

// Courses fetches the course library.
func (c *Client) Courses(ctx context.Context) ([]types.Course, error) {
	var courses []types.Course
	if err := c.request(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course fetches a single course by id.
func (c *Client) Course(ctx context.Context, courseID string) (*types.Course, error) {
	var course types.Course
	if err := c.request(ctx, http.MethodGet, "/courses/"+courseID, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}
