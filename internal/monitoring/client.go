package monitoring

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
)

// ErrUnavailable is wrapped by every error caused by the monitoring API being
// unreachable or answering with something that is not part of its contract.
// Callers surface a generic retry hint for it instead of the raw error.
var ErrUnavailable = errors.New("monitoring API unavailable")

// HTTPClient captures the part of *http.Client the monitoring client uses
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultTimeout = 15 * time.Second

// Client talks to the access-monitoring REST API.
// It performs no retries and imposes no timeout beyond the one of the
// underlying HTTP client; every call is a single attempt.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// Options allows overriding the dependencies of the client
type Options struct {
	HTTPClient HTTPClient
}

// New creates a new monitoring API client using the given base URL (e.g. 'http://localhost:8080/api')
func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("monitoring API base URL is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse monitoring API base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// SystemInfo retrieves the aggregate system counters ('GET /system/info')
func (client *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	info := new(SystemInfo)
	if err := client.getJSON(ctx, "/system/info", info); err != nil {
		return nil, err
	}
	return info, nil
}

// AccessHistory retrieves all registered user records in server order ('GET /access-history')
func (client *Client) AccessHistory(ctx context.Context) ([]UserRecord, error) {
	var records []UserRecord
	if err := client.getJSON(ctx, "/access-history", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddUser registers a new user record ('POST /access-history').
// A rejection (duplicate identifier, validation failure, capacity exceeded) is
// reported through the returned result, not through the error value.
func (client *Client) AddUser(ctx context.Context, record UserRecord) (*ActionResult, error) {
	return client.postAction(ctx, "/access-history", record)
}

// RemoveUser deletes a user record and, server-side, their whole session
// history ('DELETE /access-history/{userId}')
func (client *Client) RemoveUser(ctx context.Context, userID string) (*ActionResult, error) {
	req, err := client.newRequest(ctx, http.MethodDelete, "/access-history/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	return client.doAction(req)
}

// Sessions retrieves all sessions of all users in server order ('GET /sessions/all')
func (client *Client) Sessions(ctx context.Context) ([]Session, error) {
	var dtos []sessionDTO
	if err := client.getJSON(ctx, "/sessions/all", &dtos); err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(dtos))
	for i := range dtos {
		session, err := dtos[i].toSession()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// UserSessions retrieves the session history of a single user in server order
// ('GET /sessions/user/{userId}')
func (client *Client) UserSessions(ctx context.Context, userID string) ([]UserSession, error) {
	var dtos []userSessionDTO
	if err := client.getJSON(ctx, "/sessions/user/"+url.PathEscape(userID), &dtos); err != nil {
		return nil, err
	}
	sessions := make([]UserSession, 0, len(dtos))
	for i := range dtos {
		session, err := dtos[i].toUserSession()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// StartSession opens a session for the given user ('POST /sessions/login')
func (client *Client) StartSession(ctx context.Context, userID string) (*ActionResult, error) {
	return client.postAction(ctx, "/sessions/login", startSessionRequest{UserID: userID})
}

// EndSession closes the open session of the given user ('POST /sessions/logout')
func (client *Client) EndSession(ctx context.Context, userID string) (*ActionResult, error) {
	return client.postAction(ctx, "/sessions/logout", startSessionRequest{UserID: userID})
}

func (client *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %s", ErrUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (client *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := client.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d on GET %s", ErrUnavailable, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode GET %s response: %s", ErrUnavailable, path, err)
	}
	return nil
}

func (client *Client) postAction(ctx context.Context, path string, payload any) (*ActionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request body: %s", ErrUnavailable, err)
	}
	req, err := client.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return client.doAction(req)
}

// doAction executes a mutation request and decodes its action result.
// The API reports rejections through the response body with varying HTTP
// status codes, so the body is decoded regardless of the status.
func (client *Client) doAction(req *http.Request) (*ActionResult, error) {
	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	result := new(ActionResult)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("%w: decode %s %s response: %s", ErrUnavailable, req.Method, req.URL.Path, err)
	}
	return result, nil
}
