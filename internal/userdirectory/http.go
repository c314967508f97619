package userdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"customer-service/pkg/platform/sentinel"
)

// HTTPClient talks to the user service over JSON:
//
//	GET {base}/api/users/{id} -> User (404 = absent)
//	GET {base}/api/users      -> []User
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient builds a client with a per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	var user User
	found, err := c.getJSON(ctx, "/api/users/"+strconv.FormatInt(userID, 10), &user)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (c *HTTPClient) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if _, err := c.getJSON(ctx, "/api/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// getJSON decodes a 200 body into out. A 404 reports found=false; transport
// failures and 5xx are reported as sentinel.ErrUnavailable.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) (found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("%w: status %d: %s", sentinel.ErrUnavailable, resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}
