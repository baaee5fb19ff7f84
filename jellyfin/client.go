// Package jellyfin implements the subset of the Jellyfin HTTP API the picker
// depends on: quick-connect authentication, library section queries, direct
// stream URL resolution and playback progress reporting.
//
// Responses are normalized into fixed local types at this boundary so the
// rest of the application is isolated from the external schema's variability.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jellypick-cli/jellypick/constant"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/jellypick-cli/jellypick/network"
)

// Client talks to one Jellyfin server on behalf of one authenticated user.
type Client struct {
	baseURL  string
	deviceID string
	token    string
	userID   string
	http     *http.Client
}

// New creates a client for the given server. Token and user id may be empty
// until the quick-connect handshake completes.
func New(serverURL, deviceID string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(serverURL, "/"),
		deviceID: deviceID,
		http:     network.Client,
	}
}

// SetToken installs the access token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetUserID installs the user scope for user-bound queries.
func (c *Client) SetUserID(id string) {
	c.userID = id
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// authorization builds the MediaBrowser authorization header value.
func (c *Client) authorization() string {
	header := fmt.Sprintf(
		`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		constant.ClientName, constant.DeviceName, c.deviceID, constant.Version,
	)
	if c.token != "" {
		header += fmt.Sprintf(`, Token="%s"`, c.token)
	}
	return header
}

// request performs one API call and decodes the JSON response into out (when
// out is non-nil). Failures are always reported as *Error.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindServer, Op: path, Err: fmt.Errorf("encode body: %w", err)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authorization())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debugf("jellyfin: %s %s", method, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Op: path}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: resp.StatusCode, Op: path}
	case resp.StatusCode >= 400:
		return &Error{Kind: KindServer, Status: resp.StatusCode, Op: path}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.request(ctx, http.MethodPost, path, query, body, out)
}

// PublicInfo describes the server without requiring authentication.
type PublicInfo struct {
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
	ID         string `json:"Id"`
}

// GetPublicInfo fetches the server's public system information.
func (c *Client) GetPublicInfo(ctx context.Context) (PublicInfo, error) {
	var info PublicInfo
	err := c.get(ctx, "System/Info/Public", nil, &info)
	return info, err
}

// User is the authenticated server-side user.
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Me fetches the user the current token belongs to. It doubles as the
// cheapest possible token validity probe.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.get(ctx, "Users/Me", nil, &user)
	return user, err
}

// StreamURL resolves the direct-play URL for an item. The token is embedded
// as a query parameter because the external player cannot send headers
// through its URL argument alone.
func (c *Client) StreamURL(itemID string) string {
	q := url.Values{}
	q.Set("static", "true")
	if c.token != "" {
		q.Set("api_key", c.token)
	}
	return fmt.Sprintf("%s/Videos/%s/stream?%s", c.baseURL, itemID, q.Encode())
}
