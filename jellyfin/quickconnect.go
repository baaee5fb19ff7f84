package jellyfin

import (
	"context"
	"errors"
	"net/url"
)

// QuickConnect is an initiated quick-connect attempt. The Code is shown to
// the user; the Secret polls and later redeems the approval.
type QuickConnect struct {
	Code   string `json:"Code"`
	Secret string `json:"Secret"`
}

// ErrQuickConnectDenied is returned when the server explicitly rejects a
// pending quick-connect attempt (as opposed to it still being unapproved).
var ErrQuickConnectDenied = errors.New("quick connect request denied")

// QuickConnectInitiate requests a new quick-connect code from the server.
func (c *Client) QuickConnectInitiate(ctx context.Context) (QuickConnect, error) {
	var qc QuickConnect
	err := c.post(ctx, "QuickConnect/Initiate", nil, nil, &qc)
	return qc, err
}

// QuickConnectApproved asks whether the pending attempt has been authorized.
// The server answers 404 once an attempt has been denied or has expired.
func (c *Client) QuickConnectApproved(ctx context.Context, secret string) (bool, error) {
	q := url.Values{}
	q.Set("secret", secret)

	var state struct {
		Authenticated bool `json:"Authenticated"`
	}
	err := c.get(ctx, "QuickConnect/Connect", q, &state)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			return false, ErrQuickConnectDenied
		}
		return false, err
	}
	return state.Authenticated, nil
}

// Authentication is the result of redeeming an approved quick-connect secret.
type Authentication struct {
	AccessToken string `json:"AccessToken"`
	User        User   `json:"User"`
}

// QuickConnectAuthenticate exchanges an approved secret for an access token.
func (c *Client) QuickConnectAuthenticate(ctx context.Context, secret string) (Authentication, error) {
	body := map[string]string{"Secret": secret}
	var auth Authentication
	if err := c.post(ctx, "Users/AuthenticateWithQuickConnect", nil, body, &auth); err != nil {
		return Authentication{}, err
	}
	c.token = auth.AccessToken
	c.userID = auth.User.ID
	return auth, nil
}
