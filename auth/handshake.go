// Package auth performs the quick-connect handshake against the server:
// request a code, wait for the user to approve it, exchange it for a token
// and persist the resulting credential.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellypick-cli/jellypick/credstore"
	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/spf13/viper"
)

// ErrTimeout is returned when the approval polling budget is exhausted.
var ErrTimeout = errors.New("quick connect approval timed out")

// ErrDenied is returned when the server explicitly rejects the attempt.
var ErrDenied = errors.New("quick connect request denied")

// Notifier receives the quick-connect code once it is known, so the caller
// can present it to the user (terminal print, menu line, browser).
type Notifier func(code, approveURL string)

// Handshake runs the full quick-connect flow against client's server and
// persists the credential on success. It blocks for up to
// auth.poll_attempts * auth.poll_interval_seconds and aborts promptly when
// ctx is cancelled. It is not retried internally beyond its own polling;
// hard failures are surfaced to the caller.
func Handshake(ctx context.Context, client *jellyfin.Client, deviceID string, notify Notifier) (credstore.Credential, error) {
	qc, err := client.QuickConnectInitiate(ctx)
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("initiate quick connect: %w", err)
	}

	if notify != nil {
		notify(qc.Code, client.BaseURL()+"/web/#/quickconnect")
	}

	interval := time.Duration(viper.GetInt(key.AuthPollInterval)) * time.Second
	if interval <= 0 {
		interval = time.Millisecond
	}
	attempts := viper.GetInt(key.AuthPollAttempts)

	approved, err := waitForApproval(ctx, client, qc.Secret, interval, attempts)
	if err != nil {
		return credstore.Credential{}, err
	}
	if !approved {
		return credstore.Credential{}, ErrTimeout
	}

	authn, err := client.QuickConnectAuthenticate(ctx, qc.Secret)
	if err != nil {
		return credstore.Credential{}, fmt.Errorf("exchange quick connect code: %w", err)
	}

	cred := credstore.Credential{
		Server:   client.BaseURL(),
		UserID:   authn.User.ID,
		DeviceID: deviceID,
		Token:    authn.AccessToken,
	}
	if err := credstore.Save(cred); err != nil {
		return credstore.Credential{}, fmt.Errorf("persist credential: %w", err)
	}

	log.Infof("authenticated as %q on %s", authn.User.Name, client.BaseURL())
	return cred, nil
}

func waitForApproval(ctx context.Context, client *jellyfin.Client, secret string, interval time.Duration, attempts int) (bool, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}

		approved, err := client.QuickConnectApproved(ctx, secret)
		if err != nil {
			if errors.Is(err, jellyfin.ErrQuickConnectDenied) {
				return false, ErrDenied
			}
			// Transient poll failures are survivable; keep waiting.
			log.Warnf("quick connect poll failed: %v", err)
			continue
		}
		if approved {
			return true, nil
		}
	}
	return false, nil
}
