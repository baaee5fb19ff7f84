// Package credstore persists the long-lived server credential: server URL,
// user id, device identity and access token.
//
// The non-secret fields live in a human-editable JSON file under the config
// directory. The access token goes to the system keyring; when no keyring is
// available it falls back into the same file so headless setups keep working.
package credstore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jellypick-cli/jellypick/constant"
	"github.com/jellypick-cli/jellypick/filesystem"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/jellypick-cli/jellypick/where"
	"github.com/zalando/go-keyring"
)

const keyringUser = "access-token"

// ErrNotFound is returned when no credential has been stored yet.
var ErrNotFound = errors.New("no stored credential")

// Credential identifies this device to one Jellyfin server.
// It is created by the authentication handshake and read at every startup;
// no other component mutates it.
type Credential struct {
	Server   string `json:"server"`
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`

	// Token is kept in the system keyring when possible and only lands in
	// the file as a fallback.
	Token string `json:"token,omitempty"`
}

// Valid reports whether the credential is complete enough to attempt API calls.
func (c Credential) Valid() bool {
	return c.Server != "" && c.Token != "" && c.DeviceID != ""
}

// NewDeviceID generates a fresh random device identity.
func NewDeviceID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("credstore: generate device id: %v", err))
	}
	return fmt.Sprintf("%x", buf)
}

// Load reads the stored credential. A missing file yields ErrNotFound.
func Load() (Credential, error) {
	data, err := filesystem.API().ReadFile(where.Credentials())
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("parse credential file: %w", err)
	}

	if token, err := keyring.Get(constant.JellyPick, keyringUser); err == nil && token != "" {
		cred.Token = token
	}
	return cred, nil
}

// Save writes the credential, routing the token to the keyring when possible.
func Save(cred Credential) error {
	onDisk := cred

	if err := keyring.Set(constant.JellyPick, keyringUser, cred.Token); err == nil {
		onDisk.Token = ""
	} else {
		log.Warnf("keyring unavailable, storing token in credential file: %v", err)
	}

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if err := filesystem.API().WriteFile(where.Credentials(), append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Clear removes the stored credential and its keyring entry.
func Clear() error {
	if err := keyring.Delete(constant.JellyPick, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Warnf("keyring delete failed: %v", err)
	}

	err := filesystem.API().Remove(where.Credentials())
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
