// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// JellyPick is the canonical application identifier used for filesystem paths and CLI branding.
	JellyPick = "jellypick"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// ClientName identifies this application to the Jellyfin server in the
	// MediaBrowser authorization header.
	ClientName = "jellypick"

	// DeviceName is reported to the Jellyfin server as the playback device.
	DeviceName = "jellypick"
)
