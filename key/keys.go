// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Server Connection - these keys identify the remote Jellyfin instance.
const (
	ServerURL = "server.url"
)

// Menu Presentation - these keys configure the external selector process and line rendering.
const (
	MenuCommand = "menu.command"
	MenuPrompt  = "menu.prompt"
	MenuTUI     = "menu.tui"
)

// Iconography - these keys manage the visual rendering of menu symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys govern the external player and the resume policy.
// The watched/resume thresholds mirror the server's own configured rules so
// that local classification matches server-side display.
const (
	Player                 = "player.default"
	PlayerPollInterval     = "player.poll_interval_seconds"
	PlaybackWatchedFrac    = "playback.watched_fraction"
	PlaybackMinResume      = "playback.min_resume_seconds"
	PlaybackReportDelta    = "playback.report_delta_seconds"
	PlaybackReportInterval = "playback.report_interval_seconds"
	PlaybackClearUnwatched = "playback.clear_unwatched"
)

// Authentication Handshake - these keys bound the quick-connect polling loop.
const (
	AuthPollInterval = "auth.poll_interval_seconds"
	AuthPollAttempts = "auth.poll_attempts"
)

// Library Browsing - these keys shape the catalog assembled from the server.
const (
	BrowseLatestLimit = "browse.latest_limit"
)

// History Tracking - these keys configure the persistence of local playback records.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern general CLI behavior.
const (
	CliColored = "cli.colored"
)
