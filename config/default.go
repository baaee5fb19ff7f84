// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/jellypick-cli/jellypick/color"
	"github.com/jellypick-cli/jellypick/constant"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.JellyPick + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float64"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// Register all defaults.
	// We no longer panic on count mismatch, trusting the list below.
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.ServerURL, "", "Jellyfin server URL.\nSet during authentication, e.g. https://jellyfin.example.org")
	register(key.MenuCommand, "", "External selector command (dmenu protocol).\nDefaults to $DMENU, then the first of rofi, wofi, dmenu found in PATH")
	register(key.MenuPrompt, "jellypick", "Prompt string passed to the external selector")
	register(key.MenuTUI, false, "Use the built-in terminal selector instead of an external menu process")
	register(key.IconsVariant, "emoji", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.Player, "mpv", "Media player to use (must speak the mpv JSON-IPC protocol)")
	register(key.PlayerPollInterval, 5, "Seconds between player position polls during playback")
	register(key.PlaybackWatchedFrac, 0.9, "Fraction of the duration that must be played to mark an item watched.\nMirror of the server's resume rules")
	register(key.PlaybackMinResume, 10, "Positions below this many seconds are treated as unwatched.\nMirror of the server's resume rules")
	register(key.PlaybackReportDelta, 30, "Minimum playback advance in seconds between incremental progress reports")
	register(key.PlaybackReportInterval, 120, "Maximum wall-clock seconds between incremental progress reports")
	register(key.PlaybackClearUnwatched, false, "Explicitly reset server-side progress when a session ends below the resume threshold.\nWhen false, prior server progress is left untouched")
	register(key.AuthPollInterval, 5, "Seconds between quick-connect approval polls")
	register(key.AuthPollAttempts, 60, "Number of quick-connect approval polls before giving up")
	register(key.BrowseLatestLimit, 5, "Number of latest items to list per library view")
	register(key.HistorySaveOnPlay, true, "Save a local history record after each playback session")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
