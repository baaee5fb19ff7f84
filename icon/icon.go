// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, or plain ASCII
// depending on user preference.
package icon

import (
	"github.com/jellypick-cli/jellypick/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

// Get retrieves the visual representation for the receiver def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Icon identifies a single registered UI symbol.
type Icon int

const (
	Movie Icon = iota
	Episode
	Series
	Collection
	Folder
	Back
	Resume
	NextUp
	Watched
	Progress
	Success
	Fail
)

// icons is the global registry mapping each Icon identifier to its variant definitions.
var icons = map[Icon]*iconDef{
	Movie:      {emoji: "🎬", nerd: "", plain: "[M]"},
	Episode:    {emoji: "🎬", nerd: "", plain: "[E]"},
	Series:     {emoji: "📺", nerd: "", plain: "[S]"},
	Collection: {emoji: "📂", nerd: "", plain: "[C]"},
	Folder:     {emoji: "📂", nerd: "", plain: "[F]"},
	Back:       {emoji: "🔙", nerd: "", plain: "[..]"},
	Resume:     {emoji: "▶️", nerd: "", plain: ">"},
	NextUp:     {emoji: "⏭️", nerd: "", plain: ">>"},
	Watched:    {emoji: "✅", nerd: "", plain: "[x]"},
	Progress:   {emoji: "⏳", nerd: "", plain: "~"},
	Success:    {emoji: "✅", nerd: "", plain: "+"},
	Fail:       {emoji: "❌", nerd: "", plain: "x"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
