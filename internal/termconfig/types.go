package termconfig

import (
	"fmt"
	"maps"
	"slices"
)

// CursorShape selects how the terminal cursor is drawn.
type CursorShape string

const (
	CursorBeam      CursorShape = "BEAM"
	CursorUnderline CursorShape = "UNDERLINE"
	CursorBlock     CursorShape = "BLOCK"
)

// Visibility is a tri-state (or quad-state) switch where the empty value defers to the platform.
type Visibility string

const (
	VisibilityPlatform Visibility = ""
	VisibilityShown    Visibility = "true"
	VisibilityHidden   Visibility = "false"
	// VisibilityLeft places window controls on the left; only valid for showWindowControls.
	VisibilityLeft Visibility = "left"
)

// WindowSize is the initial width and height of a new window in pixels.
type WindowSize struct {
	Width  int
	Height int
}

// ModifierKeys tunes how modifier keys are translated before reaching the shell.
type ModifierKeys struct {
	AltIsMeta bool
	CmdIsMeta bool
}

// UnlimitedPower is the sub-configuration of the hyper-unlimited-power plugin.
type UnlimitedPower struct {
	ComboEnabled         bool
	RainbowEnabled       bool
	StaticParticleColors []Color
}

// Configuration is the validated, fully defaulted terminal configuration.
// Values are treated as immutable once returned by Load; use Clone before mutating.
type Configuration struct {
	BackgroundColor   Color
	ForegroundColor   Color
	BorderColor       Color
	SelectionColor    Color
	CursorColor       Color
	CursorAccentColor Color
	CursorShape       CursorShape
	CursorBlink       bool
	Colors            Palette

	FontFamily     string
	FontSize       int
	FontWeight     string
	FontWeightBold string
	LineHeight     float64
	LetterSpacing  float64
	Padding        string
	Scrollback     int

	WindowSize         WindowSize
	ShowHamburgerMenu  Visibility
	ShowWindowControls Visibility

	Shell            string
	ShellArgs        []string
	Env              map[string]string
	WorkingDirectory string

	Bell                   bool
	CopyOnSelect           bool
	QuickEdit              bool
	DefaultSSHApp          bool
	DisableLigatures       bool
	WebGLRenderer          bool
	MacOptionSelectionMode string
	WebLinksActivationKey  string
	ModifierKeys           ModifierKeys

	CSS     string
	TermCSS string

	UpdateChannel string

	Keymaps      map[string]string
	Plugins      []string
	LocalPlugins []string

	UnlimitedPower UnlimitedPower

	// Extra holds unrecognized top-level keys verbatim when strict mode is off.
	Extra map[string]any
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	out := c
	out.Colors = c.Colors.clone()
	out.ShellArgs = slices.Clone(c.ShellArgs)
	out.Env = maps.Clone(c.Env)
	out.Keymaps = maps.Clone(c.Keymaps)
	out.Plugins = slices.Clone(c.Plugins)
	out.LocalPlugins = slices.Clone(c.LocalPlugins)
	out.UnlimitedPower.StaticParticleColors = slices.Clone(c.UnlimitedPower.StaticParticleColors)
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = cloneValue(v)
		}
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// normalizeValue deep-copies v, rewriting mappings with non-string keys (as YAML
// produces for keys like 1 or true) into map[string]any keyed by the key's text.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
