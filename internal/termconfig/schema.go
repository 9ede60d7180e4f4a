package termconfig

import (
	"maps"
	"slices"
)

// option is one recognized top-level key: its declared type, its default, and how it
// moves between the raw document and Configuration.
type option struct {
	name     string
	typeName string
	setDef   func(c *Configuration)
	apply    func(c *Configuration, raw any, r *report)
	encode   func(c *Configuration) any
}

func newOption[T any](name, typeName string, def func() T, d decoder[T], field func(*Configuration) *T, enc func(T) any) option {
	return option{
		name:     name,
		typeName: typeName,
		setDef: func(c *Configuration) {
			*field(c) = def()
		},
		apply: func(c *Configuration, raw any, r *report) {
			if v, ok := d(name, raw, r); ok {
				*field(c) = v
			}
		},
		encode: func(c *Configuration) any {
			return enc(*field(c))
		},
	}
}

func constant[T any](v T) func() T {
	return func() T { return v }
}

func identity[T any](v T) any {
	return v
}

func colorOption(name string, def Color, field func(*Configuration) *Color) option {
	return newOption(name, typeColor, constant(def), decodeColor, field, func(c Color) any { return string(c) })
}

func boolOption(name string, def bool, field func(*Configuration) *bool) option {
	return newOption(name, typeBool, constant(def), decodeBool, field, identity[bool])
}

func stringOption(name string, def string, field func(*Configuration) *string) option {
	return newOption(name, typeString, constant(def), decodeString, field, identity[string])
}

func enumOption(name string, def string, values []string, field func(*Configuration) *string) option {
	return newOption(name, "one of "+quoteAll(values), constant(def), enumOf(values...), field, identity[string])
}

func stringListOption(name string, def []string, field func(*Configuration) *[]string) option {
	return newOption(name, typeStringList, func() []string { return slices.Clone(def) }, decodeStringList, field, encodeStringList)
}

func encodeStringList(v []string) any {
	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s
	}
	return out
}

func encodeStringMap(v map[string]string) any {
	out := make(map[string]any, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

func encodeVisibility(v Visibility) any {
	switch v {
	case VisibilityShown:
		return true
	case VisibilityHidden:
		return false
	default:
		return string(v)
	}
}

var schema = []option{
	colorOption("backgroundColor", "#000", func(c *Configuration) *Color { return &c.BackgroundColor }),
	colorOption("foregroundColor", "#fff", func(c *Configuration) *Color { return &c.ForegroundColor }),
	colorOption("borderColor", "#333", func(c *Configuration) *Color { return &c.BorderColor }),
	colorOption("selectionColor", "rgba(248,28,229,0.3)", func(c *Configuration) *Color { return &c.SelectionColor }),
	colorOption("cursorColor", "rgba(248,28,229,0.8)", func(c *Configuration) *Color { return &c.CursorColor }),
	colorOption("cursorAccentColor", "#000", func(c *Configuration) *Color { return &c.CursorAccentColor }),
	newOption("cursorShape", `one of "BEAM", "UNDERLINE", "BLOCK"`, constant(CursorBlock), decodeCursorShape,
		func(c *Configuration) *CursorShape { return &c.CursorShape },
		func(v CursorShape) any { return string(v) }),
	boolOption("cursorBlink", false, func(c *Configuration) *bool { return &c.CursorBlink }),
	newOption("colors", "palette", DefaultPalette, decodePalette,
		func(c *Configuration) *Palette { return &c.Colors },
		Palette.document),

	stringOption("fontFamily", `Menlo, "DejaVu Sans Mono", Consolas, "Lucida Console", monospace`, func(c *Configuration) *string { return &c.FontFamily }),
	newOption("fontSize", typeDimension, constant(12), decodeDimension, func(c *Configuration) *int { return &c.FontSize }, identity[int]),
	newOption("fontWeight", "font weight", constant("normal"), decodeFontWeight, func(c *Configuration) *string { return &c.FontWeight }, identity[string]),
	newOption("fontWeightBold", "font weight", constant("bold"), decodeFontWeight, func(c *Configuration) *string { return &c.FontWeightBold }, identity[string]),
	newOption("lineHeight", "positive "+typeNumber, constant(1.0), decodePositiveNumber, func(c *Configuration) *float64 { return &c.LineHeight }, identity[float64]),
	newOption("letterSpacing", typeNumber, constant(0.0), decodeNumber, func(c *Configuration) *float64 { return &c.LetterSpacing }, identity[float64]),
	stringOption("padding", "12px 14px", func(c *Configuration) *string { return &c.Padding }),
	newOption("scrollback", typeDimension, constant(1000), decodeDimension, func(c *Configuration) *int { return &c.Scrollback }, identity[int]),

	newOption("windowSize", "[width, height]", constant(WindowSize{Width: 540, Height: 380}), decodeWindowSize,
		func(c *Configuration) *WindowSize { return &c.WindowSize },
		func(v WindowSize) any { return []any{v.Width, v.Height} }),
	newOption("showHamburgerMenu", `boolean or ""`, constant(VisibilityPlatform), visibilityOf(),
		func(c *Configuration) *Visibility { return &c.ShowHamburgerMenu }, encodeVisibility),
	newOption("showWindowControls", `boolean, "" or "left"`, constant(VisibilityPlatform), visibilityOf(VisibilityLeft),
		func(c *Configuration) *Visibility { return &c.ShowWindowControls }, encodeVisibility),

	stringOption("shell", "", func(c *Configuration) *string { return &c.Shell }),
	stringListOption("shellArgs", []string{"--login"}, func(c *Configuration) *[]string { return &c.ShellArgs }),
	newOption("env", typeStringMap, func() map[string]string { return map[string]string{} }, decodeStringMap,
		func(c *Configuration) *map[string]string { return &c.Env }, encodeStringMap),
	newOption("workingDirectory", "absolute path", constant(""), decodeAbsolutePath, func(c *Configuration) *string { return &c.WorkingDirectory }, identity[string]),

	boolOption("bell", false, func(c *Configuration) *bool { return &c.Bell }),
	boolOption("copyOnSelect", false, func(c *Configuration) *bool { return &c.CopyOnSelect }),
	boolOption("quickEdit", false, func(c *Configuration) *bool { return &c.QuickEdit }),
	boolOption("defaultSSHApp", true, func(c *Configuration) *bool { return &c.DefaultSSHApp }),
	boolOption("disableLigatures", true, func(c *Configuration) *bool { return &c.DisableLigatures }),
	boolOption("webGLRenderer", true, func(c *Configuration) *bool { return &c.WebGLRenderer }),
	enumOption("macOptionSelectionMode", "vertical", []string{"vertical", "force"}, func(c *Configuration) *string { return &c.MacOptionSelectionMode }),
	enumOption("webLinksActivationKey", "", []string{"", "ctrl", "alt", "meta", "shift"}, func(c *Configuration) *string { return &c.WebLinksActivationKey }),
	newOption("modifierKeys", "mapping {altIsMeta, cmdIsMeta}", constant(ModifierKeys{}), decodeModifierKeys,
		func(c *Configuration) *ModifierKeys { return &c.ModifierKeys },
		func(v ModifierKeys) any { return map[string]any{"altIsMeta": v.AltIsMeta, "cmdIsMeta": v.CmdIsMeta} }),

	stringOption("css", "", func(c *Configuration) *string { return &c.CSS }),
	stringOption("termCSS", "", func(c *Configuration) *string { return &c.TermCSS }),

	enumOption("updateChannel", "stable", []string{"stable", "canary"}, func(c *Configuration) *string { return &c.UpdateChannel }),

	newOption("keymaps", "mapping of action names to key chords", func() map[string]string { return map[string]string{} }, decodeKeymaps,
		func(c *Configuration) *map[string]string { return &c.Keymaps }, encodeStringMap),
	stringListOption("plugins", []string{}, func(c *Configuration) *[]string { return &c.Plugins }),
	stringListOption("localPlugins", []string{}, func(c *Configuration) *[]string { return &c.LocalPlugins }),

	newOption("hyperUnlimitedPower", "mapping {isComboEnabled, isRainbowEnabled, staticParticleColors}",
		func() UnlimitedPower { return UnlimitedPower{StaticParticleColors: []Color{}} }, decodeUnlimitedPower,
		func(c *Configuration) *UnlimitedPower { return &c.UnlimitedPower },
		func(v UnlimitedPower) any {
			colors := make([]any, len(v.StaticParticleColors))
			for i, c := range v.StaticParticleColors {
				colors[i] = string(c)
			}
			return map[string]any{
				"isComboEnabled":       v.ComboEnabled,
				"isRainbowEnabled":     v.RainbowEnabled,
				"staticParticleColors": colors,
			}
		}),
}

var schemaIndex = func() map[string]int {
	idx := make(map[string]int, len(schema))
	for i, opt := range schema {
		idx[opt.name] = i
	}
	return idx
}()

// OptionInfo describes a recognized option for documentation and tooling.
type OptionInfo struct {
	Name    string
	Type    string
	Default any
}

// Options lists the recognized options in schema order.
func Options() []OptionInfo {
	def := Defaults()
	out := make([]OptionInfo, 0, len(schema))
	for _, opt := range schema {
		out = append(out, OptionInfo{Name: opt.name, Type: opt.typeName, Default: opt.encode(&def)})
	}
	return out
}

// Recognized reports whether name is a top-level key of the schema.
func Recognized(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}

// Defaults returns a Configuration with every recognized option set to its default.
func Defaults() Configuration {
	var c Configuration
	for _, opt := range schema {
		opt.setDef(&c)
	}
	return c
}

// Document converts the configuration back into a raw document that Load accepts.
// Unrecognized keys carried in Extra are emitted unchanged.
func (c Configuration) Document() map[string]any {
	out := make(map[string]any, len(schema)+len(c.Extra))
	for k, v := range c.Extra {
		out[k] = cloneValue(v)
	}
	maps.Copy(out, c.recognizedDocument())
	return out
}

func (c Configuration) recognizedDocument() map[string]any {
	out := make(map[string]any, len(schema))
	for _, opt := range schema {
		out[opt.name] = opt.encode(&c)
	}
	return out
}
