package termconfig

import "slices"

// AnsiSlots lists the sixteen named palette entries in ANSI index order.
var AnsiSlots = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"lightBlack", "lightRed", "lightGreen", "lightYellow", "lightBlue", "lightMagenta", "lightCyan", "lightWhite",
}

const (
	basePaletteSize = 16
	fullPaletteSize = 256
)

var defaultPalette = []Color{
	"#000000", "#C51E14", "#1DC121", "#C7C43F", "#0A2FC4", "#C839C5", "#20C5C6", "#C7C7C7",
	"#686868", "#FD6F6B", "#67F86F", "#FFFA72", "#6A76FB", "#FD7CFC", "#68FDFE", "#FFFFFF",
}

// Palette holds either the sixteen named ANSI colours or a full indexed table of 16 or 256 entries.
type Palette struct {
	colors []Color
	keyed  bool
}

// DefaultPalette returns the built-in sixteen colour palette in its named form.
func DefaultPalette() Palette {
	return Palette{colors: slices.Clone(defaultPalette), keyed: true}
}

// Len returns the number of entries, 16 or 256.
func (p Palette) Len() int {
	return len(p.colors)
}

// Keyed reports whether the palette was written as a mapping of slot names.
func (p Palette) Keyed() bool {
	return p.keyed
}

// Index returns the colour at ANSI index i.
func (p Palette) Index(i int) (Color, bool) {
	if i < 0 || i >= len(p.colors) {
		return "", false
	}
	return p.colors[i], true
}

// Slot returns the colour for a named ANSI slot such as "lightRed".
func (p Palette) Slot(name string) (Color, bool) {
	idx := slices.Index(AnsiSlots, name)
	if idx < 0 {
		return "", false
	}
	return p.Index(idx)
}

// Colors returns a copy of the entries in index order.
func (p Palette) Colors() []Color {
	return slices.Clone(p.colors)
}

func (p Palette) clone() Palette {
	return Palette{colors: slices.Clone(p.colors), keyed: p.keyed}
}

func (p Palette) document() any {
	if p.keyed {
		out := make(map[string]any, len(p.colors))
		for i, c := range p.colors {
			out[AnsiSlots[i]] = string(c)
		}
		return out
	}
	out := make([]any, len(p.colors))
	for i, c := range p.colors {
		out[i] = string(c)
	}
	return out
}
