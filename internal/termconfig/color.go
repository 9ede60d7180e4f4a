package termconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a CSS-style colour string as written by the user.
type Color string

var errNotAColor = errors.New("not a colour")

// RGBA decodes the colour into an sRGB triple and an alpha channel in [0,1].
func (c Color) RGBA() (colorful.Color, float64, error) {
	return parseColor(string(c))
}

// Hex returns the colour as #rrggbb, dropping any alpha.
func (c Color) Hex() (string, error) {
	col, _, err := c.RGBA()
	if err != nil {
		return "", err
	}
	return col.Clamped().Hex(), nil
}

func parseColor(raw string) (colorful.Color, float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return colorful.Color{}, 0, errNotAColor
	}
	if strings.EqualFold(s, "transparent") {
		return colorful.Color{}, 0, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return colorful.Color{}, 0, errNotAColor
	}
	fn := strings.ToLower(strings.TrimSpace(s[:open]))
	args := splitColorArgs(s[open+1 : len(s)-1])

	switch fn {
	case "rgb", "rgba":
		return parseRGBArgs(args)
	case "hsl", "hsla", "hsv":
		return parseHueArgs(fn, args)
	default:
		return colorful.Color{}, 0, fmt.Errorf("unsupported colour function %q", fn)
	}
}

func parseHexColor(s string) (colorful.Color, float64, error) {
	var rgb, alpha string
	switch len(s) {
	case 4, 7:
		rgb = s
	case 5:
		rgb, alpha = s[:4], strings.Repeat(s[4:], 2)
	case 9:
		rgb, alpha = s[:7], s[7:]
	default:
		return colorful.Color{}, 0, errNotAColor
	}
	if !isHex(s[1:]) {
		return colorful.Color{}, 0, errNotAColor
	}

	col, err := colorful.Hex(rgb)
	if err != nil {
		return colorful.Color{}, 0, errNotAColor
	}
	if alpha == "" {
		return col, 1, nil
	}
	a, err := strconv.ParseUint(alpha, 16, 8)
	if err != nil {
		return colorful.Color{}, 0, errNotAColor
	}
	return col, float64(a) / 255, nil
}

func parseRGBArgs(args []string) (colorful.Color, float64, error) {
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, fmt.Errorf("rgb expects 3 or 4 components, got %d", len(args))
	}
	var channels [3]float64
	for i := range channels {
		v, err := parseChannel(args[i], 255)
		if err != nil {
			return colorful.Color{}, 0, err
		}
		channels[i] = v
	}
	alpha, err := parseAlpha(args)
	if err != nil {
		return colorful.Color{}, 0, err
	}
	return colorful.Color{R: channels[0], G: channels[1], B: channels[2]}, alpha, nil
}

func parseHueArgs(fn string, args []string) (colorful.Color, float64, error) {
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, fmt.Errorf("%s expects 3 or 4 components, got %d", fn, len(args))
	}
	hue, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("invalid hue %q", args[0])
	}
	sat, err := parsePercent(args[1])
	if err != nil {
		return colorful.Color{}, 0, err
	}
	third, err := parsePercent(args[2])
	if err != nil {
		return colorful.Color{}, 0, err
	}
	alpha, err := parseAlpha(args)
	if err != nil {
		return colorful.Color{}, 0, err
	}

	hue = normalizeHue(hue)
	if fn == "hsv" {
		return colorful.Hsv(hue, sat, third), alpha, nil
	}
	return colorful.Hsl(hue, sat, third), alpha, nil
}

// parseChannel accepts 0..max integers or 0%..100% percentages and returns a value in [0,1].
func parseChannel(arg string, max float64) (float64, error) {
	if strings.HasSuffix(arg, "%") {
		return parsePercent(arg)
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v < 0 || v > max {
		return 0, fmt.Errorf("invalid colour channel %q", arg)
	}
	return v / max, nil
}

func parsePercent(arg string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("invalid percentage %q", arg)
	}
	return v / 100, nil
}

func parseAlpha(args []string) (float64, error) {
	if len(args) < 4 {
		return 1, nil
	}
	arg := args[3]
	if strings.HasSuffix(arg, "%") {
		return parsePercent(arg)
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("invalid alpha %q", arg)
	}
	return v, nil
}

func normalizeHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}

// splitColorArgs handles both "1, 2, 3" and the space separated "1 2 3 / 0.5" forms.
func splitColorArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
