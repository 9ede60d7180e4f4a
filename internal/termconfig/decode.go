package termconfig

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"
)

// decoder validates a raw document value at path and converts it to T.
// On failure it records the problem in r and returns false.
type decoder[T any] func(path string, raw any, r *report) (T, bool)

const (
	typeColor      = "color (hex, rgb, rgba, hsl, hsla or hsv)"
	typeDimension  = "non-negative integer"
	typeNumber     = "number"
	typeBool       = "boolean"
	typeString     = "string"
	typeStringList = "sequence of strings"
	typeStringMap  = "mapping of strings"
)

func decodeBool(path string, raw any, r *report) (bool, bool) {
	b, ok := raw.(bool)
	if !ok {
		r.invalid(path, typeBool, raw, "")
	}
	return b, ok
}

func decodeString(path string, raw any, r *report) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		r.invalid(path, typeString, raw, "")
	}
	return s, ok
}

func decodeColor(path string, raw any, r *report) (Color, bool) {
	s, ok := raw.(string)
	if !ok {
		r.invalid(path, typeColor, raw, "")
		return "", false
	}
	if _, _, err := parseColor(s); err != nil {
		r.invalid(path, typeColor, raw, err.Error())
		return "", false
	}
	return Color(s), true
}

func decodeDimension(path string, raw any, r *report) (int, bool) {
	n, ok := asInt(raw)
	if !ok {
		r.invalid(path, typeDimension, raw, "")
		return 0, false
	}
	if n < 0 {
		r.invalid(path, typeDimension, raw, "must not be negative")
		return 0, false
	}
	return n, true
}

func decodeNumber(path string, raw any, r *report) (float64, bool) {
	f, ok := asFloat(raw)
	if !ok {
		r.invalid(path, typeNumber, raw, "")
	}
	return f, ok
}

func decodePositiveNumber(path string, raw any, r *report) (float64, bool) {
	f, ok := decodeNumber(path, raw, r)
	if ok && f <= 0 {
		r.invalid(path, "positive "+typeNumber, raw, "")
		return 0, false
	}
	return f, ok
}

func decodeAbsolutePath(path string, raw any, r *report) (string, bool) {
	s, ok := decodeString(path, raw, r)
	if !ok {
		return "", false
	}
	if s != "" && !filepath.IsAbs(s) {
		r.invalid(path, "absolute path", raw, "")
		return "", false
	}
	return s, true
}

func decodeStringList(path string, raw any, r *report) ([]string, bool) {
	items, ok := raw.([]any)
	if !ok {
		r.invalid(path, typeStringList, raw, "")
		return nil, false
	}
	out := make([]string, 0, len(items))
	valid := true
	for i, item := range items {
		s, ok := decodeString(fmt.Sprintf("%s[%d]", path, i), item, r)
		valid = valid && ok
		out = append(out, s)
	}
	return out, valid
}

func decodeStringMap(path string, raw any, r *report) (map[string]string, bool) {
	m, ok := asMapping(raw)
	if !ok {
		r.invalid(path, typeStringMap, raw, "")
		return nil, false
	}
	out := make(map[string]string, len(m))
	valid := true
	for k, v := range m {
		s, ok := decodeString(path+"."+k, v, r)
		valid = valid && ok
		out[k] = s
	}
	return out, valid
}

// enumOf builds a decoder accepting exactly one of values.
func enumOf(values ...string) decoder[string] {
	expected := "one of " + quoteAll(values)
	return func(path string, raw any, r *report) (string, bool) {
		s, ok := raw.(string)
		if !ok || !slices.Contains(values, s) {
			r.invalid(path, expected, raw, "")
			return "", false
		}
		return s, true
	}
}

var fontWeights = []string{"normal", "bold", "100", "200", "300", "400", "500", "600", "700", "800", "900"}

// decodeFontWeight accepts the named weights and the numeric ones either as string or integer.
func decodeFontWeight(path string, raw any, r *report) (string, bool) {
	expected := "one of " + quoteAll(fontWeights)
	s, ok := raw.(string)
	if n, isInt := asInt(raw); isInt {
		s, ok = fmt.Sprint(n), true
	}
	if !ok || !slices.Contains(fontWeights, s) {
		r.invalid(path, expected, raw, "")
		return "", false
	}
	return s, true
}

func decodeCursorShape(path string, raw any, r *report) (CursorShape, bool) {
	s, ok := enumOf(string(CursorBeam), string(CursorUnderline), string(CursorBlock))(path, raw, r)
	return CursorShape(s), ok
}

// visibilityOf accepts booleans, the empty string, and the extra string values given.
func visibilityOf(extra ...Visibility) decoder[Visibility] {
	allowed := []string{""}
	for _, v := range extra {
		allowed = append(allowed, string(v))
	}
	expected := "boolean or one of " + quoteAll(allowed)
	return func(path string, raw any, r *report) (Visibility, bool) {
		switch v := raw.(type) {
		case bool:
			if v {
				return VisibilityShown, true
			}
			return VisibilityHidden, true
		case string:
			if v == "" {
				return VisibilityPlatform, true
			}
			if slices.Contains(extra, Visibility(v)) {
				return Visibility(v), true
			}
		}
		r.invalid(path, expected, raw, "")
		return "", false
	}
}

func decodeWindowSize(path string, raw any, r *report) (WindowSize, bool) {
	const expected = "sequence of two non-negative integers [width, height]"
	items, ok := raw.([]any)
	if !ok || len(items) != 2 {
		r.invalid(path, expected, raw, "")
		return WindowSize{}, false
	}
	w, wok := decodeDimension(path+"[0]", items[0], r)
	h, hok := decodeDimension(path+"[1]", items[1], r)
	return WindowSize{Width: w, Height: h}, wok && hok
}

func decodePalette(path string, raw any, r *report) (Palette, bool) {
	if m, ok := asMapping(raw); ok {
		return decodeKeyedPalette(path, m, r)
	}
	items, ok := raw.([]any)
	if !ok {
		r.invalid(path, "mapping of the 16 ANSI colour names or sequence of 16 or 256 colours", raw, "")
		return Palette{}, false
	}
	if len(items) != basePaletteSize && len(items) != fullPaletteSize {
		r.invalid(path, "sequence of 16 or 256 colours", raw, fmt.Sprintf("got %d entries", len(items)))
		return Palette{}, false
	}
	colors := make([]Color, len(items))
	valid := true
	for i, item := range items {
		c, ok := decodeColor(fmt.Sprintf("%s[%d]", path, i), item, r)
		valid = valid && ok
		colors[i] = c
	}
	return Palette{colors: colors}, valid
}

func decodeKeyedPalette(path string, m map[string]any, r *report) (Palette, bool) {
	colors := make([]Color, len(AnsiSlots))
	valid := true
	for i, name := range AnsiSlots {
		raw, ok := m[name]
		if !ok {
			r.invalid(path+"."+name, typeColor, nil, "palette slot is missing")
			valid = false
			continue
		}
		c, ok := decodeColor(path+"."+name, raw, r)
		valid = valid && ok
		colors[i] = c
	}
	for _, name := range sortedKeys(m) {
		if !slices.Contains(AnsiSlots, name) {
			r.invalid(path+"."+name, "one of the 16 ANSI colour names", m[name], "unknown palette slot")
			valid = false
		}
	}
	return Palette{colors: colors, keyed: true}, valid
}

func decodeKeymaps(path string, raw any, r *report) (map[string]string, bool) {
	m, ok := asMapping(raw)
	if !ok {
		r.invalid(path, "mapping of action names to key chords", raw, "")
		return nil, false
	}
	out := make(map[string]string, len(m))
	valid := true
	for _, action := range sortedKeys(m) {
		key := path + "." + action
		s, ok := m[action].(string)
		if !ok {
			r.invalid(key, "key chord string", m[action], "")
			valid = false
			continue
		}
		if err := validateChord(s); err != nil {
			r.invalid(key, "key chord string", m[action], err.Error())
			valid = false
			continue
		}
		out[action] = s
	}
	return out, valid
}

// objectField describes one key of a nested sub-mapping.
type objectField struct {
	name   string
	decode func(path string, raw any, r *report) bool
}

// decodeObject validates a nested mapping field by field; unknown keys are always errors
// because nested structures have no forward-compatibility slot.
func decodeObject(path string, raw any, r *report, fields ...objectField) bool {
	m, ok := asMapping(raw)
	if !ok {
		r.invalid(path, "mapping", raw, "")
		return false
	}
	valid := true
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
		v, present := m[f.name]
		if !present {
			continue
		}
		if !f.decode(path+"."+f.name, v, r) {
			valid = false
		}
	}
	for _, k := range sortedKeys(m) {
		if !slices.Contains(names, k) {
			r.invalid(path+"."+k, "one of "+quoteAll(names), m[k], "unknown field")
			valid = false
		}
	}
	return valid
}

// into adapts a typed decoder to an objectField that stores into dst.
func into[T any](name string, d decoder[T], dst *T) objectField {
	return objectField{
		name: name,
		decode: func(path string, raw any, r *report) bool {
			v, ok := d(path, raw, r)
			if ok {
				*dst = v
			}
			return ok
		},
	}
}

func decodeModifierKeys(path string, raw any, r *report) (ModifierKeys, bool) {
	var mk ModifierKeys
	ok := decodeObject(path, raw, r,
		into("altIsMeta", decodeBool, &mk.AltIsMeta),
		into("cmdIsMeta", decodeBool, &mk.CmdIsMeta),
	)
	return mk, ok
}

func decodeColorList(path string, raw any, r *report) ([]Color, bool) {
	items, ok := raw.([]any)
	if !ok {
		r.invalid(path, "sequence of colours", raw, "")
		return nil, false
	}
	out := make([]Color, 0, len(items))
	valid := true
	for i, item := range items {
		c, ok := decodeColor(fmt.Sprintf("%s[%d]", path, i), item, r)
		valid = valid && ok
		out = append(out, c)
	}
	return out, valid
}

func decodeUnlimitedPower(path string, raw any, r *report) (UnlimitedPower, bool) {
	up := UnlimitedPower{StaticParticleColors: []Color{}}
	ok := decodeObject(path, raw, r,
		into("isComboEnabled", decodeBool, &up.ComboEnabled),
		into("isRainbowEnabled", decodeBool, &up.RainbowEnabled),
		into("staticParticleColors", decodeColorList, &up.StaticParticleColors),
	)
	return up, ok
}

// asMapping normalises the two mapping shapes produced by the YAML and TOML decoders.
func asMapping(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func asInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which does not fit in an int.
		if n != math.Trunc(n) || math.IsInf(n, 0) || n < math.MinInt || n >= math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
