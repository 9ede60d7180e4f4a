package termconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var chordModifiers = []string{"shift", "ctrl", "alt", "option", "meta", "cmd", "command", "super"}

// validateChord checks a "+"-joined key chord such as "shift+ctrl+alt+command+1".
// Modifiers may appear in any order but only once, and the final token is the key.
func validateChord(chord string) error {
	if strings.TrimSpace(chord) == "" {
		return errors.New("empty key chord")
	}
	tokens := strings.Split(strings.ToLower(chord), "+")
	key := tokens[len(tokens)-1]
	if strings.TrimSpace(key) == "" {
		// "ctrl++" binds the plus key itself.
		if strings.HasSuffix(chord, "++") {
			tokens = tokens[:len(tokens)-1]
			key = "+"
		} else {
			return errors.New("missing key after modifiers")
		}
	}
	if slices.Contains(chordModifiers, key) && len(tokens) > 1 {
		return fmt.Errorf("chord ends with modifier %q", key)
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, mod := range tokens[:len(tokens)-1] {
		mod = strings.TrimSpace(mod)
		if !slices.Contains(chordModifiers, mod) {
			return fmt.Errorf("unknown modifier %q", mod)
		}
		if _, dup := seen[mod]; dup {
			return fmt.Errorf("modifier %q repeated", mod)
		}
		seen[mod] = struct{}{}
	}
	return nil
}
