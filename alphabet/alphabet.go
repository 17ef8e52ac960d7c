// Package alphabet provides the character sets a glyph model is built
// over: named presets, alphabet files and literal strings.
package alphabet

import (
	"fmt"
	"os"
	"unicode"

	"github.com/wbrown/img2glyph"
)

// Default is the preset used when no alphabet is given.
const Default = "alphabet"

var presets = img2glyph.NewOrderedMap[string, string]()

func init() {
	presets.Set("alphabet", " !\"#$%&'()*+,-./0123456789:;<=>?@"+
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~")
	presets.Set("letters", " ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	presets.Set("lowercase", " abcdefghijklmnopqrstuvwxyz")
	presets.Set("uppercase", " ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	presets.Set("minimal", " .:-=+*#%@")
	presets.Set("symbols", " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~")
}

// Names returns the preset names in registration order.
func Names() []string {
	return presets.Keys()
}

// Preset returns the characters of a named preset.
func Preset(name string) ([]rune, bool) {
	text, ok := presets.Get(name)
	if !ok {
		return nil, false
	}
	return Parse(text), true
}

// Parse turns text into an alphabet. Control characters, including line
// breaks, are dropped and repeated characters keep their first position.
func Parse(text string) []rune {
	seen := make(map[rune]struct{})
	var runes []rune
	for _, r := range text {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		runes = append(runes, r)
	}
	return runes
}

// Resolve interprets arg as a preset name, then as the path of an
// alphabet file, and finally as a literal list of characters.
func Resolve(arg string) ([]rune, error) {
	if arg == "" {
		arg = Default
	}
	if runes, ok := Preset(arg); ok {
		return runes, nil
	}

	// Anything that cannot be read as a file is a literal, so "/|\" works.
	if data, err := os.ReadFile(arg); err == nil {
		runes := Parse(string(data))
		if len(runes) == 0 {
			return nil, fmt.Errorf("alphabet file %s has no usable characters", arg)
		}
		return runes, nil
	}

	runes := Parse(arg)
	if len(runes) == 0 {
		return nil, fmt.Errorf("alphabet %q has no usable characters", arg)
	}
	return runes, nil
}
