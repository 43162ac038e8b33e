package language

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk form of a custom transliteration table:
//
//	name: Tamil
//	map:
//	  "அ": a
//	  "க": ka
type tableFile struct {
	Name string            `yaml:"name"`
	Map  map[string]string `yaml:"map"`
}

// LoadTable reads a YAML transliteration table from path.
func LoadTable(path string) (Transliteration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transliteration{}, fmt.Errorf("read transliteration table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return Transliteration{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes a YAML transliteration table. Every key must be a single
// character after NFC normalization.
func ParseTable(data []byte) (Transliteration, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Transliteration{}, fmt.Errorf("parse transliteration table: %w", err)
	}
	if len(f.Map) == 0 {
		return Transliteration{}, fmt.Errorf("transliteration table has no entries")
	}
	table := make(map[rune]string, len(f.Map))
	for key, value := range f.Map {
		key = norm.NFC.String(key)
		if utf8.RuneCountInString(key) != 1 {
			return Transliteration{}, fmt.Errorf("transliteration key %q must be a single character", key)
		}
		r, _ := utf8.DecodeRuneInString(key)
		table[r] = strings.ToLower(value)
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "custom"
	}
	return NewTransliteration(name, table), nil
}
