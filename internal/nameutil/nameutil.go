// Package nameutil cleans user-entered project names for use in file names.
package nameutil

import (
	"strings"
	"unicode"
)

// DefaultStem is used when a project has no usable name.
const DefaultStem = "project"

// SanitizeName removes control and zero-width characters commonly introduced
// by copy/paste (e.g., U+200B) and trims surrounding whitespace. The boolean
// reports whether anything changed.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	out := make([]rune, 0, len(name))
	changed := false
	for _, r := range name {
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != name {
		changed = true
	}
	return res, changed
}

// FileStem turns a project name into a file name prefix. Characters that are
// not allowed in Windows file names (and path separators) become '_';
// trailing dots and spaces are dropped. An empty result yields DefaultStem.
func FileStem(name string) string {
	s, _ := SanitizeName(name)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, s)
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return DefaultStem
	}
	return s
}
