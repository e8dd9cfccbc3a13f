// Package textutil provides unicode-aware text helpers for the status line.
package textutil

import "github.com/mattn/go-runewidth"

// Ellipsis marks truncated text.
const Ellipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending in Ellipsis
// when anything was cut. Wide runes are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	room := maxWidth - VisualWidth(Ellipsis)
	if room <= 0 {
		return Ellipsis
	}

	var out []rune
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > room {
			break
		}
		out = append(out, r)
		used += w
	}
	return string(out) + Ellipsis
}
