package valueobjects

import "regexp"

// Color is a node background color in #RRGGBB form.
type Color string

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHex reports whether the color is a #RRGGBB literal.
func (c Color) IsHex() bool {
	return hexColor.MatchString(string(c))
}

// String returns the color literal.
func (c Color) String() string {
	return string(c)
}

// Palette is an ordered, fixed set of colors that nodes cycle through.
type Palette []Color

// Desaturated dark palette used by every node.
var DefaultPalette = Palette{
	"#4A5F8A", // blue
	"#427A6C", // green
	"#8F7A4A", // gold
	"#915B5B", // red
	"#6A5C93", // purple
}

// First returns the color used when a node has none.
func (p Palette) First() Color {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// IndexOf returns the position of c in the palette, or -1. Matching is exact,
// so "#4a5f8a" is not the first entry.
func (p Palette) IndexOf(c Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c is a palette entry.
func (p Palette) Contains(c Color) bool {
	return p.IndexOf(c) >= 0
}

// Next returns the entry after current, wrapping around.
// An empty current counts as the first entry; a color outside the palette
// restarts the cycle at the first entry.
func (p Palette) Next(current Color) Color {
	if len(p) == 0 {
		return current
	}
	if current == "" {
		current = p[0]
	}
	i := p.IndexOf(current)
	return p[(i+1)%len(p)]
}
