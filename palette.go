// palette.go — the 16-color pen palette and its TOML override file.
package rslogo

import (
	"fmt"
	"image/color"

	"github.com/BurntSushi/toml"
)

// Palette maps pen color indices 0..15 to RGB colors.
type Palette [16]color.RGBA

// DefaultPalette returns the built-in palette. Index 7, the startup pen
// color, is white.
func DefaultPalette() Palette {
	return Palette{
		{0x00, 0x00, 0x00, 0xff}, // 0 black
		{0x00, 0x00, 0xaa, 0xff}, // 1 blue
		{0x00, 0xaa, 0x00, 0xff}, // 2 green
		{0x00, 0xaa, 0xaa, 0xff}, // 3 cyan
		{0xaa, 0x00, 0x00, 0xff}, // 4 red
		{0xaa, 0x00, 0xaa, 0xff}, // 5 magenta
		{0xaa, 0x55, 0x00, 0xff}, // 6 brown
		{0xff, 0xff, 0xff, 0xff}, // 7 white
		{0x55, 0x55, 0x55, 0xff}, // 8 grey
		{0x55, 0x55, 0xff, 0xff}, // 9 light blue
		{0x55, 0xff, 0x55, 0xff}, // 10 light green
		{0x55, 0xff, 0xff, 0xff}, // 11 light cyan
		{0xff, 0x55, 0x55, 0xff}, // 12 light red
		{0xff, 0x55, 0xff, 0xff}, // 13 pink
		{0xff, 0xff, 0x55, 0xff}, // 14 yellow
		{0xdd, 0xdd, 0xdd, 0xff}, // 15 bright white
	}
}

// LoadPalette reads a palette override from a TOML file of the form
//
//	colors = ["#000000", "#0000aa", ... ]
//
// with exactly 16 "#rrggbb" entries.
func LoadPalette(path string) (Palette, error) {
	var doc struct {
		Colors []string `toml:"colors"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return Palette{}, fmt.Errorf("cannot read palette file %s: %w", path, err)
	}
	if len(doc.Colors) != 16 {
		return Palette{}, fmt.Errorf("palette file %s must define exactly 16 colors, found %d", path, len(doc.Colors))
	}

	var p Palette
	for i, hex := range doc.Colors {
		c, err := parseHexColor(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette file %s, color %d: %w", path, i, err)
		}
		p[i] = c
	}
	return p, nil
}

func parseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	return color.RGBA{r, g, b, 0xff}, nil
}
