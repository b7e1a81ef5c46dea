package logo

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

// NamedColor pairs a palette name with its replacement color.
type NamedColor struct {
	Name  string
	Color color.NRGBA
}

// DefaultPalette lists the recognized logo colors in help-text order.
var DefaultPalette = []NamedColor{
	{"blue", color.NRGBA{R: 0, G: 122, B: 255, A: 255}},
	{"green", color.NRGBA{R: 52, G: 199, B: 89, A: 255}},
	{"purple", color.NRGBA{R: 175, G: 82, B: 222, A: 255}},
	{"red", color.NRGBA{R: 255, G: 59, B: 48, A: 255}},
	{"orange", color.NRGBA{R: 255, G: 149, B: 0, A: 255}},
	{"black", color.NRGBA{R: 0, G: 0, B: 0, A: 255}},
	{"teal", color.NRGBA{R: 48, G: 176, B: 199, A: 255}},
	{"pink", color.NRGBA{R: 255, G: 45, B: 85, A: 255}},
}

// Names returns the palette names joined for help and error text.
func Names(palette []NamedColor) string {
	names := make([]string, len(palette))
	for i, c := range palette {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// Lookup resolves a palette color by name.
func Lookup(palette []NamedColor, name string) (color.NRGBA, error) {
	for _, c := range palette {
		if c.Name == name {
			return c.Color, nil
		}
	}
	return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor,
		"unknown color %q (choose one of %s)", name, Names(palette))
}

// ParseRGB parses an "R,G,B" triple with each channel in 0-255.
func ParseRGB(s string) (color.NRGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor,
			"invalid RGB value %q (expected R,G,B)", s)
	}
	var channels [3]uint8
	for i, part := range parts {
		part = strings.TrimSpace(part)
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor,
				"invalid RGB channel %q (expected 0-255)", part)
		}
		channels[i] = uint8(v)
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}
