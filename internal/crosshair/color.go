package crosshair

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color")

// ParseColor converts "#rgb", "#rrggbb" or "#rrggbbaa" into RGBA.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, hex, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor is ParseColor with a fallback for values that do not parse.
func MustColor(hex string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// PaintColor is the colour every back-end fills a primitive with. A value
// that does not parse paints nothing.
func PaintColor(hex string) color.RGBA {
	return MustColor(hex, color.RGBA{})
}

// Validate reports the first colour field of p that ParseColor rejects.
func (p Patch) Validate() error {
	if p.Color != nil {
		if _, err := ParseColor(*p.Color); err != nil {
			return fmt.Errorf("color: %w", err)
		}
	}
	if p.OutlineColor != nil {
		if _, err := ParseColor(*p.OutlineColor); err != nil {
			return fmt.Errorf("outlineColor: %w", err)
		}
	}
	return nil
}

// Validate is Patch.Validate over every field of cfg.
func (cfg Config) Validate() error {
	return PatchFrom(cfg).Validate()
}
