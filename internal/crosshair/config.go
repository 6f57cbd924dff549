// Package crosshair holds the crosshair configuration entity, its partial
// update form and the keybind records that travel with it.
package crosshair

import (
	"fmt"

	"github.com/google/uuid"
)

type Shape string

const (
	ShapeCross  Shape = "cross"
	ShapePlus   Shape = "plus"
	ShapeDot    Shape = "dot"
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
	// ShapeCustom is accepted everywhere but draws like ShapeCross.
	ShapeCustom Shape = "custom"
)

var shapes = []Shape{ShapeCross, ShapePlus, ShapeDot, ShapeCircle, ShapeSquare, ShapeCustom}

// Shapes returns every recognized shape in display order.
func Shapes() []Shape {
	out := make([]Shape, len(shapes))
	copy(out, shapes)
	return out
}

func (s Shape) Valid() bool {
	for _, known := range shapes {
		if s == known {
			return true
		}
	}
	return false
}

func (s *Shape) UnmarshalText(text []byte) error {
	parsed := Shape(text)
	if !parsed.Valid() {
		return fmt.Errorf("unknown shape %q", string(text))
	}
	*s = parsed
	return nil
}

// Position is the crosshair anchor in percent of the preview viewport.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config is one crosshair design. It is handled as a value: every update
// produces a new Config and published values are never modified.
type Config struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Color          string   `json:"color"`
	OutlineColor   string   `json:"outlineColor"`
	HasOutline     bool     `json:"hasOutline"`
	Shape          Shape    `json:"shape"`
	Thickness      int      `json:"thickness"`
	Length         int      `json:"length"`
	Gap            int      `json:"gap"`
	Opacity        int      `json:"opacity"`
	Blur           float64  `json:"blur"`
	Position       Position `json:"position"`
	Scale          float64  `json:"scale"`
	Rotation       int      `json:"rotation"`
	ShowDot        bool     `json:"showDot"`
	DotSize        int      `json:"dotSize"`
	Animated       bool     `json:"animated"`
	AnimationSpeed float64  `json:"animationSpeed"`
}

// Default returns the configuration the editor starts with.
func Default() Config {
	return Config{
		ID:             "default",
		Name:           "Default Crosshair",
		Color:          "#00ff00",
		OutlineColor:   "#000000",
		HasOutline:     true,
		Shape:          ShapeCross,
		Thickness:      2,
		Length:         10,
		Gap:            2,
		Opacity:        100,
		Blur:           0,
		Position:       Position{X: 50, Y: 50},
		Scale:          1,
		Rotation:       0,
		ShowDot:        false,
		DotSize:        2,
		Animated:       false,
		AnimationSpeed: 1,
	}
}

// NewID returns a fresh identifier for a saved configuration.
func NewID() string {
	return uuid.NewString()
}
