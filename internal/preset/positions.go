package preset

import (
	"errors"
	"fmt"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

var ErrUnknownPosition = errors.New("unknown position")

// NamedPosition is a quick anchor choice offered next to the position
// sliders.
type NamedPosition struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Position crosshair.Position `json:"position"`
}

var positions = []NamedPosition{
	{ID: "center", Name: "Center", Position: crosshair.Position{X: 50, Y: 50}},
	{ID: "top-left", Name: "Top Left", Position: crosshair.Position{X: 25, Y: 25}},
	{ID: "top-right", Name: "Top Right", Position: crosshair.Position{X: 75, Y: 25}},
	{ID: "bottom-left", Name: "Bottom Left", Position: crosshair.Position{X: 25, Y: 75}},
	{ID: "bottom-right", Name: "Bottom Right", Position: crosshair.Position{X: 75, Y: 75}},
	{ID: "left-center", Name: "Left Center", Position: crosshair.Position{X: 25, Y: 50}},
	{ID: "right-center", Name: "Right Center", Position: crosshair.Position{X: 75, Y: 50}},
	{ID: "top-center", Name: "Top Center", Position: crosshair.Position{X: 50, Y: 25}},
	{ID: "bottom-center", Name: "Bottom Center", Position: crosshair.Position{X: 50, Y: 75}},
}

func Positions() []NamedPosition {
	out := make([]NamedPosition, len(positions))
	copy(out, positions)
	return out
}

// ApplyPosition moves the active crosshair to the named position.
func ApplyPosition(store Updater, id string) (crosshair.Config, error) {
	for _, p := range positions {
		if p.ID == id {
			pos := p.Position
			return store.UpdateConfig(crosshair.Patch{Position: &pos}), nil
		}
	}
	return crosshair.Config{}, fmt.Errorf("%w: %s", ErrUnknownPosition, id)
}

// ResetPosition restores the centered, unscaled, unrotated placement.
func ResetPosition(store Updater) crosshair.Config {
	return store.UpdateConfig(crosshair.Patch{
		Position: &crosshair.Position{X: 50, Y: 50},
		Scale:    crosshair.Ptr(1.0),
		Rotation: crosshair.Ptr(0),
	})
}
