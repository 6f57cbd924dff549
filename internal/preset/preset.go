// Package preset is the static catalog of community crosshair designs.
package preset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrUnknownOrder  = errors.New("unknown sort order")
)

// Design is one catalog entry: the configuration plus its community stats.
type Design struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Author    string           `json:"author"`
	Downloads int              `json:"downloads"`
	Rating    float64          `json:"rating"`
	Trending  bool             `json:"trending"`
	Tags      []string         `json:"tags"`
	Config    crosshair.Config `json:"config"`
}

type Order string

const (
	OrderCatalog  Order = ""
	OrderPopular  Order = "popular"
	OrderRating   Order = "rating"
	OrderName     Order = "name"
	OrderTrending Order = "trending"
)

func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderCatalog, OrderPopular, OrderRating, OrderName, OrderTrending:
		return o, nil
	default:
		return OrderCatalog, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
	}
}

func design(id, name, author string, downloads int, rating float64, trending bool, tags []string, cfg crosshair.Config) Design {
	cfg.ID = id
	cfg.Name = name
	return Design{ID: id, Name: name, Author: author, Downloads: downloads, Rating: rating, Trending: trending, Tags: tags, Config: cfg}
}

// base is the shared starting point of every catalog entry.
func base(color string, shape crosshair.Shape, thickness, length, gap, opacity int) crosshair.Config {
	cfg := crosshair.Default()
	cfg.Color = color
	cfg.OutlineColor = "#000000"
	cfg.Shape = shape
	cfg.Thickness = thickness
	cfg.Length = length
	cfg.Gap = gap
	cfg.Opacity = opacity
	return cfg
}

var catalog = func() []Design {
	csClassic := base("#00ff00", crosshair.ShapeCross, 2, 12, 3, 100)
	csClassic.ShowDot = true

	valorant := base("#ff0000", crosshair.ShapeCross, 3, 8, 2, 90)

	apex := base("#ffffff", crosshair.ShapeDot, 4, 8, 2, 100)

	rainbow := base("#ff00ff", crosshair.ShapePlus, 2, 10, 4, 80)
	rainbow.ShowDot = true
	rainbow.DotSize = 3
	rainbow.Animated = true
	rainbow.AnimationSpeed = 2

	circle := base("#00ffff", crosshair.ShapeCircle, 1, 15, 0, 70)
	circle.HasOutline = false

	square := base("#ffa500", crosshair.ShapeSquare, 2, 12, 0, 85)
	square.Rotation = 45
	square.ShowDot = true
	square.DotSize = 1

	return []Design{
		design("cs-classic", "CS Classic", "ProPlayer", 1250, 4.8, true, []string{"competitive", "fps", "classic"}, csClassic),
		design("valorant-red", "Valorant Red", "RadiantAce", 890, 4.6, false, []string{"valorant", "red", "tactical"}, valorant),
		design("apex-dot", "Apex Dot", "PredatorMain", 2100, 4.9, true, []string{"apex", "minimalist", "dot"}, apex),
		design("rainbow-animated", "Rainbow Pulse", "AestheticGamer", 567, 4.2, false, []string{"animated", "colorful", "pulse"}, rainbow),
		design("minimal-circle", "Minimal Circle", "MinimalDesign", 1800, 4.7, true, []string{"minimal", "circle", "clean"}, circle),
		design("tactical-square", "Tactical Square", "TacticalShooter", 923, 4.5, false, []string{"tactical", "square", "military"}, square),
	}
}()

// All returns a copy of the catalog in catalog order.
func All() []Design {
	return clone(catalog)
}

func Find(id string) (Design, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return cloneDesign(d), true
		}
	}
	return Design{}, false
}

// Filter keeps the designs carrying tag. An empty tag keeps everything.
func Filter(designs []Design, tag string) []Design {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return designs
	}
	out := make([]Design, 0, len(designs))
	for _, d := range designs {
		for _, t := range d.Tags {
			if t == tag {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// SortBy orders designs in place and returns them. Ties keep catalog order.
func SortBy(designs []Design, order Order) []Design {
	var less func(a, b Design) bool
	switch order {
	case OrderPopular:
		less = func(a, b Design) bool { return a.Downloads > b.Downloads }
	case OrderRating:
		less = func(a, b Design) bool { return a.Rating > b.Rating }
	case OrderName:
		less = func(a, b Design) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case OrderTrending:
		less = func(a, b Design) bool {
			if a.Trending != b.Trending {
				return a.Trending
			}
			return a.Downloads > b.Downloads
		}
	default:
		return designs
	}
	sort.SliceStable(designs, func(i, j int) bool { return less(designs[i], designs[j]) })
	return designs
}

// Updater is the part of the configuration store Apply writes to.
type Updater interface {
	UpdateConfig(p crosshair.Patch) crosshair.Config
}

// Apply makes the design with id the active configuration by pushing every
// field through the regular update path.
func Apply(store Updater, id string) (crosshair.Config, error) {
	d, ok := Find(id)
	if !ok {
		return crosshair.Config{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	return store.UpdateConfig(crosshair.PatchFrom(d.Config)), nil
}

func clone(in []Design) []Design {
	out := make([]Design, len(in))
	for i, d := range in {
		out[i] = cloneDesign(d)
	}
	return out
}

func cloneDesign(d Design) Design {
	d.Tags = append([]string(nil), d.Tags...)
	return d
}
