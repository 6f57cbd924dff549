package crosshair

import "math"

type IntRange struct{ Min, Max int }

type FloatRange struct{ Min, Max float64 }

// Limits are the ranges the editor controls allow.
type Limits struct {
	Thickness      IntRange
	Length         IntRange
	Gap            IntRange
	Opacity        IntRange
	Blur           FloatRange
	Position       FloatRange
	Scale          FloatRange
	Rotation       IntRange
	DotSize        IntRange
	AnimationSpeed FloatRange
}

var DefaultLimits = Limits{
	Thickness:      IntRange{Min: 1, Max: 10},
	Length:         IntRange{Min: 1, Max: 50},
	Gap:            IntRange{Min: 0, Max: 20},
	Opacity:        IntRange{Min: 0, Max: 100},
	Blur:           FloatRange{Min: 0, Max: 10},
	Position:       FloatRange{Min: 0, Max: 100},
	Scale:          FloatRange{Min: 0.1, Max: 5},
	Rotation:       IntRange{Min: 0, Max: 359},
	DotSize:        IntRange{Min: 1, Max: 10},
	AnimationSpeed: FloatRange{Min: 0.1, Max: 5},
}

// Clamp returns a copy of p with every present numeric field forced into
// limits. Rotation wraps instead of saturating so 360 becomes 0.
func (p Patch) Clamp(limits Limits) Patch {
	out := p
	out.Thickness = clampIntPtr(p.Thickness, limits.Thickness)
	out.Length = clampIntPtr(p.Length, limits.Length)
	out.Gap = clampIntPtr(p.Gap, limits.Gap)
	out.Opacity = clampIntPtr(p.Opacity, limits.Opacity)
	out.Blur = clampFloatPtr(p.Blur, limits.Blur)
	out.Scale = clampFloatPtr(p.Scale, limits.Scale)
	out.DotSize = clampIntPtr(p.DotSize, limits.DotSize)
	out.AnimationSpeed = clampFloatPtr(p.AnimationSpeed, limits.AnimationSpeed)
	if p.Rotation != nil {
		span := limits.Rotation.Max - limits.Rotation.Min + 1
		v := *p.Rotation
		if span > 0 {
			v = limits.Rotation.Min + ((v-limits.Rotation.Min)%span+span)%span
		}
		out.Rotation = &v
	}
	if p.Position != nil {
		pos := Position{
			X: clampFloat(p.Position.X, limits.Position),
			Y: clampFloat(p.Position.Y, limits.Position),
		}
		out.Position = &pos
	}
	return out
}

func clampIntPtr(v *int, r IntRange) *int {
	if v == nil {
		return nil
	}
	c := *v
	if c < r.Min {
		c = r.Min
	}
	if c > r.Max {
		c = r.Max
	}
	return &c
}

func clampFloatPtr(v *float64, r FloatRange) *float64 {
	if v == nil {
		return nil
	}
	c := clampFloat(*v, r)
	return &c
}

func clampFloat(v float64, r FloatRange) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}
