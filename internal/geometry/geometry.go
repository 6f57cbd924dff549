// Package geometry turns a crosshair configuration into an ordered list of
// drawable primitives in a local coordinate space centered on the origin
// (x right, y down), plus the container transform every back-end applies.
//
// Primitives are returned in paint order. Painting them back to front gives
// the final composite: outline underpaint comes before the fill it belongs
// to, and the optional center dot comes after the shape body.
package geometry

import (
	"math"
	"time"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

type Kind int

const (
	// KindRect is a filled axis-aligned rectangle at X,Y with size W,H.
	KindRect Kind = iota
	// KindDisc is a filled circle of Radius.
	KindDisc
	// KindRing is a circle stroked with width Stroke, centered on Radius.
	KindRing
	// KindFrame is a square with half-extent Radius stroked with width Stroke.
	KindFrame
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindDisc:
		return "disc"
	case KindRing:
		return "ring"
	case KindFrame:
		return "frame"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Role int

const (
	RoleFill Role = iota
	RoleOutline
)

func (r Role) String() string {
	if r == RoleOutline {
		return "outline"
	}
	return "fill"
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

type Part int

const (
	PartBody Part = iota
	PartCenterDot
)

func (p Part) String() string {
	if p == PartCenterDot {
		return "centerDot"
	}
	return "body"
}

func (p Part) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Primitive is one drawable shape. Rects use X,Y,W,H; Disc, Ring and Frame
// are centered on the origin and use Radius (and Stroke for Ring/Frame).
type Primitive struct {
	Kind   Kind    `json:"kind"`
	Role   Role    `json:"role"`
	Part   Part    `json:"part"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Stroke float64 `json:"stroke,omitempty"`
	Color  string  `json:"color"`
}

// Transform is applied to the whole primitive group: scale, then rotate,
// then place at the anchor. Alpha is group opacity.
type Transform struct {
	Scale           float64 `json:"scale"`
	RotationRadians float64 `json:"rotationRadians"`
	Alpha           float64 `json:"alpha"`
}

// Transition is the easing hint for back-ends that animate between frames.
type Transition struct {
	Enabled  bool          `json:"enabled"`
	Duration time.Duration `json:"duration"`
}

// Scene is the output of Resolve.
type Scene struct {
	Primitives []Primitive        `json:"primitives"`
	Transform  Transform          `json:"transform"`
	Anchor     crosshair.Position `json:"anchor"`
	// Blur is a filter radius in pixels for back-ends that support it.
	Blur       float64    `json:"blur"`
	Transition Transition `json:"transition"`
}

const baseTransition = 300 * time.Millisecond

// Resolve maps cfg to its scene. It never fails: values that cannot be drawn
// (negative sizes, opacity outside 0..100) are neutralized instead.
func Resolve(cfg crosshair.Config) Scene {
	thickness := nonNegative(float64(cfg.Thickness))
	length := nonNegative(float64(cfg.Length))
	gap := nonNegative(float64(cfg.Gap))
	dotSize := nonNegative(float64(cfg.DotSize))

	b := builder{hasOutline: cfg.HasOutline, fill: cfg.Color, outline: cfg.OutlineColor}

	switch cfg.Shape {
	case crosshair.ShapeDot:
		b.disc(PartBody, thickness)
	case crosshair.ShapeCircle:
		b.stroked(KindRing, length, thickness)
	case crosshair.ShapeSquare:
		b.stroked(KindFrame, length, thickness)
	default:
		// cross, plus, custom and anything unrecognized.
		b.cross(length, gap, thickness)
	}
	if cfg.ShowDot {
		b.disc(PartCenterDot, dotSize)
	}

	return Scene{
		Primitives: b.out,
		Transform: Transform{
			Scale:           nonNegative(cfg.Scale),
			RotationRadians: float64(normalizeDegrees(cfg.Rotation)) * math.Pi / 180,
			Alpha:           math.Max(0, math.Min(100, float64(cfg.Opacity))) / 100,
		},
		Anchor:     cfg.Position,
		Blur:       nonNegative(cfg.Blur),
		Transition: transition(cfg),
	}
}

// SegmentLength is the drawn length of each cross arm: length minus gap,
// never negative. A gap at or beyond the length hides the arms.
func SegmentLength(length, gap int) int {
	if length-gap < 0 {
		return 0
	}
	return length - gap
}

func transition(cfg crosshair.Config) Transition {
	if !cfg.Animated {
		return Transition{}
	}
	speed := cfg.AnimationSpeed
	if speed <= 0 || math.IsNaN(speed) {
		speed = 1
	}
	return Transition{Enabled: true, Duration: time.Duration(float64(baseTransition) / speed)}
}

type builder struct {
	hasOutline bool
	fill       string
	outline    string
	out        []Primitive
}

func (b *builder) disc(part Part, radius float64) {
	if b.hasOutline {
		b.out = append(b.out, Primitive{Kind: KindDisc, Role: RoleOutline, Part: part, Radius: radius + 1, Color: b.outline})
	}
	b.out = append(b.out, Primitive{Kind: KindDisc, Role: RoleFill, Part: part, Radius: radius, Color: b.fill})
}

func (b *builder) stroked(kind Kind, radius, stroke float64) {
	if b.hasOutline {
		b.out = append(b.out, Primitive{Kind: kind, Role: RoleOutline, Part: PartBody, Radius: radius, Stroke: stroke + 2, Color: b.outline})
	}
	b.out = append(b.out, Primitive{Kind: kind, Role: RoleFill, Part: PartBody, Radius: radius, Stroke: stroke, Color: b.fill})
}

// cross emits the four arm halves. All outlines go first so no outline can
// cover a neighbouring arm's fill where the arms meet.
func (b *builder) cross(length, gap, thickness float64) {
	seg := math.Max(length-gap, 0)
	half := thickness / 2
	arms := [4]Primitive{
		{X: -gap - seg, Y: -half, W: seg, H: thickness}, // left
		{X: gap, Y: -half, W: seg, H: thickness},        // right
		{X: -half, Y: -gap - seg, W: thickness, H: seg}, // top
		{X: -half, Y: gap, W: thickness, H: seg},        // bottom
	}
	if b.hasOutline {
		for _, arm := range arms {
			b.out = append(b.out, padRect(arm, 1, b.outline))
		}
	}
	for _, arm := range arms {
		arm.Kind = KindRect
		arm.Role = RoleFill
		arm.Part = PartBody
		arm.Color = b.fill
		b.out = append(b.out, arm)
	}
}

// padRect grows r by pad on each side of every non-degenerate extent, so a
// zero-length arm keeps a zero-length outline.
func padRect(r Primitive, pad float64, color string) Primitive {
	out := Primitive{Kind: KindRect, Role: RoleOutline, Part: PartBody, X: r.X, Y: r.Y, W: r.W, H: r.H, Color: color}
	if r.W > 0 {
		out.X -= pad
		out.W += 2 * pad
	}
	if r.H > 0 {
		out.Y -= pad
		out.H += 2 * pad
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func normalizeDegrees(deg int) int {
	return ((deg % 360) + 360) % 360
}
