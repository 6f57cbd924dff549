package crosshair

// Patch is a partial Config. A nil field is absent and leaves the target
// field untouched when merged.
type Patch struct {
	ID             *string   `json:"id,omitempty"`
	Name           *string   `json:"name,omitempty"`
	Color          *string   `json:"color,omitempty"`
	OutlineColor   *string   `json:"outlineColor,omitempty"`
	HasOutline     *bool     `json:"hasOutline,omitempty"`
	Shape          *Shape    `json:"shape,omitempty"`
	Thickness      *int      `json:"thickness,omitempty"`
	Length         *int      `json:"length,omitempty"`
	Gap            *int      `json:"gap,omitempty"`
	Opacity        *int      `json:"opacity,omitempty"`
	Blur           *float64  `json:"blur,omitempty"`
	Position       *Position `json:"position,omitempty"`
	Scale          *float64  `json:"scale,omitempty"`
	Rotation       *int      `json:"rotation,omitempty"`
	ShowDot        *bool     `json:"showDot,omitempty"`
	DotSize        *int      `json:"dotSize,omitempty"`
	Animated       *bool     `json:"animated,omitempty"`
	AnimationSpeed *float64  `json:"animationSpeed,omitempty"`
}

// Merge returns cfg with every present field of p applied.
func Merge(cfg Config, p Patch) Config {
	out := cfg
	if p.ID != nil {
		out.ID = *p.ID
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.OutlineColor != nil {
		out.OutlineColor = *p.OutlineColor
	}
	if p.HasOutline != nil {
		out.HasOutline = *p.HasOutline
	}
	if p.Shape != nil {
		out.Shape = *p.Shape
	}
	if p.Thickness != nil {
		out.Thickness = *p.Thickness
	}
	if p.Length != nil {
		out.Length = *p.Length
	}
	if p.Gap != nil {
		out.Gap = *p.Gap
	}
	if p.Opacity != nil {
		out.Opacity = *p.Opacity
	}
	if p.Blur != nil {
		out.Blur = *p.Blur
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Scale != nil {
		out.Scale = *p.Scale
	}
	if p.Rotation != nil {
		out.Rotation = *p.Rotation
	}
	if p.ShowDot != nil {
		out.ShowDot = *p.ShowDot
	}
	if p.DotSize != nil {
		out.DotSize = *p.DotSize
	}
	if p.Animated != nil {
		out.Animated = *p.Animated
	}
	if p.AnimationSpeed != nil {
		out.AnimationSpeed = *p.AnimationSpeed
	}
	return out
}

// PatchFrom returns a Patch that sets every field to the value in cfg.
func PatchFrom(cfg Config) Patch {
	position := cfg.Position
	return Patch{
		ID:             &cfg.ID,
		Name:           &cfg.Name,
		Color:          &cfg.Color,
		OutlineColor:   &cfg.OutlineColor,
		HasOutline:     &cfg.HasOutline,
		Shape:          &cfg.Shape,
		Thickness:      &cfg.Thickness,
		Length:         &cfg.Length,
		Gap:            &cfg.Gap,
		Opacity:        &cfg.Opacity,
		Blur:           &cfg.Blur,
		Position:       &position,
		Scale:          &cfg.Scale,
		Rotation:       &cfg.Rotation,
		ShowDot:        &cfg.ShowDot,
		DotSize:        &cfg.DotSize,
		Animated:       &cfg.Animated,
		AnimationSpeed: &cfg.AnimationSpeed,
	}
}

// Empty reports whether p carries no fields.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T { return &v }
