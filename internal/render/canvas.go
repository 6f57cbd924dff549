package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/geometry"
	"github.com/rook-computer/crosshair/internal/render/layout"
)

// circleSegments is the polygon resolution used for discs and rings.
const circleSegments = 72

// Canvas composes raster frames: the preview viewport with its info panel,
// or the fullscreen surface.
type Canvas struct {
	fonts fonts
}

func NewCanvas(logger Logger) *Canvas {
	return &Canvas{fonts: loadFonts(logger)}
}

// Compose renders view into a new image. Preview frames are
// ViewportWidth x (ViewportHeight+PanelHeight); fullscreen frames are
// FullscreenWidth x FullscreenHeight.
func (c *Canvas) Compose(view View) *image.RGBA {
	if view.Fullscreen {
		return c.composeFullscreen(view.Config)
	}
	return c.composePreview(view.Config)
}

func (c *Canvas) composePreview(cfg crosshair.Config) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ViewportWidth, ViewportHeight+PanelHeight))
	viewport, panel := layout.SplitHorizontal(img.Bounds(), ViewportHeight)
	DrawViewport(img, viewport, geometry.Resolve(cfg))
	c.drawPanel(img, panel, cfg)
	return img
}

func (c *Canvas) composeFullscreen(cfg crosshair.Config) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FullscreenWidth, FullscreenHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	scene := geometry.Resolve(cfg)
	cx, cy := layout.Center(img.Bounds())
	DrawScene(img, img.Bounds(), scene, cx, cy, 1)

	c.fonts.drawHintCentered(img, FullscreenHint, FullscreenWidth/2, FullscreenHeight-40, HintText)
	return img
}

func (c *Canvas) drawPanel(dst *image.RGBA, rect image.Rectangle, cfg crosshair.Config) {
	draw.Draw(dst, rect, image.NewUniform(PanelColor), image.Point{}, draw.Src)
	lines := []string{
		fmt.Sprintf("Shape: %s", cfg.Shape),
		fmt.Sprintf("Color: %s", cfg.Color),
		fmt.Sprintf("Opacity: %d%%", cfg.Opacity),
	}
	rows := layout.Rows(layout.Inset(rect, 8), len(lines))
	for i, line := range lines {
		drawTextAt(dst, line, rows[i].Min.X, rows[i].Min.Y, PanelText, c.fonts.panel)
	}
}

// DrawViewport paints the preview background, grid and center axes into
// rect, then the scene at its anchor position.
func DrawViewport(dst *image.RGBA, rect image.Rectangle, scene geometry.Scene) {
	draw.Draw(dst, rect, image.NewUniform(Background), image.Point{}, draw.Src)
	drawGrid(dst, rect)
	x, y := layout.PercentPoint(rect, scene.Anchor.X, scene.Anchor.Y)
	DrawScene(dst, rect, scene, x, y, 1)
}

func drawGrid(dst *image.RGBA, rect image.Rectangle) {
	for x := rect.Min.X; x < rect.Max.X; x += GridStep {
		blendRect(dst, image.Rect(x, rect.Min.Y, x+1, rect.Max.Y), GridColor, GridAlpha)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y += GridStep {
		blendRect(dst, image.Rect(rect.Min.X, y, rect.Max.X, y+1), GridColor, GridAlpha)
	}
	cx := rect.Min.X + rect.Dx()/2
	cy := rect.Min.Y + rect.Dy()/2
	blendRect(dst, image.Rect(cx, rect.Min.Y, cx+1, rect.Max.Y), AxisColor, AxisAlpha)
	blendRect(dst, image.Rect(rect.Min.X, cy, rect.Max.X, cy+1), AxisColor, AxisAlpha)
}

func blendRect(dst draw.Image, r image.Rectangle, c color.Color, alpha float64) {
	mask := image.NewUniform(color.Alpha{A: alphaByte(alpha)})
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// DrawScene rasterizes scene with its origin at (cx, cy), clipped to clip.
// pixelScale multiplies the scene's own scale; thumbnails use it to
// supersample. The primitives are painted opaque into a layer that is
// blurred and then composited with the group alpha.
func DrawScene(dst *image.RGBA, clip image.Rectangle, scene geometry.Scene, cx, cy, pixelScale float64) {
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() || scene.Transform.Alpha <= 0 || scene.Transform.Scale <= 0 || pixelScale <= 0 {
		return
	}

	layer := image.NewRGBA(clip)
	m := affine{
		scale: scene.Transform.Scale * pixelScale,
		sin:   math.Sin(scene.Transform.RotationRadians),
		cos:   math.Cos(scene.Transform.RotationRadians),
		tx:    cx - float64(clip.Min.X),
		ty:    cy - float64(clip.Min.Y),
	}
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	for _, p := range scene.Primitives {
		fillPrimitive(z, layer, m, p)
	}
	if scene.Blur > 0 {
		boxBlur(layer, scene.Blur*pixelScale)
	}

	mask := image.NewUniform(color.Alpha{A: alphaByte(scene.Transform.Alpha)})
	draw.DrawMask(dst, clip, layer, clip.Min, mask, image.Point{}, draw.Over)
}

// affine maps local scene coordinates to layer pixels: scale, rotate
// clockwise (y down), translate.
type affine struct {
	scale, sin, cos, tx, ty float64
}

func (m affine) apply(x, y float64) (float32, float32) {
	x *= m.scale
	y *= m.scale
	return float32(x*m.cos - y*m.sin + m.tx), float32(x*m.sin + y*m.cos + m.ty)
}

type point struct{ x, y float64 }

func fillPrimitive(z *vector.Rasterizer, layer *image.RGBA, m affine, p geometry.Primitive) {
	b := layer.Bounds()
	z.Reset(b.Dx(), b.Dy())

	switch p.Kind {
	case geometry.KindRect:
		if p.W <= 0 || p.H <= 0 {
			return
		}
		addPath(z, m, rectPath(p.X, p.Y, p.W, p.H), false)
	case geometry.KindDisc:
		if p.Radius <= 0 {
			return
		}
		addPath(z, m, circlePath(p.Radius), false)
	case geometry.KindRing, geometry.KindFrame:
		outer := p.Radius + p.Stroke/2
		inner := p.Radius - p.Stroke/2
		if p.Stroke <= 0 || outer <= 0 {
			return
		}
		path := circlePath
		if p.Kind == geometry.KindFrame {
			path = squarePath
		}
		addPath(z, m, path(outer), false)
		if inner > 0 {
			// Opposite winding cancels the inner area.
			addPath(z, m, path(inner), true)
		}
	default:
		return
	}

	c := crosshair.PaintColor(p.Color)
	if c.A == 0 {
		return
	}
	src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	z.Draw(layer, b, src, image.Point{})
}

func addPath(z *vector.Rasterizer, m affine, pts []point, reverse bool) {
	if len(pts) == 0 {
		return
	}
	at := func(i int) point {
		if reverse {
			return pts[len(pts)-1-i]
		}
		return pts[i]
	}
	z.MoveTo(m.apply(at(0).x, at(0).y))
	for i := 1; i < len(pts); i++ {
		z.LineTo(m.apply(at(i).x, at(i).y))
	}
	z.ClosePath()
}

func rectPath(x, y, w, h float64) []point {
	return []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func squarePath(half float64) []point {
	return rectPath(-half, -half, 2*half, 2*half)
}

func circlePath(r float64) []point {
	pts := make([]point, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = point{r * math.Cos(a), r * math.Sin(a)}
	}
	return pts
}

func alphaByte(a float64) uint8 {
	if a <= 0 || math.IsNaN(a) {
		return 0
	}
	if a >= 1 {
		return 0xFF
	}
	return uint8(math.Round(a * 0xFF))
}

// boxBlur approximates a gaussian of the given standard deviation with three
// separable box passes over the premultiplied pixels.
func boxBlur(img *image.RGBA, sigma float64) {
	radius := int(math.Round(math.Sqrt(sigma*sigma+0.25) - 0.5))
	if radius < 1 {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tmp := make([]uint8, len(img.Pix))
	for i := 0; i < 3; i++ {
		boxPass(img.Pix, tmp, h, w, img.Stride, 4, radius)
		boxPass(tmp, img.Pix, w, h, 4, img.Stride, radius)
	}
}

// boxPass averages every sample with its radius neighbours along one axis.
// Samples outside the image count as transparent.
func boxPass(src, dst []uint8, lines, length, lineStep, sampleStep, radius int) {
	window := 2*radius + 1
	for l := 0; l < lines; l++ {
		base := l * lineStep
		for c := 0; c < 4; c++ {
			sum := 0
			for i := 0; i < radius && i < length; i++ {
				sum += int(src[base+i*sampleStep+c])
			}
			for i := 0; i < length; i++ {
				if in := i + radius; in < length {
					sum += int(src[base+in*sampleStep+c])
				}
				if out := i - radius - 1; out >= 0 {
					sum -= int(src[base+out*sampleStep+c])
				}
				dst[base+i*sampleStep+c] = uint8(sum / window)
			}
		}
	}
}
