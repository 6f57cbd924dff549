package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/geometry"
	"github.com/rook-computer/crosshair/internal/render/layout"
)

const (
	defaultThumbnailSizePx = 96
	thumbnailSupersample   = 2
)

// ThumbnailConfig applies the presentation floors used for catalog
// thumbnails, so tiny designs stay recognizable at card size. Position,
// scale and rotation are dropped: a thumbnail is always centered.
func ThumbnailConfig(cfg crosshair.Config) crosshair.Config {
	out := cfg
	out.Position = crosshair.Position{X: 50, Y: 50}
	out.Scale = 1
	out.Blur = 0
	switch cfg.Shape {
	case crosshair.ShapeDot:
		out.Thickness = max(cfg.Thickness, 4)
	case crosshair.ShapeCircle, crosshair.ShapeSquare:
		out.Length = max(cfg.Length, 8)
		out.Thickness = max(cfg.Thickness, 2)
	default:
		out.Length = max(cfg.Length, 12)
	}
	return out
}

// Thumbnail renders cfg as a square sizePx image on the preview background.
// The design is drawn at twice the size and downscaled.
func Thumbnail(cfg crosshair.Config, sizePx int) *image.RGBA {
	if sizePx <= 0 {
		sizePx = defaultThumbnailSizePx
	}
	big := image.NewRGBA(image.Rect(0, 0, sizePx*thumbnailSupersample, sizePx*thumbnailSupersample))
	draw.Draw(big, big.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	scene := geometry.Resolve(ThumbnailConfig(cfg))
	cx, cy := layout.Center(big.Bounds())
	DrawScene(big, big.Bounds(), scene, cx, cy, thumbnailSupersample)

	out := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	return out
}
