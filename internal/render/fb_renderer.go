package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/crosshair/internal/render/layout"
)

const DefaultFramebuffer = "/dev/fb0"

// FBRenderer renders to the Linux framebuffer. Frames are composed on a
// logical canvas and scaled into the device, letterboxed to keep their
// aspect ratio.
type FBRenderer struct {
	DevicePath string
	Logger     Logger

	mu     sync.Mutex
	fbDev  *fb.Device
	canvas *Canvas
	buffer *image.RGBA
}

func NewFBRenderer(logger Logger) *FBRenderer {
	return &FBRenderer{DevicePath: DefaultFramebuffer, Logger: logger}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		return nil
	}

	path := r.DevicePath
	if path == "" {
		path = DefaultFramebuffer
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	r.buffer = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	r.canvas = NewCanvas(r.Logger)
	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	return nil
}

// Stop releases the device. It is safe to call more than once.
func (r *FBRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return nil
	}
	r.fbDev.Close()
	r.fbDev = nil
	r.buffer = nil
	r.canvas = nil
	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer closed")
	}
	return nil
}

func (r *FBRenderer) Redraw(view View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return
	}
	frame := r.canvas.Compose(view)
	fitInto(r.buffer, frame)
	blitToFB(r.fbDev, r.buffer)
	if r.Logger != nil {
		r.Logger.Infof("fb", "redraw done, shape=%s fullscreen=%v", view.Config.Shape, view.Fullscreen)
	}
}

// fitInto clears dst to black and scales frame into the largest centered
// rectangle with frame's aspect ratio.
func fitInto(dst *image.RGBA, frame *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	target := layout.Fit(dst.Bounds(), frame.Bounds().Dx(), frame.Bounds().Dy())
	xdraw.ApproxBiLinear.Scale(dst, target, frame, frame.Bounds(), xdraw.Src, nil)
}

func blitToFB(dev *fb.Device, buf *image.RGBA) {
	bounds := dev.Bounds()
	for y := 0; y < bounds.Dy() && y < buf.Rect.Dy(); y++ {
		for x := 0; x < bounds.Dx() && x < buf.Rect.Dx(); x++ {
			pixel := buf.RGBAAt(x, y)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
