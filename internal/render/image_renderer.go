package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// ImageRenderer renders offscreen. It keeps the last frame and, when OutPath
// is set, writes every frame there as PNG.
type ImageRenderer struct {
	OutPath string
	Logger  Logger

	mu     sync.Mutex
	canvas *Canvas
	last   *image.RGBA
	frames int
}

func NewImageRenderer(outPath string, logger Logger) *ImageRenderer {
	return &ImageRenderer{OutPath: outPath, Logger: logger}
}

func (r *ImageRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canvas == nil {
		r.canvas = NewCanvas(r.Logger)
	}
	return nil
}

func (r *ImageRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas = nil
	return nil
}

func (r *ImageRenderer) Redraw(view View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canvas == nil {
		return
	}
	r.last = r.canvas.Compose(view)
	r.frames++
	if r.OutPath == "" {
		return
	}
	if err := writePNG(r.OutPath, r.last); err != nil && r.Logger != nil {
		r.Logger.Errorf("render", "write preview %s failed: %v", r.OutPath, err)
	}
}

// Last returns the most recent frame, or nil before the first Redraw.
func (r *ImageRenderer) Last() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *ImageRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func writePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
