package render

import (
	"context"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

// View is everything a renderer needs to produce one frame.
type View struct {
	Config     crosshair.Config
	Fullscreen bool
}

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	Redraw(view View)
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Stub implementations
type NoopRenderer struct{}

func (n *NoopRenderer) Start(ctx context.Context) error { return nil }
func (n *NoopRenderer) Stop() error                     { return nil }
func (n *NoopRenderer) Redraw(view View)                {}
