package input

import (
	"context"
	"encoding/binary"
)

type Event string

const (
	ToggleFullscreen Event = "toggle-fullscreen"
	ExitFullscreen   Event = "exit-fullscreen"
)

type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopSource struct{ ch chan Event }

func NewNoopSource() *NoopSource { return &NoopSource{ch: make(chan Event)} }

func (n *NoopSource) Start(ctx context.Context) error { return nil }
func (n *NoopSource) Stop() error                     { return nil }
func (n *NoopSource) Events() <-chan Event            { return n.ch }

// ChanSource is a Source fed by Send. The simulator and tests use it in place
// of a keyboard.
type ChanSource struct{ ch chan Event }

func NewChanSource() *ChanSource { return &ChanSource{ch: make(chan Event, 8)} }

func (c *ChanSource) Start(ctx context.Context) error { return nil }
func (c *ChanSource) Stop() error                     { return nil }
func (c *ChanSource) Events() <-chan Event            { return c.ch }

// Send queues ev, giving up when ctx ends first.
func (c *ChanSource) Send(ctx context.Context, ev Event) error {
	select {
	case c.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyEsc = 1
	keyF11 = 87

	keyPressed = 1
)

// DecodeKeyEvents parses a run of Linux input_event records and returns the
// root-level events among them. tvSize is the size of struct timeval on the
// reading platform; trailing partial records are ignored.
func DecodeKeyEvents(buf []byte, tvSize int) []Event {
	eventSize := tvSize + 2 + 2 + 4
	var out []Event
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != keyPressed {
			continue
		}
		switch code {
		case keyF11:
			out = append(out, ToggleFullscreen)
		case keyEsc:
			out = append(out, ExitFullscreen)
		}
	}
	return out
}
