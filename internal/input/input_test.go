package input_test

import (
	"context"
	"encoding/binary"
	"reflect"
	"testing"
	"time"

	"github.com/rook-computer/crosshair/internal/input"
)

const tvSize = 16

func record(typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestDecodeKeyEvents(t *testing.T) {
	var buf []byte
	buf = append(buf, record(0x01, 87, 1)...) // F11 down
	buf = append(buf, record(0x01, 87, 0)...) // F11 up
	buf = append(buf, record(0x00, 0, 0)...)  // SYN
	buf = append(buf, record(0x01, 1, 2)...)  // Esc repeat
	buf = append(buf, record(0x01, 1, 1)...)  // Esc down
	buf = append(buf, record(0x01, 62, 1)...) // F4 down
	buf = append(buf, record(0x01, 87, 1)[:10]...)

	got := input.DecodeKeyEvents(buf, tvSize)
	want := []input.Event{input.ToggleFullscreen, input.ExitFullscreen}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := input.DecodeKeyEvents(nil, tvSize); len(got) != 0 {
		t.Fatalf("expected no events, got %v", got)
	}
}

func TestChanSource(t *testing.T) {
	src := input.NewChanSource()
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := src.Send(context.Background(), input.ToggleFullscreen); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case ev := <-src.Events():
		if ev != input.ToggleFullscreen {
			t.Fatalf("unexpected event %v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 8; i++ {
		_ = src.Send(context.Background(), input.ExitFullscreen)
	}
	if err := src.Send(ctx, input.ExitFullscreen); err == nil {
		t.Fatal("expected Send on a full source to honor the cancelled context")
	}
}

func TestEvdevSourceWithoutDevices(t *testing.T) {
	src := input.NewEvdevSource(nil)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := src.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
