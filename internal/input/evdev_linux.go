//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const DefaultDeviceGlob = "/dev/input/event*"

type Logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource watches Linux evdev devices for F11 and Escape.
//
// It is best-effort: without readable input devices it logs and never
// emits.
type EvdevSource struct {
	Glob   string
	Logger Logger

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewEvdevSource(logger Logger) *EvdevSource {
	return &EvdevSource{Glob: DefaultDeviceGlob, Logger: logger, ch: make(chan Event, 8)}
}

func (s *EvdevSource) Events() <-chan Event { return s.ch }

func (s *EvdevSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	paths, err := filepath.Glob(s.Glob)
	if err != nil || len(paths) == 0 {
		s.infof("no evdev devices found under %s", s.Glob)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, path := range paths {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.watch(ctx, path)
		}()
	}
	s.infof("watching %d input devices", len(paths))
	return nil
}

func (s *EvdevSource) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
	return nil
}

func (s *EvdevSource) watch(ctx context.Context, path string) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range DecodeKeyEvents(buf[:n], tvSize) {
			select {
			case s.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *EvdevSource) infof(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Infof("input", format, args...)
	}
}
