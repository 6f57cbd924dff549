//go:build !linux

package input

import "context"

type Logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource has no devices to read outside Linux and never emits.
type EvdevSource struct {
	Logger Logger
	ch     chan Event
}

func NewEvdevSource(logger Logger) *EvdevSource {
	return &EvdevSource{Logger: logger, ch: make(chan Event)}
}

func (s *EvdevSource) Start(ctx context.Context) error {
	if s.Logger != nil {
		s.Logger.Infof("input", "keyboard input not supported on this platform")
	}
	return nil
}

func (s *EvdevSource) Stop() error          { return nil }
func (s *EvdevSource) Events() <-chan Event { return s.ch }
