package web

import (
	"context"
	"time"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/keybind"
	"github.com/rook-computer/crosshair/internal/state"
)

// ConfigStore is the part of state.Store the API drives.
type ConfigStore interface {
	Config() crosshair.Config
	UpdateConfig(p crosshair.Patch) crosshair.Config
	LoadConfig(cfg crosshair.Config)
	SavedConfigs() []crosshair.Config
	SaveConfig(cfg crosshair.Config) error
	DeleteConfig(id string) error
	FindSaved(id string) (crosshair.Config, bool)
	Keybinds() []crosshair.Keybind
	Keybind(id string) (crosshair.Keybind, bool)
	UpdateKeybind(id string, p crosshair.KeybindPatch) bool
	Snapshot() state.Snapshot
	Subscribe() (<-chan state.Snapshot, func())
}

// Logger matches the logging shape used across the app so callers can pass
// their existing logger without adapters.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

const defaultPushInterval = 50 * time.Millisecond

type APIV1Deps struct {
	Store    ConfigStore
	Recorder *keybind.Recorder
	Logger   Logger

	// PushInterval is the minimum spacing between two snapshots sent to one
	// WebSocket client. Intermediate snapshots are dropped.
	PushInterval time.Duration

	// Now stamps configurations saved from the current position.
	Now func() time.Time
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Store == nil {
		out.Store = state.NewStore(nil)
	}
	if out.Recorder == nil {
		out.Recorder = keybind.NewRecorder(out.Store)
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	if out.PushInterval <= 0 {
		out.PushInterval = defaultPushInterval
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}

type APIV1Handlers struct {
	// FullscreenFunc is called by POST /api/v1/fullscreen. Without it the
	// route answers 501.
	FullscreenFunc func(ctx context.Context, enabled bool) error
}

type APIV1Config struct {
	Handlers APIV1Handlers
	Deps     APIV1Deps
}
