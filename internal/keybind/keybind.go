// Package keybind normalizes captured key presses into combo strings and
// runs the explicit record/cancel cycle that writes them into the keybind
// list.
package keybind

import (
	"errors"
	"strings"
	"sync"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

var ErrUnknownKeybind = errors.New("unknown keybind")

// KeyEvent is one key press as reported by the capturing control.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
	Meta  bool   `json:"meta"`
}

const separator = " + "

var modifierKeys = map[string]bool{
	"Control":  true,
	"Ctrl":     true,
	"Alt":      true,
	"AltGraph": true,
	"Shift":    true,
	"Meta":     true,
}

// Combo returns the normalized combo for ev: the held modifiers in the order
// Ctrl, Alt, Shift, then the uppercased base key. It reports false when the
// event carries no base key.
func Combo(ev KeyEvent) (string, bool) {
	key := ev.Key
	if key == " " {
		key = "Space"
	}
	key = strings.TrimSpace(key)
	if key == "" || modifierKeys[key] {
		return "", false
	}

	parts := make([]string, 0, 4)
	if ev.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if ev.Alt {
		parts = append(parts, "Alt")
	}
	if ev.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, strings.ToUpper(key))
	return strings.Join(parts, separator), true
}

// Updater is the part of the configuration store the recorder writes to.
type Updater interface {
	Keybind(id string) (crosshair.Keybind, bool)
	UpdateKeybind(id string, p crosshair.KeybindPatch) bool
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Recorder holds the capture state. At most one keybind records at a time;
// starting another one replaces the target.
type Recorder struct {
	mu     sync.Mutex
	store  Updater
	target string
	active bool
	Logger Logger
}

func NewRecorder(store Updater) *Recorder {
	return &Recorder{store: store}
}

// Start enters recording for the keybind with id.
func (r *Recorder) Start(id string) error {
	if _, ok := r.store.Keybind(id); !ok {
		return ErrUnknownKeybind
	}
	r.mu.Lock()
	r.target = id
	r.active = true
	r.mu.Unlock()
	r.infof("recording keybind %s", id)
	return nil
}

// Cancel leaves recording without changing anything.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	wasActive := r.active
	r.target = ""
	r.active = false
	r.mu.Unlock()
	if wasActive {
		r.infof("recording cancelled")
	}
}

// Active returns the keybind id being recorded.
func (r *Recorder) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target, r.active
}

// Capture feeds one key press to the recorder. A valid combo is written to
// the target keybind and ends recording. Events without a base key are
// ignored and recording continues.
func (r *Recorder) Capture(ev KeyEvent) (crosshair.Keybind, bool) {
	combo, ok := Combo(ev)
	if !ok {
		return crosshair.Keybind{}, false
	}

	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return crosshair.Keybind{}, false
	}
	id := r.target
	r.target = ""
	r.active = false
	r.mu.Unlock()

	if !r.store.UpdateKeybind(id, crosshair.KeybindPatch{Key: &combo}) {
		// Keybind list entries are fixed, so this only happens with a
		// store that was swapped under the recorder.
		if r.Logger != nil {
			r.Logger.Errorf("keybind", "keybind %s vanished while recording", id)
		}
		return crosshair.Keybind{}, false
	}
	kb, _ := r.store.Keybind(id)
	r.infof("keybind %s set to %q", id, combo)
	return kb, true
}

func (r *Recorder) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof("keybind", format, args...)
	}
}
