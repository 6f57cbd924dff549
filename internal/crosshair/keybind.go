package crosshair

import "fmt"

type Action string

const (
	ActionToggle   Action = "toggle"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionReset    Action = "reset"
	ActionSave     Action = "save"
	ActionLoad     Action = "load"
)

var actions = []Action{ActionToggle, ActionNext, ActionPrevious, ActionReset, ActionSave, ActionLoad}

func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

func (a Action) Valid() bool {
	for _, known := range actions {
		if a == known {
			return true
		}
	}
	return false
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed := Action(text)
	if !parsed.Valid() {
		return fmt.Errorf("unknown action %q", string(text))
	}
	*a = parsed
	return nil
}

type Keybind struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Key     string `json:"key"`
	Action  Action `json:"action"`
	Enabled bool   `json:"enabled"`
}

type KeybindPatch struct {
	Name    *string `json:"name,omitempty"`
	Key     *string `json:"key,omitempty"`
	Action  *Action `json:"action,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// MergeKeybind applies the present fields of p to kb. The id never changes.
func MergeKeybind(kb Keybind, p KeybindPatch) Keybind {
	out := kb
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Key != nil {
		out.Key = *p.Key
	}
	if p.Action != nil {
		out.Action = *p.Action
	}
	if p.Enabled != nil {
		out.Enabled = *p.Enabled
	}
	return out
}

// DefaultKeybinds is the fixed keybind list.
func DefaultKeybinds() []Keybind {
	return []Keybind{
		{ID: "1", Name: "Toggle Crosshair", Key: "Alt + C", Action: ActionToggle, Enabled: true},
		{ID: "2", Name: "Next Crosshair", Key: "Alt + N", Action: ActionNext, Enabled: true},
		{ID: "3", Name: "Previous Crosshair", Key: "Alt + P", Action: ActionPrevious, Enabled: true},
		{ID: "4", Name: "Reset Position", Key: "Alt + R", Action: ActionReset, Enabled: true},
	}
}
