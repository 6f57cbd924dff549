package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/input"
	"github.com/rook-computer/crosshair/internal/preset"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
)

// SimControl drives the simulator from HTTP: store scenarios, simulated key
// presses and access to the last rendered frame.
type SimControl struct {
	processCtx context.Context
	store      *state.Store
	keys       *input.ChanSource
	renderer   *render.ImageRenderer
}

func NewSimControl(processCtx context.Context, store *state.Store, keys *input.ChanSource, renderer *render.ImageRenderer) *SimControl {
	return &SimControl{processCtx: processCtx, store: store, keys: keys, renderer: renderer}
}

// ApplyScenario reshapes the saved collection:
//   - "" keeps whatever the store file holds
//   - "empty" removes every saved entry
//   - "catalog" saves every catalog design
//   - "corrupt" only matters before the store loads; see prepareStoreFile
func (c *SimControl) ApplyScenario(name string) error {
	switch name {
	case "", "corrupt":
		return nil
	case "empty":
		for _, cfg := range c.store.SavedConfigs() {
			if err := c.store.DeleteConfig(cfg.ID); err != nil {
				return err
			}
		}
		return nil
	case "catalog":
		for _, d := range preset.All() {
			if err := c.store.SaveConfig(d.Config); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
}

// Reset restores the default active configuration and leaves fullscreen.
func (c *SimControl) Reset() error {
	c.store.LoadConfig(crosshair.Default())
	return c.keys.Send(c.processCtx, input.ExitFullscreen)
}

// Press simulates a key press at the application root.
func (c *SimControl) Press(key string) error {
	var ev input.Event
	switch strings.ToLower(key) {
	case "f11":
		ev = input.ToggleFullscreen
	case "escape", "esc":
		ev = input.ExitFullscreen
	default:
		return fmt.Errorf("unsupported key %q", key)
	}
	return c.keys.Send(c.processCtx, ev)
}

// prepareStoreFile runs before the store loads. The "corrupt" scenario
// replaces the file with unparsable content so the empty-collection
// fallback can be exercised.
func prepareStoreFile(path, scenario string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if scenario != "corrupt" {
		return nil
	}
	return os.WriteFile(path, []byte("{\"crosshair-configs\": [{\"id\": "), 0o644)
}

func registerSimEndpoints(r chi.Router, control *SimControl) {
	r.Route("/sim", func(r chi.Router) {
		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			if err := control.Reset(); err != nil {
				writeSimError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Post("/scenario/{name}", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			if err := control.ApplyScenario(name); err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, map[string]string{"scenario": name})
		})
		r.Post("/key/{key}", func(w http.ResponseWriter, r *http.Request) {
			if err := control.Press(chi.URLParam(r, "key")); err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeSimJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
		})
		r.Get("/frame.png", func(w http.ResponseWriter, r *http.Request) {
			frame := control.renderer.Last()
			if frame == nil {
				writeSimError(w, http.StatusNotFound, "no frame rendered yet")
				return
			}
			data, err := render.EncodePNG(frame)
			if err != nil {
				writeSimError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]string{"error": message})
}
