package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/preset"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/share"
)

const (
	maxBodyBytes     = 1 << 20
	maxWorkbookBytes = 8 << 20
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type apiV1 struct {
	deps     APIV1Deps
	handlers APIV1Handlers

	// Font faces are not safe for concurrent use.
	renderMu sync.Mutex
	canvas   *render.Canvas
}

func apiV1Router(cfg APIV1Config) http.Handler {
	h := &apiV1{
		deps:     cfg.Deps.withDefaults(),
		handlers: cfg.Handlers,
	}
	h.canvas = render.NewCanvas(h.deps.Logger)

	r := chi.NewRouter()

	r.Get("/config", h.getConfig)
	r.Patch("/config", h.patchConfig)
	r.Post("/config/load", h.loadConfig)
	r.Post("/config/reset-position", h.resetPosition)

	r.Get("/positions", h.listPositions)
	r.Post("/positions/{id}/apply", h.applyPosition)

	r.Get("/configs", h.listSaved)
	r.Post("/configs", h.saveConfig)
	r.Post("/configs/current", h.saveCurrent)
	r.Get("/configs/export.xlsx", h.exportWorkbook)
	r.Post("/configs/import.xlsx", h.importWorkbook)
	r.Delete("/configs/{id}", h.deleteSaved)
	r.Post("/configs/{id}/load", h.loadSaved)

	r.Get("/keybinds", h.listKeybinds)
	r.Get("/keybinds/record", h.recordingStatus)
	r.Delete("/keybinds/record", h.cancelRecording)
	r.Post("/keybinds/record/key", h.captureKey)
	r.Patch("/keybinds/{id}", h.patchKeybind)
	r.Post("/keybinds/{id}/record", h.startRecording)

	r.Get("/presets", h.listPresets)
	r.Post("/presets/{id}/apply", h.applyPreset)
	r.Get("/presets/{id}/thumbnail.png", h.presetThumbnail)

	r.Get("/share", h.getShare)
	r.Get("/share/qr.png", h.shareQRCode)
	r.Post("/share/import", h.importShareCode)
	r.Get("/export", h.exportJSON)
	r.Post("/import", h.importJSON)

	r.Get("/preview.png", h.previewPNG)
	r.Get("/preview.html", h.previewHTML)
	r.Get("/preview/dom", h.previewDOM)
	r.Post("/fullscreen", h.setFullscreen)

	r.Get("/ws", h.handleWS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

func (h *apiV1) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Store.Config())
}

func (h *apiV1) patchConfig(w http.ResponseWriter, r *http.Request) {
	var patch crosshair.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_patch", err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_patch", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Store.UpdateConfig(patch))
}

func (h *apiV1) loadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.readConfig(w, r, crosshair.Default())
	if !ok {
		return
	}
	h.deps.Store.LoadConfig(cfg)
	writeJSON(w, http.StatusOK, cfg)
}

func (h *apiV1) resetPosition(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preset.ResetPosition(h.deps.Store))
}

func (h *apiV1) listPositions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preset.Positions())
}

func (h *apiV1) applyPosition(w http.ResponseWriter, r *http.Request) {
	cfg, err := preset.ApplyPosition(h.deps.Store, chi.URLParam(r, "id"))
	if errors.Is(err, preset.ErrUnknownPosition) {
		writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *apiV1) listSaved(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Store.SavedConfigs())
}

func (h *apiV1) saveConfig(w http.ResponseWriter, r *http.Request) {
	base := crosshair.Default()
	base.ID = ""
	cfg, ok := h.readConfig(w, r, base)
	if !ok {
		return
	}
	if cfg.ID == "" {
		cfg.ID = crosshair.NewID()
	}
	h.persist(w, cfg)
}

// saveCurrent stores the active configuration as a new entry named after
// its rounded position.
func (h *apiV1) saveCurrent(w http.ResponseWriter, r *http.Request) {
	cfg := h.deps.Store.Config()
	cfg.ID = fmt.Sprintf("position_%d", h.deps.Now().UnixMilli())
	cfg.Name = fmt.Sprintf("Position %s,%s", wholeNumber(cfg.Position.X), wholeNumber(cfg.Position.Y))
	h.persist(w, cfg)
}

func (h *apiV1) persist(w http.ResponseWriter, cfg crosshair.Config) {
	if err := h.deps.Store.SaveConfig(cfg); err != nil {
		h.deps.Logger.Errorf("web", "save %s: %v", cfg.ID, err)
		writeAPIError(w, http.StatusInternalServerError, "persist_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

func (h *apiV1) deleteSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.deps.Store.DeleteConfig(id); err != nil {
		h.deps.Logger.Errorf("web", "delete %s: %v", id, err)
		writeAPIError(w, http.StatusInternalServerError, "persist_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *apiV1) loadSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg, ok := h.deps.Store.FindSaved(id)
	if !ok {
		writeAPIError(w, http.StatusNotFound, "not_found", "no saved config "+strconv.Quote(id))
		return
	}
	h.deps.Store.LoadConfig(cfg)
	writeJSON(w, http.StatusOK, cfg)
}

func (h *apiV1) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := share.WriteWorkbook(&buf, h.deps.Store.SavedConfigs()); err != nil {
		h.deps.Logger.Errorf("web", "export workbook: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="crosshairs.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// importWorkbook saves every row of an uploaded workbook. Rows without an
// id get a fresh one; rows whose id is already saved replace that entry.
func (h *apiV1) importWorkbook(w http.ResponseWriter, r *http.Request) {
	configs, err := share.ReadWorkbook(http.MaxBytesReader(w, r.Body, maxWorkbookBytes))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
		return
	}
	for i := range configs {
		if configs[i].ID == "" {
			configs[i].ID = crosshair.NewID()
		}
		if err := h.deps.Store.SaveConfig(configs[i]); err != nil {
			h.deps.Logger.Errorf("web", "import %s: %v", configs[i].ID, err)
			writeAPIError(w, http.StatusInternalServerError, "persist_failed", err.Error())
			return
		}
	}
	h.deps.Logger.Infof("web", "imported %d configs from workbook", len(configs))
	writeJSON(w, http.StatusOK, configs)
}

// readConfig decodes a whole configuration from the request body onto base
// and answers 400 itself when the body is not one.
func (h *apiV1) readConfig(w http.ResponseWriter, r *http.Request, base crosshair.Config) (crosshair.Config, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return crosshair.Config{}, false
	}
	cfg, err := share.DecodeJSONOnto(base, data)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return crosshair.Config{}, false
	}
	return cfg, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func wholeNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
