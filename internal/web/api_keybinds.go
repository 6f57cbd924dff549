package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/keybind"
)

type recordingResponse struct {
	Recording bool   `json:"recording"`
	ID        string `json:"id,omitempty"`
}

func (h *apiV1) listKeybinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Store.Keybinds())
}

func (h *apiV1) patchKeybind(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch crosshair.KeybindPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_patch", err.Error())
		return
	}
	if !h.deps.Store.UpdateKeybind(id, patch) {
		writeAPIError(w, http.StatusNotFound, "not_found", keybind.ErrUnknownKeybind.Error())
		return
	}
	kb, _ := h.deps.Store.Keybind(id)
	writeJSON(w, http.StatusOK, kb)
}

func (h *apiV1) recordingStatus(w http.ResponseWriter, r *http.Request) {
	id, active := h.deps.Recorder.Active()
	writeJSON(w, http.StatusOK, recordingResponse{Recording: active, ID: id})
}

func (h *apiV1) startRecording(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.deps.Recorder.Start(id); err != nil {
		if errors.Is(err, keybind.ErrUnknownKeybind) {
			writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "record_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recordingResponse{Recording: true, ID: id})
}

func (h *apiV1) cancelRecording(w http.ResponseWriter, r *http.Request) {
	h.deps.Recorder.Cancel()
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// captureKey feeds one key press to the recorder. A press that completes a
// combo answers with the updated keybind; a bare modifier answers 202 and
// recording continues.
func (h *apiV1) captureKey(w http.ResponseWriter, r *http.Request) {
	var ev keybind.KeyEvent
	if err := decodeBody(w, r, &ev); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_key_event", err.Error())
		return
	}
	if kb, ok := h.deps.Recorder.Capture(ev); ok {
		writeJSON(w, http.StatusOK, kb)
		return
	}
	id, active := h.deps.Recorder.Active()
	if !active {
		writeAPIError(w, http.StatusConflict, "not_recording", "no keybind is recording")
		return
	}
	writeJSON(w, http.StatusAccepted, recordingResponse{Recording: true, ID: id})
}
