package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/rook-computer/crosshair/internal/geometry"
	"github.com/rook-computer/crosshair/internal/render"
)

type fullscreenRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *apiV1) previewPNG(w http.ResponseWriter, r *http.Request) {
	fullscreen, _ := strconv.ParseBool(r.URL.Query().Get("fullscreen"))
	view := render.View{Config: h.deps.Store.Config(), Fullscreen: fullscreen}

	h.renderMu.Lock()
	frame := h.canvas.Compose(view)
	h.renderMu.Unlock()

	data, err := render.EncodePNG(frame)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writePNG(w, data)
}

func (h *apiV1) previewHTML(w http.ResponseWriter, r *http.Request) {
	tree := render.BuildDOM(geometry.Resolve(h.deps.Store.Config()))
	var buf bytes.Buffer
	if err := tree.WriteHTML(&buf); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *apiV1) previewDOM(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.BuildDOM(geometry.Resolve(h.deps.Store.Config())))
}

func (h *apiV1) setFullscreen(w http.ResponseWriter, r *http.Request) {
	if h.handlers.FullscreenFunc == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "fullscreen not configured")
		return
	}
	var req fullscreenRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := h.handlers.FullscreenFunc(r.Context(), req.Enabled); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "fullscreen_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, req)
}
