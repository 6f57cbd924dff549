package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/crosshair/internal/preset"
	"github.com/rook-computer/crosshair/internal/render"
)

const (
	minImageSizePx = 16
	maxImageSizePx = 1024
)

func (h *apiV1) listPresets(w http.ResponseWriter, r *http.Request) {
	order, err := preset.ParseOrder(r.URL.Query().Get("sort"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}
	designs := preset.Filter(preset.All(), r.URL.Query().Get("tag"))
	writeJSON(w, http.StatusOK, preset.SortBy(designs, order))
}

func (h *apiV1) applyPreset(w http.ResponseWriter, r *http.Request) {
	cfg, err := preset.Apply(h.deps.Store, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, preset.ErrUnknownPreset) {
			writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "apply_failed", err.Error())
		return
	}
	h.deps.Logger.Infof("web", "applied preset %s", cfg.ID)
	writeJSON(w, http.StatusOK, cfg)
}

func (h *apiV1) presetThumbnail(w http.ResponseWriter, r *http.Request) {
	d, ok := preset.Find(chi.URLParam(r, "id"))
	if !ok {
		writeAPIError(w, http.StatusNotFound, "not_found", preset.ErrUnknownPreset.Error())
		return
	}
	size, err := imageSize(r, 0)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", err.Error())
		return
	}
	data, err := render.EncodePNG(render.Thumbnail(d.Config, size))
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writePNG(w, data)
}

// imageSize reads the optional ?size= query parameter. fallback is returned
// when it is absent.
func imageSize(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("size")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < minImageSizePx || n > maxImageSizePx {
		return 0, errors.New("size must be between " + strconv.Itoa(minImageSizePx) + " and " + strconv.Itoa(maxImageSizePx))
	}
	return n, nil
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
