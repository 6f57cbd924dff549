package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/share"
)

type shareResponse struct {
	Code string `json:"code"`
	JSON string `json:"json"`
}

type shareImportRequest struct {
	Code string `json:"code"`
}

func (h *apiV1) getShare(w http.ResponseWriter, r *http.Request) {
	cfg := h.deps.Store.Config()
	code, err := share.EncodeShareCode(cfg)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	doc, err := share.EncodeJSON(cfg)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Code: code, JSON: string(doc)})
}

func (h *apiV1) shareQRCode(w http.ResponseWriter, r *http.Request) {
	size, err := imageSize(r, 0)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", err.Error())
		return
	}
	code, err := share.EncodeShareCode(h.deps.Store.Config())
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	data, err := render.ShareQRCodePNG(code, size)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writePNG(w, data)
}

// importShareCode accepts {"code": "..."} or the bare code as text/plain.
func (h *apiV1) importShareCode(w http.ResponseWriter, r *http.Request) {
	var code string
	if isJSON(r) {
		var req shareImportRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		code = req.Code
	} else {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		code = string(data)
	}

	cfg, err := share.DecodeShareCode(code)
	if err != nil {
		var decodeErr *share.DecodeError
		if errors.As(err, &decodeErr) {
			writeAPIError(w, http.StatusBadRequest, "invalid_share_code", decodeErr.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "import_failed", err.Error())
		return
	}
	h.deps.Store.LoadConfig(cfg)
	h.deps.Logger.Infof("web", "imported share code for %q", cfg.Name)
	writeJSON(w, http.StatusOK, cfg)
}

func (h *apiV1) exportJSON(w http.ResponseWriter, r *http.Request) {
	cfg := h.deps.Store.Config()
	doc, err := share.EncodeJSON(cfg)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": share.ExportFileName(cfg.Name)})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *apiV1) importJSON(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	cfg, err := share.DecodeJSON(data)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	h.deps.Store.LoadConfig(cfg)
	writeJSON(w, http.StatusOK, cfg)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "application/json")
}
