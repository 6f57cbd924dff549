package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/storage"
	"github.com/rook-computer/crosshair/internal/web"
)

type failingKV struct{ storage.MemoryKV }

func (*failingKV) Set(string, []byte) error { return errors.New("disk full") }

func newTestServer(t *testing.T, store *state.Store, handlers web.APIV1Handlers) *httptest.Server {
	t.Helper()
	if store == nil {
		store = state.NewStore(storage.NewMemoryKV(), state.WithClamp(crosshair.DefaultLimits))
	}
	cfg := web.APIV1Config{
		Handlers: handlers,
		Deps: web.APIV1Deps{
			Store:        store,
			PushInterval: time.Millisecond,
			Now:          func() time.Time { return time.UnixMilli(1700000000000) },
		},
	}
	ui := fstest.MapFS{"index.html": {Data: []byte("<html>editor</html>")}}
	srv := httptest.NewServer(web.NewRouter(cfg, ui))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType string, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	return do(t, method, url, "application/json", body)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d", status, resp.StatusCode)
	}
	if got := decode[apiError](t, resp); got.Error != code {
		t.Fatalf("expected error %q, got %+v", code, got)
	}
}

func TestPatchConfig(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV(), state.WithClamp(crosshair.DefaultLimits))
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"color":"#ff0000","thickness":4,"opacity":250}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cfg := decode[crosshair.Config](t, resp)
	if cfg.Color != "#ff0000" || cfg.Thickness != 4 || cfg.Opacity != 100 {
		t.Fatalf("unexpected patched config %+v", cfg)
	}
	if cfg.Length != crosshair.Default().Length {
		t.Fatal("absent fields must stay untouched")
	}

	got := decode[crosshair.Config](t, do(t, http.MethodGet, srv.URL+"/api/v1/config", "", ""))
	if got != store.Config() || got.Color != "#ff0000" {
		t.Fatalf("GET disagrees with store: %+v", got)
	}

	expectError(t, doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"shape":"hexagon"}`), http.StatusBadRequest, "invalid_patch")
	expectError(t, doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"color":`), http.StatusBadRequest, "invalid_patch")
	expectError(t, doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"color":"red","thickness":9}`), http.StatusBadRequest, "invalid_patch")
	expectError(t, doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"outlineColor":"#12"}`), http.StatusBadRequest, "invalid_patch")
	if got := store.Config(); got.Shape != crosshair.ShapeCross || got.Color != "#ff0000" || got.Thickness != 4 || got.OutlineColor != crosshair.Default().OutlineColor {
		t.Fatalf("rejected patch must not change the store, got %+v", got)
	}
}

func TestLoadAndResetPosition(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/config/load", `{"id":"x","name":"Loaded","shape":"dot","scale":3,"rotation":90,"position":{"x":10,"y":20}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cfg := store.Config(); cfg.ID != "x" || cfg.Shape != crosshair.ShapeDot || cfg.Color != crosshair.Default().Color {
		t.Fatalf("unexpected loaded config %+v", cfg)
	}
	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/config/load", `{"id":"y","color":"blue"}`), http.StatusBadRequest, "invalid_config")
	if store.Config().ID != "x" {
		t.Fatal("rejected load must not change the store")
	}

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/config/reset-position", "", "")
	cfg := decode[crosshair.Config](t, resp)
	if cfg.Position != (crosshair.Position{X: 50, Y: 50}) || cfg.Scale != 1 || cfg.Rotation != 0 || cfg.Shape != crosshair.ShapeDot {
		t.Fatalf("unexpected reset config %+v", cfg)
	}

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/positions/bottom-left/apply", "", "")
	if cfg := decode[crosshair.Config](t, resp); cfg.Position != (crosshair.Position{X: 25, Y: 75}) {
		t.Fatalf("unexpected position %+v", cfg.Position)
	}
	expectError(t, do(t, http.MethodPost, srv.URL+"/api/v1/positions/nowhere/apply", "", ""), http.StatusNotFound, "not_found")

	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/config/load", `[1]`), http.StatusBadRequest, "invalid_config")
}

func TestSavedConfigs(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/configs", `{"name":"Mine","color":"#123456"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	saved := decode[crosshair.Config](t, resp)
	if saved.ID == "" || saved.ID == crosshair.Default().ID {
		t.Fatalf("expected a fresh id, got %q", saved.ID)
	}
	if saved.Thickness != crosshair.Default().Thickness {
		t.Fatal("missing fields must take their defaults")
	}

	// Same id replaces in place.
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/configs", `{"id":"`+saved.ID+`","name":"Renamed"}`)
	list := decode[[]crosshair.Config](t, do(t, http.MethodGet, srv.URL+"/api/v1/configs", "", ""))
	if len(list) != 1 || list[0].Name != "Renamed" {
		t.Fatalf("unexpected saved list %+v", list)
	}

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/configs/"+saved.ID+"/load", "", "")
	if resp.StatusCode != http.StatusOK || store.Config().Name != "Renamed" {
		t.Fatalf("load failed: %d %+v", resp.StatusCode, store.Config())
	}
	expectError(t, do(t, http.MethodPost, srv.URL+"/api/v1/configs/missing/load", "", ""), http.StatusNotFound, "not_found")

	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/configs/missing", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("deleting an unknown id must succeed, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/configs/"+saved.ID, "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(store.SavedConfigs()) != 0 {
		t.Fatalf("expected empty collection, got %+v", store.SavedConfigs())
	}
}

func TestSaveCurrentPosition(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	store.UpdateConfig(crosshair.Patch{Position: &crosshair.Position{X: 33.4, Y: 66.6}})
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/configs/current", "", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	cfg := decode[crosshair.Config](t, resp)
	if cfg.ID != "position_1700000000000" || cfg.Name != "Position 33,67" {
		t.Fatalf("unexpected entry %q %q", cfg.ID, cfg.Name)
	}
	if _, ok := store.FindSaved(cfg.ID); !ok {
		t.Fatal("entry not saved")
	}
}

func TestSavePersistFailure(t *testing.T) {
	store := state.NewStore(&failingKV{})
	srv := newTestServer(t, store, web.APIV1Handlers{})

	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/configs", `{"id":"a"}`), http.StatusInternalServerError, "persist_failed")
	if _, ok := store.FindSaved("a"); !ok {
		t.Fatal("in-memory save must stay applied")
	}
}

func TestWorkbookExportImport(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	for _, id := range []string{"a", "b"} {
		cfg := crosshair.Default()
		cfg.ID = id
		cfg.Name = "Design " + id
		if err := store.SaveConfig(cfg); err != nil {
			t.Fatalf("SaveConfig: %v", err)
		}
	}
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/configs/export.xlsx", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Header.Get("Content-Disposition"), "crosshairs.xlsx") {
		t.Fatalf("unexpected export response %d %v", resp.StatusCode, resp.Header)
	}
	workbook, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}

	store.DeleteConfig("a")
	store.DeleteConfig("b")
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/configs/import.xlsx", "application/octet-stream", string(workbook))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if saved := store.SavedConfigs(); len(saved) != 2 || saved[1].Name != "Design b" {
		t.Fatalf("unexpected imported collection %+v", saved)
	}

	expectError(t, do(t, http.MethodPost, srv.URL+"/api/v1/configs/import.xlsx", "application/octet-stream", "nope"), http.StatusBadRequest, "invalid_workbook")
}

type recording struct {
	Recording bool   `json:"recording"`
	ID        string `json:"id"`
}

func TestKeybinds(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/keybinds/2", `{"enabled":false}`)
	if kb := decode[crosshair.Keybind](t, resp); kb.ID != "2" || kb.Enabled {
		t.Fatalf("unexpected keybind %+v", kb)
	}
	before := store.Keybinds()
	expectError(t, doJSON(t, http.MethodPatch, srv.URL+"/api/v1/keybinds/99", `{"enabled":false}`), http.StatusNotFound, "not_found")
	if after := store.Keybinds(); len(after) != len(before) || after[3] != before[3] {
		t.Fatal("unknown keybind must leave the list unchanged")
	}

	expectError(t, do(t, http.MethodPost, srv.URL+"/api/v1/keybinds/99/record", "", ""), http.StatusNotFound, "not_found")
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/keybinds/1/record", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if st := decode[recording](t, do(t, http.MethodGet, srv.URL+"/api/v1/keybinds/record", "", "")); !st.Recording || st.ID != "1" {
		t.Fatalf("unexpected recording status %+v", st)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/keybinds/record/key", `{"key":"Shift","shift":true}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("bare modifier must keep recording, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/keybinds/record/key", `{"key":"k","ctrl":true,"shift":true}`)
	if kb := decode[crosshair.Keybind](t, resp); kb.Key != "Ctrl + Shift + K" {
		t.Fatalf("unexpected captured key %q", kb.Key)
	}
	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/keybinds/record/key", `{"key":"x"}`), http.StatusConflict, "not_recording")

	do(t, http.MethodPost, srv.URL+"/api/v1/keybinds/3/record", "", "")
	do(t, http.MethodDelete, srv.URL+"/api/v1/keybinds/record", "", "")
	if st := decode[recording](t, do(t, http.MethodGet, srv.URL+"/api/v1/keybinds/record", "", "")); st.Recording {
		t.Fatal("expected recording to be cancelled")
	}
	if kb, _ := store.Keybind("3"); kb.Key != "Alt + P" {
		t.Fatalf("cancel must not change the key, got %q", kb.Key)
	}
}

type design struct {
	ID     string           `json:"id"`
	Rating float64          `json:"rating"`
	Config crosshair.Config `json:"config"`
}

func TestPresets(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	designs := decode[[]design](t, do(t, http.MethodGet, srv.URL+"/api/v1/presets?sort=rating", "", ""))
	if len(designs) != 6 || designs[0].ID != "apex-dot" {
		t.Fatalf("unexpected catalog order %+v", designs)
	}
	if tactical := decode[[]design](t, do(t, http.MethodGet, srv.URL+"/api/v1/presets?tag=Tactical", "", "")); len(tactical) != 2 {
		t.Fatalf("expected 2 tactical designs, got %d", len(tactical))
	}
	expectError(t, do(t, http.MethodGet, srv.URL+"/api/v1/presets?sort=random", "", ""), http.StatusBadRequest, "invalid_sort")

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/presets/tactical-square/apply", "", "")
	if cfg := decode[crosshair.Config](t, resp); cfg.Rotation != 45 || store.Config().Shape != crosshair.ShapeSquare {
		t.Fatalf("unexpected applied config %+v", cfg)
	}
	expectError(t, do(t, http.MethodPost, srv.URL+"/api/v1/presets/missing/apply", "", ""), http.StatusNotFound, "not_found")

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/presets/apex-dot/thumbnail.png?size=64", "", "")
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("unexpected thumbnail size %v", b)
	}
	expectError(t, do(t, http.MethodGet, srv.URL+"/api/v1/presets/apex-dot/thumbnail.png?size=4", "", ""), http.StatusBadRequest, "invalid_size")
	expectError(t, do(t, http.MethodGet, srv.URL+"/api/v1/presets/missing/thumbnail.png", "", ""), http.StatusNotFound, "not_found")
}

type shareResponse struct {
	Code string `json:"code"`
	JSON string `json:"json"`
}

func TestShareCodeRoundTrip(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	store.UpdateConfig(crosshair.Patch{Name: crosshair.Ptr("Shared"), Color: crosshair.Ptr("#abcdef")})
	want := store.Config()
	srv := newTestServer(t, store, web.APIV1Handlers{})

	sh := decode[shareResponse](t, do(t, http.MethodGet, srv.URL+"/api/v1/share", "", ""))
	if !strings.HasPrefix(sh.Code, "CROSSHAIR_") || !strings.Contains(sh.JSON, "\n  \"name\": \"Shared\"") {
		t.Fatalf("unexpected share response %+v", sh)
	}

	store.LoadConfig(crosshair.Default())
	body, _ := json.Marshal(map[string]string{"code": sh.Code})
	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/share/import", string(body)); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.Config() != want {
		t.Fatalf("import mismatch %+v", store.Config())
	}

	store.LoadConfig(crosshair.Default())
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/share/import", "text/plain", sh.Code+"\n"); resp.StatusCode != http.StatusOK {
		t.Fatalf("plain text import: expected 200, got %d", resp.StatusCode)
	}
	if store.Config() != want {
		t.Fatal("plain text import mismatch")
	}

	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/share/import", `{"code":"hello"}`), http.StatusBadRequest, "invalid_share_code")
	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/share/import", `{"code":"CROSSHAIR_!!"}`), http.StatusBadRequest, "invalid_share_code")
	if store.Config() != want {
		t.Fatal("failed import must leave the active config alone")
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/share/qr.png?size=128", "", "")
	if _, err := png.Decode(resp.Body); err != nil {
		t.Fatalf("decode qr: %v", err)
	}
}

func TestExportImportJSON(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/export", "", "")
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Default_Crosshair.json") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	store.UpdateConfig(crosshair.Patch{Thickness: crosshair.Ptr(9)})
	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/import", string(doc)); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.Config() != crosshair.Default() {
		t.Fatalf("import mismatch %+v", store.Config())
	}
	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/import", `"text"`), http.StatusBadRequest, "invalid_config")
}

func TestPreviewRoutes(t *testing.T) {
	srv := newTestServer(t, nil, web.APIV1Handlers{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/preview.png", "", "")
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != render.ViewportWidth || b.Dy() != render.ViewportHeight+render.PanelHeight {
		t.Fatalf("unexpected preview size %v", b)
	}
	resp = do(t, http.MethodGet, srv.URL+"/api/v1/preview.png?fullscreen=true", "", "")
	if img, err = png.Decode(resp.Body); err != nil || img.Bounds().Dx() != render.FullscreenWidth {
		t.Fatalf("unexpected fullscreen preview: %v", err)
	}

	tree := decode[render.DOMTree](t, do(t, http.MethodGet, srv.URL+"/api/v1/preview/dom", "", ""))
	if len(tree.Elements) != 8 || !strings.Contains(tree.Container, "translate(-50%, -50%)") {
		t.Fatalf("unexpected DOM tree %+v", tree)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/preview.html", "", "")
	page, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(page, []byte("<!DOCTYPE html>")) || bytes.Count(page, []byte(`class="rect `)) != 8 {
		t.Fatalf("unexpected preview page:\n%s", page)
	}
}

func TestFullscreen(t *testing.T) {
	srv := newTestServer(t, nil, web.APIV1Handlers{})
	expectError(t, doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", `{"enabled":true}`), http.StatusNotImplemented, "not_implemented")

	var got []bool
	srv = newTestServer(t, nil, web.APIV1Handlers{FullscreenFunc: func(ctx context.Context, enabled bool) error {
		got = append(got, enabled)
		return nil
	}})
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", `{"enabled":true}`)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", `{"enabled":false}`)
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("unexpected fullscreen calls %v", got)
	}
}

func TestUnknownRouteAndUI(t *testing.T) {
	srv := newTestServer(t, nil, web.APIV1Handlers{})
	expectError(t, do(t, http.MethodGet, srv.URL+"/api/v1/nope", "", ""), http.StatusNotFound, "not_found")
	expectError(t, do(t, http.MethodPut, srv.URL+"/api/v1/config", "", ""), http.StatusMethodNotAllowed, "method_not_allowed")

	resp := do(t, http.MethodGet, srv.URL+"/", "", "")
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "<html>editor</html>" {
		t.Fatalf("unexpected UI body %q", body)
	}
}

func TestEmbeddedEditor(t *testing.T) {
	srv := httptest.NewServer(web.NewRouter(web.APIV1Config{}, nil))
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/", "", "")
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("Crosshair Designer")) {
		t.Fatal("expected the embedded editor page")
	}
	if resp := do(t, http.MethodGet, srv.URL+"/static/editor.js", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected editor script, got %d", resp.StatusCode)
	}
}

func TestDevCORS(t *testing.T) {
	h := web.WithDevCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/config", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected preflight %d %v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	if rec.Code != http.StatusTeapot || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected passthrough %d %v", rec.Code, rec.Header())
	}
}

func TestHTTPServerLifecycle(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := web.NewHTTPServer("127.0.0.1:0", web.APIV1Config{Deps: web.APIV1Deps{Store: store}})
	if err := srv.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	addr := srv.ListenAddr()
	if addr == nil {
		t.Fatal("expected a bound address")
	}

	resp := do(t, http.MethodGet, "http://"+addr.String()+"/api/v1/config", "", "")
	if cfg := decode[crosshair.Config](t, resp); cfg != store.Config() {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if err := srv.Start(t.Context()); err == nil {
		t.Fatal("expected Start after Stop to fail")
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(web.EnvListenAddr, "")
	t.Setenv(web.EnvDevMode, "")
	t.Setenv(web.EnvStorePath, "")
	cfg, err := web.DefaultServerConfigFromEnv(":8080", "store.json")
	if err != nil {
		t.Fatalf("DefaultServerConfigFromEnv: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.DevMode || cfg.StorePath != "store.json" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	t.Setenv(web.EnvListenAddr, ":9000")
	t.Setenv(web.EnvDevMode, "true")
	t.Setenv(web.EnvStorePath, "/tmp/x.json")
	cfg, err = web.DefaultServerConfigFromEnv(":8080", "store.json")
	if err != nil || cfg.ListenAddr != ":9000" || !cfg.DevMode || cfg.StorePath != "/tmp/x.json" {
		t.Fatalf("unexpected env config %+v %v", cfg, err)
	}

	t.Setenv(web.EnvDevMode, "sometimes")
	if _, err := web.DefaultServerConfigFromEnv(":8080", "store.json"); err == nil {
		t.Fatal("expected a parse error")
	}
}
