package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/storage"
	"github.com/rook-computer/crosshair/internal/web"
)

type wsSnapshot struct {
	Type    string `json:"type"`
	Payload struct {
		Version   uint64              `json:"version"`
		Config    crosshair.Config    `json:"config"`
		Keybinds  []crosshair.Keybind `json:"keybinds"`
		Saved     []crosshair.Config  `json:"savedConfigs"`
		DOM       render.DOMTree      `json:"dom"`
		Recording recording           `json:"recording"`
	} `json:"payload"`
}

func dialWS(t *testing.T, srv *httptest.Server, path string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func readSnapshot(t *testing.T, conn *websocket.Conn) wsSnapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsSnapshot
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != "snapshot" {
		t.Fatalf("expected snapshot message, got %q", msg.Type)
	}
	return msg
}

// readUntil reads snapshots until match accepts one. Intermediate snapshots
// may be collapsed, so only the final state is asserted.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsSnapshot) bool) wsSnapshot {
	t.Helper()
	for i := 0; i < 50; i++ {
		msg := readSnapshot(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("no matching snapshot")
	return wsSnapshot{}
}

func TestWSInitialSnapshot(t *testing.T) {
	srv := newTestServer(t, nil, web.APIV1Handlers{})

	conn, _, err := dialWS(t, srv, "/api/v1/ws")
	if err != nil {
		t.Fatalf("WS dial: %v", err)
	}
	defer conn.Close()

	msg := readSnapshot(t, conn)
	if msg.Payload.Config != crosshair.Default() {
		t.Fatalf("unexpected initial config %+v", msg.Payload.Config)
	}
	if len(msg.Payload.Keybinds) != 4 || msg.Payload.Saved == nil {
		t.Fatalf("unexpected initial lists %+v", msg.Payload)
	}
	if len(msg.Payload.DOM.Elements) != 8 {
		t.Fatalf("expected 8 DOM elements, got %d", len(msg.Payload.DOM.Elements))
	}
}

func TestWSStreamsMutations(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	conn, _, err := dialWS(t, srv, "/api/v1/ws")
	if err != nil {
		t.Fatalf("WS dial: %v", err)
	}
	defer conn.Close()
	first := readSnapshot(t, conn)

	for _, color := range []string{"#111111", "#222222", "#333333"} {
		doJSON(t, http.MethodPatch, srv.URL+"/api/v1/config", `{"color":"`+color+`"}`)
	}
	last := readUntil(t, conn, func(msg wsSnapshot) bool { return msg.Payload.Config.Color == "#333333" })
	if last.Payload.Version <= first.Payload.Version {
		t.Fatalf("versions must increase: %d then %d", first.Payload.Version, last.Payload.Version)
	}
	if !strings.Contains(last.Payload.DOM.Elements[4].Style, "rgba(51, 51, 51, 1)") {
		t.Fatalf("DOM not rebuilt for the new color: %q", last.Payload.DOM.Elements[4].Style)
	}

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/configs", `{"id":"saved-1"}`)
	readUntil(t, conn, func(msg wsSnapshot) bool {
		return len(msg.Payload.Saved) == 1 && msg.Payload.Saved[0].ID == "saved-1"
	})
}

func TestWSKeyCapture(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	srv := newTestServer(t, store, web.APIV1Handlers{})

	conn, _, err := dialWS(t, srv, "/api/v1/ws")
	if err != nil {
		t.Fatalf("WS dial: %v", err)
	}
	defer conn.Close()
	readSnapshot(t, conn)

	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/keybinds/4/record", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload, _ := json.Marshal(map[string]any{"key": " ", "alt": true})
	if err := conn.WriteJSON(web.Message{Type: "key", Payload: payload}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	msg := readUntil(t, conn, func(msg wsSnapshot) bool { return msg.Payload.Keybinds[3].Key == "Alt + Space" })
	if msg.Payload.Recording.Recording {
		t.Fatal("recording must end after a captured combo")
	}
}
