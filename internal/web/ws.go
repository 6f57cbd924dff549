package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/rook-computer/crosshair/internal/geometry"
	"github.com/rook-computer/crosshair/internal/keybind"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is one frame sent to or received from a WebSocket client.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outgoingMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// SnapshotPayload is the body of a "snapshot" message: the store contents
// plus the DOM rendition of the active configuration and recorder status.
type SnapshotPayload struct {
	state.Snapshot
	DOM       render.DOMTree    `json:"dom"`
	Recording recordingResponse `json:"recording"`
}

func (h *apiV1) snapshotMessage(snap state.Snapshot) outgoingMessage {
	id, active := h.deps.Recorder.Active()
	return outgoingMessage{Type: "snapshot", Payload: SnapshotPayload{
		Snapshot:  snap,
		DOM:       render.BuildDOM(geometry.Resolve(snap.Config)),
		Recording: recordingResponse{Recording: active, ID: id},
	}}
}

// handleWS streams the store to one client. The first snapshot goes out
// immediately; later ones are spaced by PushInterval and collapse to the
// newest when the client falls behind. Clients may send {"type":"key"}
// messages to feed the keybind recorder.
func (h *apiV1) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.deps.Logger.Errorf("web", "ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.deps.Store.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		h.readClient(conn)
	}()

	limiter := rate.NewLimiter(rate.Every(h.deps.PushInterval), 1)
	write := func(snap state.Snapshot) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(h.snapshotMessage(snap))
	}

	last := h.deps.Store.Snapshot()
	if err := write(last); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			// Take whatever arrived while waiting.
			select {
			case newer, ok := <-updates:
				if ok {
					snap = newer
				}
			default:
			}
			if snap.Version <= last.Version {
				continue
			}
			last = snap
			if err := write(snap); err != nil {
				h.deps.Logger.Infof("web", "ws client gone: %v", err)
				return
			}
		}
	}
}

// readClient consumes client frames until the connection fails.
func (h *apiV1) readClient(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "key":
			var ev keybind.KeyEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				h.deps.Logger.Errorf("web", "ws key event: %v", err)
				continue
			}
			h.deps.Recorder.Capture(ev)
		}
	}
}
