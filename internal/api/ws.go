package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

type hintMessage struct {
	Type string `json:"type"`
	Hint string `json:"hint"`
}

// serveHints streams inactivity hints for one session over a websocket.
// The connection is write-only from the server's perspective.
func (h *Handler) serveHints(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	sessionID := e.Orchestrator.Session().ID

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin is enforced by the CORS layer
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "session", sessionID, "error", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "session ended")

	hints, cancel := h.hints.Subscribe(sessionID)
	defer cancel()

	ctx := r.Context()

	// Reads are discarded, but reading surfaces client closes.
	go func() {
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case hint := <-hints:
			if err := h.writeJSON(ctx, ws, hintMessage{Type: "hint", Hint: hint}); err != nil {
				h.logger.Debug("websocket write failed", "session", sessionID, "error", err)
				return
			}
		}
	}
}

func (h *Handler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
