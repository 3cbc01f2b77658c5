package handlers

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	// frameInterval is the websocket push cadence. The simulated time per
	// frame is derived from real elapsed time, so a slow client or stalled
	// ticker only lowers the frame rate, not the simulation speed.
	frameInterval = time.Second / 30

	writeTimeout = 5 * time.Second
)

// Frame is one websocket update.
type Frame struct {
	T             float64 `json:"t"`
	Vector        any     `json:"vector"`
	Running       bool    `json:"running"`
	HistoryLength int     `json:"historyLength"`
}

// HandleStream handles GET /api/evolution/sessions/{id}/stream. It upgrades
// to a websocket, drives the session at the frame cadence and pushes one JSON
// frame per tick until the client disconnects or the session disappears.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The API is same-origin behind the UI dev proxy; tests dial directly.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	h.log.Debug().Str("session", session.ID()).Msg("Stream client connected")

	ctx := r.Context()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			// The session may have been deleted or swept mid-stream.
			if _, alive := h.manager.Get(session.ID()); !alive {
				conn.Close(websocket.StatusGoingAway, "session deleted")
				return
			}

			snap, _, err := session.Advance(elapsed)
			if err != nil {
				h.log.Warn().Err(err).Str("session", session.ID()).Msg("Step failed mid-stream")
			}

			frame := Frame{
				T:             now.Sub(start).Seconds(),
				Vector:        snap.Vector,
				Running:       snap.Running,
				HistoryLength: snap.HistoryLength,
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			writeErr := wsjson.Write(writeCtx, conn, frame)
			cancel()
			if writeErr != nil {
				h.log.Debug().Err(writeErr).Msg("Stream client gone")
				return
			}
		}
	}
}
