package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/geomkit/geomkit/internal/logging"
)

const (
	// maxStreamMessage caps a single WebSocket message.
	maxStreamMessage = 1 << 20

	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// streamClients counts open stream connections for log output.
var streamClients atomic.Int64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same origin policy as the HTTP endpoints
	},
}

// StreamResponse is one reply on the conversion stream.
type StreamResponse struct {
	Success bool           `json:"success"`
	Result  *ConvertResult `json:"result,omitempty"`
	Error   *APIError      `json:"error,omitempty"`
}

// handleStream upgrades the connection and converts one geometry per
// message. Each received text message is a ConvertRequest and each reply is
// a StreamResponse. Failures are reported per message; the connection stays
// open until the client closes it or times out.
func handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	activeWebSockets.Inc()
	logging.WebSocketEvent("client_connected", int(streamClients.Add(1)))
	defer func() {
		activeWebSockets.Dec()
		logging.WebSocketEvent("client_disconnected", int(streamClients.Add(-1)))
	}()

	conn.SetReadLimit(maxStreamMessage)
	for {
		conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}

		var resp StreamResponse
		var req ConvertRequest
		if err := json.Unmarshal(data, &req); err != nil {
			resp.Error = &APIError{Code: "INVALID_JSON", Message: "message is not valid JSON"}
		} else if req.Data == "" || req.To == "" {
			resp.Error = &APIError{Code: "MISSING_PARAMS", Message: "data and to are required"}
		} else if result, convErr := convert(req); convErr != nil {
			resp.Error = &convErr.APIError
		} else {
			resp.Success = true
			resp.Result = result
		}

		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
