package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"modelhost/internal/events"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	// Cross-origin policy is enforced by the CORS middleware when enabled.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClientMessage is an inbound WebSocket command.
type wsClientMessage struct {
	Type   string `json:"type"` // "prompt" or "send"
	Prompt string `json:"prompt,omitempty"`
	Model  string `json:"model,omitempty"`
	Text   string `json:"text,omitempty"`
}

// wsServerMessage is an outbound WebSocket frame: a notification or an error.
type wsServerMessage struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Code  int    `json:"code,omitempty"`
}

// wsConnect godoc
// @Summary      Bidirectional worker channel
// @Description  Sends notifications as {"type":kind,"data":payload}; accepts {"type":"prompt","prompt":..,"model":..} and {"type":"send","text":..}.
// @Tags         events
// @Success      101
// @Failure      503  {object}  types.ErrorResponse
// @Router       /ws [get]
func (h *handlers) wsConnect(w http.ResponseWriter, r *http.Request) {
	if h.src == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "event stream not configured")
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub, cancel := h.src.Subscribe(eventBuffer)
	defer cancel()

	// All writes go through one goroutine; replies from the read loop are
	// queued here.
	replies := make(chan wsServerMessage, 16)
	done := make(chan struct{})
	go h.wsWriteLoop(conn, sub, replies, done)
	defer close(done)

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.wsReply(replies, wsServerMessage{Type: "error", Error: "invalid message", Code: http.StatusBadRequest})
			continue
		}
		var cmdErr error
		switch msg.Type {
		case "prompt":
			cmdErr = h.svc.RunPrompt(msg.Prompt, msg.Model)
		case "send":
			cmdErr = h.svc.Send(msg.Text)
		default:
			h.wsReply(replies, wsServerMessage{Type: "error", Error: "unsupported message type", Code: http.StatusBadRequest})
			continue
		}
		if cmdErr != nil {
			h.wsReply(replies, wsServerMessage{Type: "error", Error: cmdErr.Error(), Code: statusForError(cmdErr)})
			continue
		}
		h.wsReply(replies, wsServerMessage{Type: "ok"})
	}
}

// wsReply queues a reply without blocking the read loop.
func (h *handlers) wsReply(replies chan<- wsServerMessage, m wsServerMessage) {
	select {
	case replies <- m:
	default:
	}
}

func (h *handlers) wsWriteLoop(conn *websocket.Conn, sub *events.Channel, replies <-chan wsServerMessage, done <-chan struct{}) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	write := func(m wsServerMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(m) == nil
	}
	for {
		select {
		case <-done:
			return
		case <-serverBaseCtx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(wsWriteWait))
			_ = conn.Close()
			return
		case n, ok := <-sub.C():
			if !ok {
				return
			}
			if !write(wsServerMessage{Type: string(n.Kind), Data: n.Payload()}) {
				_ = conn.Close()
				return
			}
		case m := <-replies:
			if !write(m) {
				_ = conn.Close()
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
