package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"modelhost/internal/events"
)

// eventStream godoc
// @Summary      Stream worker notifications
// @Description  Server-Sent Events: "output_line" and "run_state" frames with JSON data.
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Failure      503  {object}  types.ErrorResponse
// @Router       /events [get]
func (h *handlers) eventStream(w http.ResponseWriter, r *http.Request) {
	if h.src == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "event stream not configured")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before writing headers so nothing published after the client
	// sees the 200 is missed.
	sub, cancel := h.src.Subscribe(eventBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// End the stream on client disconnect or server shutdown.
	ctx, stop := streamContext(r)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.C():
			if !ok {
				return
			}
			if err := writeSSEEvent(w, n); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSEEvent serialises one notification in the SSE wire format:
//
//	event: <kind>\n
//	data: <json>\n
//	\n
func writeSSEEvent(w http.ResponseWriter, n events.Notification) error {
	data, err := json.Marshal(n.Payload())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Kind, data)
	return err
}
