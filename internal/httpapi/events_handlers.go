package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"leadhunt-engine/internal/events"
)

const defaultHeartbeat = 15 * time.Second

// EventsHandler streams run progress. Scrapes can sit on one slow source for
// minutes, so idle connections get a comment line every Heartbeat.
type EventsHandler struct {
	Hub       *events.Hub
	Heartbeat time.Duration
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	every := h.Heartbeat
	if every <= 0 {
		every = defaultHeartbeat
	}
	beat := time.NewTicker(every)
	defer beat.Stop()

	seq := 0
	send := func(msg string) {
		seq++
		writeSSE(w, seq, msg)
		flusher.Flush()
	}

	send(events.MakeEvent(RequestIDFrom(r.Context()), "ping", events.Version, nil))

	for {
		select {
		case <-r.Context().Done():
			return
		case <-beat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			send(msg)
		}
	}
}

// writeSSE names the SSE event after the envelope type so browser clients
// can addEventListener per type; undecodable payloads go out as "message".
func writeSSE(w io.Writer, id int, msg string) {
	name := "message"
	if e, err := events.Decode(msg); err == nil && e.Type != "" {
		name = e.Type
	}
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, name, msg)
}
