package httpapi

import (
	"context"
	"net/http"
)

type ScrapeHandler struct {
	Tracker *Tracker
	BaseCtx context.Context
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Tracker.Status())
}

func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := h.BaseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	reqID := RequestIDFrom(r.Context())
	if !h.Tracker.Start(ctx, reqID) {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "request_id": reqID})
}
