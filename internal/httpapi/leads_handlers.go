package httpapi

import (
	"database/sql"
	"net/http"

	"leadhunt-engine/internal/store"
)

type LeadsHandler struct {
	DB      *sql.DB
	Tracker *Tracker
}

// List serves stored leads. Query: sort=score|name|date, contactable=true,
// source=<display label>, limit=N.
func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "storage_disabled", "storage is disabled in the config")
		return
	}
	q := r.URL.Query()
	rows, err := store.ListLeads(r.Context(), h.DB, store.ListLeadsOpts{
		Sort:            q.Get("sort"),
		ContactableOnly: queryBool(r, "contactable"),
		Source:          q.Get("source"),
		Limit:           queryInt(r, "limit", 500),
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, rows)
}

// Stats reports the last run held in memory plus store totals.
func (h LeadsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{}
	if rep, ok := h.Tracker.Last(); ok {
		out["last_run"] = rep.Metadata
		out["stats"] = rep.Result.Stats
	}
	if h.DB != nil {
		c, err := store.CountLeads(r.Context(), h.DB)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		out["stored"] = c
		if _, ok := out["last_run"]; !ok {
			if m, found, err := store.LatestRun(r.Context(), h.DB); err == nil && found {
				out["last_run"] = m
			}
		}
	}
	writeJSON(w, out)
}
