package httpapi

import (
	"net/http"
	"time"
)

// NewMux returns the raw mux so the caller can still attach /shutdown.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Started: time.Now()}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	lh := LeadsHandler{DB: d.DB, Tracker: d.Tracker}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Stats,
	}))

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/github", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    sh.GitHubTokenStatus,
		http.MethodPost:   sh.SetGitHubToken,
		http.MethodDelete: sh.DeleteGitHubToken,
	}))

	sch := ScrapeHandler{Tracker: d.Tracker, BaseCtx: d.BaseCtx}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// Wrap applies the standard middleware chain.
func Wrap(d Deps, h http.Handler) http.Handler {
	log := d.logger()
	return Chain(h, RequestID, Recover(log), AccessLog(log), Cors)
}
