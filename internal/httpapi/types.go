package httpapi

type ScrapeStatus struct {
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastAdded   int    `json:"last_added"`
	LastTotal   int    `json:"last_total"`
	LastOutput  string `json:"last_output,omitempty"`
	Running     bool   `json:"running"`
	TokenOrigin string `json:"token_origin,omitempty"`
}
