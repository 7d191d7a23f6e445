package httpapi

import (
	"encoding/json"
	"net/http"

	"leadhunt-engine/internal/secrets"
)

type SecretsHandler struct{}

type setGitHubTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) SetGitHubToken(w http.ResponseWriter, r *http.Request) {
	var req setGitHubTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := secrets.SetGitHubToken(req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteGitHubToken(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteGitHubToken(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) GitHubTokenStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"stored": secrets.HasStoredGitHubToken()})
}
