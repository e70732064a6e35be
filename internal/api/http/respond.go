package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/mindengage-courseware/internal/auth"
	"github.com/mind-engage/mindengage-courseware/internal/session"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// currentSession resolves the session named by the bearer token. It writes
// the error response itself and returns nil when there is none.
func currentSession(w http.ResponseWriter, r *http.Request, reg *session.Registry) *session.Session {
	s, err := reg.Get(currentSessionID(r))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil
	}
	return s
}

func currentSessionID(r *http.Request) string { return auth.SessionIDFromContext(r.Context()) }
