package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-courseware/internal/session"
	"github.com/mind-engage/mindengage-courseware/internal/tracking"
)

type mediaState struct {
	Items        tracking.Snapshot `json:"items"`
	Done         int               `json:"done"`
	Total        int               `json:"total"`
	AllCompleted bool              `json:"all_completed"`
}

func stateOf(t *tracking.Tracker) mediaState {
	done, total := t.Progress()
	return mediaState{Items: t.State(), Done: done, Total: total, AllCompleted: t.AllCompleted()}
}

// POST /media  { "ids": ["intro-video", ...] }
func RegisterMediaHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		t := s.Tracker()
		t.Register(r.Context(), req.IDs...)
		respondJSON(w, http.StatusOK, stateOf(t))
	}
}

// POST /media/{mediaID}/complete
func CompleteMediaHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		id := chi.URLParam(r, "mediaID")
		t := s.Tracker()
		changed := t.MarkCompleted(r.Context(), id)
		if !changed && !t.IsCompleted(id) {
			http.Error(w, "media not registered", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"media_id": id,
			"changed":  changed,
			"state":    stateOf(t),
		})
	}
}

// GET /media
//
// Standalone sessions first merge completions stored by other sessions.
func ListMediaHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		t := s.Tracker()
		t.Restore(r.Context())
		respondJSON(w, http.StatusOK, stateOf(t))
	}
}
