package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/discovery"
	"github.com/mind-engage/mindengage-courseware/internal/session"
)

// hostChain builds the context chain for a preview session. "simulated"
// exposes a current-generation in-memory host one level up, "legacy" the
// same under the legacy name; anything else yields an empty chain.
func hostChain(kind string) discovery.Accessor {
	var name string
	switch kind {
	case "simulated":
		name = discovery.Name2004
	case "legacy":
		name = discovery.NameLegacy
	default:
		return discovery.Chain(&discovery.Frame{Name: "page"})
	}
	return discovery.Chain(
		&discovery.Frame{Name: "page"},
		&discovery.Frame{Name: "host", Exposed: map[string]datamodel.Handle{name: datamodel.NewMemoryHandle()}},
	)
}

// POST /sessions[?host=simulated|legacy]
func CreateSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		acc := hostChain(q.Get("host"))

		opts := []session.Option{
			session.WithLogger(d.logger()),
			session.WithJournal(d.Journal),
			session.WithMaxDepth(d.MaxDepth),
		}
		s := session.Open(r.Context(), acc, d.Local, opts...)
		if err := d.Sessions.Add(s); err != nil {
			s.Close()
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		tok, err := d.Auth.IssueToken(s.ID(), s.Standalone())
		if err != nil {
			_ = d.Sessions.Remove(s.ID())
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		d.logger().Info("preview session opened", zap.String("session_id", s.ID()), zap.Bool("standalone", s.Standalone()))

		respondJSON(w, http.StatusCreated, map[string]any{
			"session_id":   s.ID(),
			"access_token": tok,
			"standalone":   s.Standalone(),
		})
	}
}

// GET /sessions/current
func GetSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, d.Sessions)
		if s == nil {
			return
		}
		found := s.Discovery()
		out := map[string]any{
			"session_id": s.ID(),
			"standalone": s.Standalone(),
			"learner_id": s.LearnerID(),
			"discovery": map[string]any{
				"found":   found.Found,
				"reason":  found.Reason,
				"depth":   found.Depth,
				"version": found.Version,
			},
		}
		if mh, ok := found.Handle.(*datamodel.MemoryHandle); ok {
			out["host_values"] = mh.Values()
			out["host_commits"] = mh.Commits()
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// DELETE /sessions/current
func CloseSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := currentSessionID(r)
		if err := d.Sessions.Remove(id); err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		d.logger().Info("preview session closed", zap.String("session_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
