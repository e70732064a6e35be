package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-courseware/internal/assessment"
	"github.com/mind-engage/mindengage-courseware/internal/session"
)

const maxBody = 1 << 20

// POST /quizzes   body: quiz definition JSON
func LoadQuizHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		qz, err := assessment.DecodeJSON(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := s.LoadQuiz(qz)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"quiz_id":   e.QuizID(),
			"questions": len(qz.Questions),
			"state":     e.State().String(),
		})
	}
}

// POST /quizzes/{quizID}/submit   body: answers keyed by question id
//
// 200 with the result, 409 with the cached result on a repeat, 422 with the
// unanswered question ids.
func SubmitQuizHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		e, ok := s.Engine(chi.URLParam(r, "quizID"))
		if !ok {
			http.Error(w, "quiz not loaded", http.StatusNotFound)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		answers, err := assessment.DecodeAnswers(body)
		if err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		res, err := e.Submit(r.Context(), answers)
		var inc *assessment.IncompleteError
		switch {
		case err == nil:
			respondJSON(w, http.StatusOK, map[string]any{"result": res, "delivery": e.Delivery()})
		case errors.Is(err, assessment.ErrAlreadySubmitted):
			respondJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "result": res})
		case errors.As(err, &inc):
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "missing": inc.Missing})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /quizzes/{quizID}/result
//
// Falls back to a result stored by an earlier standalone session.
func GetResultHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(w, r, reg)
		if s == nil {
			return
		}
		e, ok := s.Engine(chi.URLParam(r, "quizID"))
		if !ok {
			http.Error(w, "quiz not loaded", http.StatusNotFound)
			return
		}
		if res, ok := e.Result(); ok {
			respondJSON(w, http.StatusOK, map[string]any{"result": res, "delivery": e.Delivery()})
			return
		}
		if res, ok := e.Previous(r.Context()); ok {
			respondJSON(w, http.StatusOK, map[string]any{"result": res, "previous": true})
			return
		}
		http.Error(w, "not submitted", http.StatusNotFound)
	}
}
