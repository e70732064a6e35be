package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/mindengage-courseware/internal/auth"
)

// NewRouter mounts the preview routes.
func NewRouter(d Deps, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/sessions", CreateSessionHandler(d))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.Get("/sessions/current", GetSessionHandler(d))
		pr.Delete("/sessions/current", CloseSessionHandler(d))

		pr.Post("/media", RegisterMediaHandler(d.Sessions))
		pr.Get("/media", ListMediaHandler(d.Sessions))
		pr.Post("/media/{mediaID}/complete", CompleteMediaHandler(d.Sessions))

		pr.Post("/quizzes", LoadQuizHandler(d.Sessions))
		pr.Post("/quizzes/{quizID}/submit", SubmitQuizHandler(d.Sessions))
		pr.Get("/quizzes/{quizID}/result", GetResultHandler(d.Sessions))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
