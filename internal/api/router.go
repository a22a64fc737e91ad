package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vocabuild/internal/vocabservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *vocabservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Vocabulary entries.
	r.Get("/words", h.ListWords)
	r.Post("/words", h.AddWord)
	r.Get("/words/{word}", h.GetWord)
	r.Put("/words/{word}/phrase", h.UpdatePhrase)
	r.Get("/words/{word}/audio", h.Audio)
	r.Get("/words/{word}/media", h.Media)

	// Categories, levels and the raw file.
	r.Get("/categories", h.Categories)
	r.Get("/levels", h.Levels)
	r.Post("/levels/{level}/load", h.LoadLevel)
	r.Get("/vocabulary/raw", h.Raw)

	// Search.
	r.Get("/search", h.Search)

	// Study sessions and quizzes.
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Delete("/sessions/{id}", h.DeleteSession)
	r.Post("/sessions/{id}/quiz", h.StartQuiz)
	r.Post("/sessions/{id}/answer", h.Answer)

	// Korean track.
	r.Get("/korean", h.Korean)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
