package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vocabuild/internal/checksum"
	"github.com/starford/vocabuild/internal/index"
	"github.com/starford/vocabuild/internal/media"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/vocabservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *vocabservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *vocabservice.Service) *Handler {
	return &Handler{svc: svc}
}

// urlParam returns the decoded chi URL parameter name.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return strings.TrimSpace(decoded)
}

// ListWords handles GET /api/words.
//
//	@Summary		List vocabulary entries
//	@Tags			words
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category (case-insensitive)"
//	@Success		200			{object}	WordListResponse
//	@Security		BearerAuth
//	@Router			/words [get]
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, "list words", err)
		return
	}
	if words == nil {
		words = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, WordListResponse{Words: words, Total: len(words)})
}

// GetWord handles GET /api/words/{word}.
//
//	@Summary		Get the first entry for a word
//	@Tags			words
//	@Produce		json
//	@Param			word	path		string	true	"Word (case-insensitive)"
//	@Success		200		{object}	models.Entry
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/words/{word} [get]
func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), urlParam(r, "word"))
	if err != nil {
		writeError(w, "get word", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// AddWord handles POST /api/words.
//
//	@Summary		Add a vocabulary entry
//	@Tags			words
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddWordRequest	true	"Entry to add"
//	@Success		201		{object}	AddWordResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/words [post]
func (h *Handler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req AddWordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Add(r.Context(), req.entry())
	if err != nil {
		writeError(w, "add word", err)
		return
	}
	resp := AddWordResponse{Entry: res.Entry}
	if res.MissingPhrase {
		resp.Warning = "no example phrase given"
	}
	writeJSON(w, http.StatusCreated, resp)
}

// UpdatePhrase handles PUT /api/words/{word}/phrase.
//
//	@Summary		Replace the example phrase of a word
//	@Tags			words
//	@Accept			json
//	@Produce		json
//	@Param			word	path		string				true	"Word (case-insensitive)"
//	@Param			body	body		UpdatePhraseRequest	true	"New phrase"
//	@Success		200		{object}	models.Entry
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/words/{word}/phrase [put]
func (h *Handler) UpdatePhrase(w http.ResponseWriter, r *http.Request) {
	var req UpdatePhraseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.svc.UpdatePhrase(r.Context(), urlParam(r, "word"), req.Phrase)
	if err != nil {
		writeError(w, "update phrase", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Audio handles GET /api/words/{word}/audio.
//
//	@Summary		Pronounce a word or its example phrase
//	@Tags			words
//	@Produce		audio/wav
//	@Param			word	path	string	true	"Word (case-insensitive)"
//	@Param			kind	query	string	false	"What to pronounce"	Enums(word, phrase)
//	@Param			speed	query	string	false	"Speed"				Enums(normal, 0.9, 0.8)
//	@Success		200
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/words/{word}/audio [get]
func (h *Handler) Audio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	speed, err := models.ParseSpeed(q.Get("speed"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	var phrase bool
	switch q.Get("kind") {
	case "", "word":
	case "phrase":
		phrase = true
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("kind must be word or phrase"))
		return
	}

	var served bool
	err = h.svc.Audio(r.Context(), urlParam(r, "word"), phrase, speed, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "audio/wav")
		http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
		served = true
		return nil
	})
	switch {
	case err == nil:
	case served:
		slog.Warn("audio cleanup failed", slog.String("error", err.Error()))
	default:
		writeError(w, "audio", err)
	}
}

// Media handles GET /api/words/{word}/media.
//
//	@Summary		Serve the image or video attached to a word
//	@Tags			words
//	@Param			word	path	string	true	"Word (case-insensitive)"
//	@Success		200
//	@Failure		404		{object}	errResponse
//	@Failure		415		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/words/{word}/media [get]
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Media(r.Context(), urlParam(r, "word"))
	if err != nil {
		writeError(w, "media", err)
		return
	}
	if item.Kind == media.KindUnsupported {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody("unsupported media format"))
		return
	}
	w.Header().Set("X-Media-Kind", string(item.Kind))
	http.ServeFile(w, r, item.Path)
}

// Categories handles GET /api/categories.
//
//	@Summary		Count entries per category
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, "categories", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Levels handles GET /api/levels.
//
//	@Summary		List difficulty levels
//	@Tags			levels
//	@Produce		json
//	@Success		200	{array}	LevelInfo
//	@Security		BearerAuth
//	@Router			/levels [get]
func (h *Handler) Levels(w http.ResponseWriter, _ *http.Request) {
	out := make([]LevelInfo, len(models.Levels))
	for i, l := range models.Levels {
		out[i] = levelInfo(l)
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadLevel handles POST /api/levels/{level}/load.
//
//	@Summary		Replace the vocabulary with a level's word pool
//	@Tags			levels
//	@Produce		json
//	@Param			level	path		int	true	"Level (1-3)"
//	@Success		200		{object}	LoadLevelResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/levels/{level}/load [post]
func (h *Handler) LoadLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(urlParam(r, "level"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("level must be a number"))
		return
	}
	n, err := h.svc.LoadLevel(r.Context(), level)
	if err != nil {
		writeError(w, "load level", err)
		return
	}
	writeJSON(w, http.StatusOK, LoadLevelResponse{Level: level, Words: n})
}

// Raw handles GET /api/vocabulary/raw.
//
//	@Summary		Download the vocabulary file
//	@Tags			vocabulary
//	@Produce		plain
//	@Param			If-None-Match	header	string	false	"Checksum from a previous ETag"
//	@Success		200
//	@Success		304
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/vocabulary/raw [get]
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	data, sum, err := h.svc.Raw(r.Context())
	if err != nil {
		writeError(w, "raw", err)
		return
	}
	etag := checksum.ETag(sum)
	w.Header().Set("ETag", etag)
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across entries
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// CreateSession handles POST /api/sessions.
//
//	@Summary		Open a study session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateSessionRequest	true	"Session level"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	level, err := models.ParseLevel(req.Level)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	c := h.svc.Sessions().Create(level)
	writeJSON(w, http.StatusCreated, sessionResponse(c))
}

// GetSession handles GET /api/sessions/{id}.
//
//	@Summary		Get a study session with its tally
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Sessions().Get(urlParam(r, "id"))
	if err != nil {
		writeError(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(c))
}

// DeleteSession handles DELETE /api/sessions/{id}.
//
//	@Summary		End a study session
//	@Tags			sessions
//	@Param			id	path	string	true	"Session ID"
//	@Success		204	"Session ended"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sessions().Delete(urlParam(r, "id")); err != nil {
		writeError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartQuiz handles POST /api/sessions/{id}/quiz.
//
//	@Summary		Draw a quiz question from a category
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			body	body		QuizRequest	true	"Category"
//	@Success		200		{object}	QuestionResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/quiz [post]
func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("category is required"))
		return
	}
	s, err := h.svc.StartQuiz(r.Context(), urlParam(r, "id"), req.Category)
	if err != nil {
		writeError(w, "start quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, questionResponse(req.Category, s))
}

// Answer handles POST /api/sessions/{id}/answer.
//
//	@Summary		Answer the current question of a category
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			body	body		AnswerRequest	true	"Chosen word"
//	@Success		200		{object}	AnswerResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/answer [post]
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, tally, err := h.svc.Answer(r.Context(), urlParam(r, "id"), req.Category, req.Choice)
	if err != nil {
		writeError(w, "answer", err)
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{
		Correct:     out.Correct,
		Choice:      out.Choice,
		CorrectWord: out.CorrectWord,
		Score:       tally.Score,
		Attempts:    tally.Attempts,
		Accuracy:    tally.Accuracy(),
	})
}

// Korean handles GET /api/korean.
//
//	@Summary		Get the Korean vocabulary
//	@Tags			korean
//	@Produce		json
//	@Param			beginner	query		bool	false	"Only the beginner view"
//	@Success		200			{object}	KoreanResponse
//	@Security		BearerAuth
//	@Router			/korean [get]
func (h *Handler) Korean(w http.ResponseWriter, r *http.Request) {
	beginner, _ := strconv.ParseBool(r.URL.Query().Get("beginner"))
	v, err := h.svc.Korean(r.Context(), beginner)
	if err != nil {
		writeError(w, "korean", err)
		return
	}
	writeJSON(w, http.StatusOK, KoreanResponse{
		Categories: v.Categories(),
		Counts:     v.Counts(),
		Total:      v.Total(),
		Words:      v,
	})
}
