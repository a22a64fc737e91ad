package api

import (
	"time"

	"github.com/starford/vocabuild/internal/index"
	"github.com/starford/vocabuild/internal/korean"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/quiz"
	"github.com/starford/vocabuild/internal/study"
	"github.com/starford/vocabuild/internal/vocabservice"
)

// AddWordRequest is the request body for adding a vocabulary entry.
type AddWordRequest struct {
	Word     string  `json:"word" example:"serendipity" validate:"required"`
	Meaning  string  `json:"meaning" example:"a happy accident" validate:"required"`
	Phrase   string  `json:"phrase" example:"Meeting her was pure serendipity."`
	Category string  `json:"category" example:"general" validate:"required"`
	Media    *string `json:"media,omitempty" example:"media/serendipity.png"`
}

func (r AddWordRequest) entry() models.Entry {
	return models.Entry{
		Word:     r.Word,
		Meaning:  r.Meaning,
		Phrase:   r.Phrase,
		Category: r.Category,
		Media:    r.Media,
	}
}

// AddWordResponse is returned after a word was stored.
type AddWordResponse struct {
	Entry   models.Entry `json:"entry" validate:"required"`
	Warning string       `json:"warning,omitempty" example:"no example phrase given"`
}

// UpdatePhraseRequest is the request body for editing an example phrase.
type UpdatePhraseRequest struct {
	Phrase string `json:"phrase" example:"A new example." validate:"required"`
}

// WordListResponse wraps vocabulary listings.
type WordListResponse struct {
	Words []models.Entry `json:"words" validate:"required"`
	Total int            `json:"total" example:"160" validate:"required"`
}

// StatsResponse is the per-category summary (aliased from the domain layer).
type StatsResponse = vocabservice.Stats

// LevelInfo describes a difficulty level.
type LevelInfo struct {
	Level       int    `json:"level" example:"1" validate:"required"`
	Name        string `json:"name" example:"Beginner" validate:"required"`
	Description string `json:"description" validate:"required"`
	WordPool    bool   `json:"word_pool" example:"true"`
}

func levelInfo(l models.Level) LevelInfo {
	return LevelInfo{
		Level:       int(l),
		Name:        l.Name(),
		Description: l.Description(),
		WordPool:    l.HasWordPool(),
	}
}

// LoadLevelResponse reports a regenerated vocabulary file.
type LoadLevelResponse struct {
	Level int `json:"level" example:"1" validate:"required"`
	Words int `json:"words" example:"160" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// CreateSessionRequest is the request body for opening a study session.
type CreateSessionRequest struct {
	Level int `json:"level" example:"1" validate:"required"`
}

// SessionResponse describes a study session.
type SessionResponse struct {
	ID       string    `json:"id" example:"4f1c2a9e-..." validate:"required"`
	Level    LevelInfo `json:"level" validate:"required"`
	Created  time.Time `json:"created" validate:"required"`
	Score    int       `json:"score" example:"3"`
	Attempts int       `json:"attempts" example:"4"`
	Accuracy float64   `json:"accuracy" example:"75"`
}

func sessionResponse(c *study.Context) SessionResponse {
	t := c.Tally()
	return SessionResponse{
		ID:       c.ID,
		Level:    levelInfo(c.Level()),
		Created:  c.Created,
		Score:    t.Score,
		Attempts: t.Attempts,
		Accuracy: t.Accuracy(),
	}
}

// QuizRequest is the request body for drawing a question.
type QuizRequest struct {
	Category string `json:"category" example:"general" validate:"required"`
}

// QuestionResponse is a quiz question. The target word is withheld; the
// learner picks it from Options.
type QuestionResponse struct {
	Category string   `json:"category" example:"general" validate:"required"`
	Meaning  string   `json:"meaning" example:"a greeting" validate:"required"`
	Phrase   string   `json:"phrase,omitempty" example:"_____, how are you?"`
	Options  []string `json:"options" validate:"required"`
}

func questionResponse(category string, s quiz.Session) QuestionResponse {
	opts := make([]string, len(s.Options))
	for i, o := range s.Options {
		opts[i] = o.Word
	}
	return QuestionResponse{
		Category: category,
		Meaning:  s.Target.Meaning,
		Phrase:   s.Clue(),
		Options:  opts,
	}
}

// AnswerRequest is the request body for answering a question.
type AnswerRequest struct {
	Category string `json:"category" example:"general" validate:"required"`
	Choice   string `json:"choice" example:"hello" validate:"required"`
}

// AnswerResponse reports the outcome and the running tally.
type AnswerResponse struct {
	Correct     bool    `json:"correct"`
	Choice      string  `json:"choice" example:"hello"`
	CorrectWord string  `json:"correct_word" example:"hello"`
	Score       int     `json:"score" example:"3"`
	Attempts    int     `json:"attempts" example:"4"`
	Accuracy    float64 `json:"accuracy" example:"75"`
}

// KoreanResponse is the Korean vocabulary with its summary.
type KoreanResponse struct {
	Categories []string          `json:"categories" validate:"required"`
	Counts     map[string]int    `json:"counts" validate:"required"`
	Total      int               `json:"total" example:"42"`
	Words      korean.Vocabulary `json:"words" validate:"required"`
}
