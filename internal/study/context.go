// Package study holds the per-learner state of a study run: the selected
// level, the quiz run with its tally, and phrase edits in progress.
package study

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/quiz"
	"github.com/starford/vocabuild/internal/validate"
	"github.com/starford/vocabuild/internal/vocab"
)

// Context is the state of one study run. It is safe for concurrent use.
type Context struct {
	ID      string
	Created time.Time

	mu    sync.Mutex
	level models.Level
	quiz  *quiz.Run
	edits map[string]string
}

// New creates a study context at level. rng drives quiz draws; nil seeds
// from the clock.
func New(level models.Level, rng *rand.Rand) *Context {
	return &Context{
		ID:      uuid.NewString(),
		Created: time.Now().UTC(),
		level:   level,
		quiz:    quiz.NewRun(rng),
		edits:   make(map[string]string),
	}
}

// Level returns the selected level.
func (c *Context) Level() models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// SetLevel changes the selected level. Quiz progress is kept.
func (c *Context) SetLevel(level models.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// StartQuiz filters entries to category and draws a question from them.
func (c *Context) StartQuiz(category string, entries []models.Entry) (quiz.Session, error) {
	pool := vocab.Filter(entries, category)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Start(quizKey(category), pool)
}

// Answer submits choice for the active question in category.
func (c *Context) Answer(category, choice string) (quiz.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Submit(quizKey(category), choice)
}

// Question returns the current question in category.
func (c *Context) Question(category string) (quiz.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Session(quizKey(category))
}

// Tally returns the cumulative quiz score.
func (c *Context) Tally() quiz.Tally {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Tally()
}

// ResetQuiz clears all questions and the tally.
func (c *Context) ResetQuiz() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiz.Reset()
}

// BeginEdit marks word as being edited, seeded with its current phrase.
func (c *Context) BeginEdit(word, current string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits[editKey(word)] = current
}

// Draft returns the phrase an edit started from and whether word is being
// edited.
func (c *Context) Draft(word string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.edits[editKey(word)]
	return d, ok
}

// CancelEdit discards an edit in progress.
func (c *Context) CancelEdit(word string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.edits, editKey(word))
}

// SaveEdit writes phrase for word to the vocabulary file and ends the edit.
// An empty phrase is rejected with a *validate.Error before the file is
// touched, and the edit stays open. The boolean reports whether a matching
// word was found.
func (c *Context) SaveEdit(repo *vocab.Repository, path, word, phrase string) (bool, error) {
	if ok, msg := validate.Phrase(phrase); !ok {
		return false, &validate.Error{Message: msg}
	}
	updated, err := repo.UpdatePhrase(path, word, strings.TrimSpace(phrase))
	if err != nil {
		return false, err
	}
	c.CancelEdit(word)
	return updated, nil
}

func quizKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func editKey(word string) string {
	return strings.ToLower(word)
}
