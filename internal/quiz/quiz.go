// Package quiz runs multiple-choice vocabulary quizzes.
//
// A Run owns one quiz session per key (usually a category) and a tally
// shared by all of them. Each session moves Idle -> Active -> Answered and
// back to Active when the next quiz starts. A Run is not safe for concurrent
// use.
package quiz

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
)

const (
	// MinWords is the smallest pool a quiz can be drawn from.
	MinWords = 4
	// Distractors is the maximum number of wrong options per question.
	Distractors = 3
)

// Tally is the cumulative score of a run.
type Tally struct {
	Score    int `json:"score"`
	Attempts int `json:"attempts"`
}

// Accuracy returns the share of correct answers as a percentage, or 0
// before the first attempt.
func (t Tally) Accuracy() float64 {
	if t.Attempts == 0 {
		return 0
	}
	return float64(t.Score) / float64(t.Attempts) * 100
}

// Outcome is the result of answering a question.
type Outcome struct {
	Correct     bool   `json:"correct"`
	Choice      string `json:"choice"`
	CorrectWord string `json:"correct_word"`
}

// Session is one question.
type Session struct {
	Target   models.Entry   `json:"target"`
	Options  []models.Entry `json:"options"`
	Answered bool           `json:"answered"`
	Outcome  *Outcome       `json:"outcome,omitempty"`
}

func (s *Session) snapshot() Session {
	out := *s
	out.Options = append([]models.Entry(nil), s.Options...)
	if s.Outcome != nil {
		o := *s.Outcome
		out.Outcome = &o
	}
	return out
}

// Blank replaces the target word in a clue.
const Blank = "_____"

// Clue returns the phrase with every case-insensitive occurrence of the
// target word replaced by Blank. Words starting and ending in ASCII word
// characters only match whole words.
func (s Session) Clue() string {
	w := s.Target.Word
	if s.Target.Phrase == "" || w == "" {
		return s.Target.Phrase
	}
	pattern := regexp.QuoteMeta(w)
	if isWordByte(w[0]) && isWordByte(w[len(w)-1]) {
		pattern = `\b` + pattern + `\b`
	}
	return regexp.MustCompile(`(?i)`+pattern).ReplaceAllString(s.Target.Phrase, Blank)
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// Run holds the quiz sessions and the tally of one study run.
type Run struct {
	rng      *rand.Rand
	tally    Tally
	sessions map[string]*Session
}

// NewRun creates a run drawing from rng. A nil rng seeds one from the clock.
func NewRun(rng *rand.Rand) *Run {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32|1))
	}
	return &Run{rng: rng, sessions: make(map[string]*Session)}
}

// Start draws a new question for key from words. The target is picked
// uniformly; distractors are other words with a different text, sampled
// without replacement. Pools with fewer than MinWords words return
// apperr.ErrInsufficientPool and drop any earlier question for key; the
// tally is unchanged.
func (r *Run) Start(key string, words []models.Entry) (Session, error) {
	if len(words) < MinWords {
		delete(r.sessions, key)
		return Session{}, fmt.Errorf("quiz: %d words: %w", len(words), apperr.ErrInsufficientPool)
	}

	target := words[r.rng.IntN(len(words))]

	seen := map[string]bool{target.Word: true}
	var candidates []models.Entry
	for _, w := range words {
		if seen[w.Word] {
			continue
		}
		seen[w.Word] = true
		candidates = append(candidates, w)
	}
	r.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	n := min(Distractors, len(words)-1, len(candidates))

	options := make([]models.Entry, 0, n+1)
	options = append(options, target)
	options = append(options, candidates[:n]...)
	r.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	s := &Session{Target: target, Options: options}
	r.sessions[key] = s
	return s.snapshot(), nil
}

// Submit answers the active question for key. The first answer counts
// towards the tally; later answers return the first outcome unchanged.
// Words are compared case-sensitively.
func (r *Run) Submit(key, choice string) (Outcome, error) {
	s, ok := r.sessions[key]
	if !ok {
		return Outcome{}, fmt.Errorf("quiz: %q: %w", key, apperr.ErrNoActiveQuiz)
	}
	if s.Answered {
		return *s.Outcome, nil
	}

	out := Outcome{
		Correct:     choice == s.Target.Word,
		Choice:      choice,
		CorrectWord: s.Target.Word,
	}
	s.Answered = true
	s.Outcome = &out
	r.tally.Attempts++
	if out.Correct {
		r.tally.Score++
	}
	return out, nil
}

// Session returns the current question for key.
func (r *Run) Session(key string) (Session, bool) {
	s, ok := r.sessions[key]
	if !ok {
		return Session{}, false
	}
	return s.snapshot(), true
}

// Tally returns the cumulative score.
func (r *Run) Tally() Tally {
	return r.tally
}

// Reset clears every session and the tally.
func (r *Run) Reset() {
	r.tally = Tally{}
	clear(r.sessions)
}
