package vocabservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/quiz"
	"github.com/starford/vocabuild/internal/study"
)

// Sessions keeps the study contexts of remote learners by id. With a TTL,
// contexts unused for longer than the TTL are dropped by Sweep.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	byID map[string]*session
}

type session struct {
	ctx      *study.Context
	lastUsed time.Time
}

// NewSessions creates an empty registry. A ttl of zero never expires
// sessions.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, byID: make(map[string]*session)}
}

// Create starts a study context at level.
func (s *Sessions) Create(level models.Level) *study.Context {
	c := study.New(level, nil)
	s.mu.Lock()
	s.byID[c.ID] = &session{ctx: c, lastUsed: s.now()}
	s.mu.Unlock()
	return c
}

// Get returns the study context for id and marks it as used.
func (s *Sessions) Get(id string) (*study.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	e.lastUsed = s.now()
	return e.ctx, nil
}

// Delete ends the study context for id.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep drops the sessions idle for longer than the TTL and returns how
// many were dropped.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.byID {
		if e.lastUsed.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// Expire runs Sweep every interval until ctx is done. It returns at once
// when the registry has no TTL.
func (s *Sessions) Expire(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if s.ttl <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("sessions: expired", slog.Int("count", n))
			}
		}
	}
}

// StartQuiz draws a new question for the session from category.
func (s *Service) StartQuiz(ctx context.Context, sessionID, category string) (quiz.Session, error) {
	c, err := s.sessions.Get(sessionID)
	if err != nil {
		return quiz.Session{}, err
	}
	pool, err := s.QuizPool(ctx, c.Level(), category)
	if err != nil {
		return quiz.Session{}, err
	}
	return c.StartQuiz(category, pool)
}

// Answer submits choice to the session's question in category and returns
// the outcome with the updated tally.
func (s *Service) Answer(_ context.Context, sessionID, category, choice string) (quiz.Outcome, quiz.Tally, error) {
	c, err := s.sessions.Get(sessionID)
	if err != nil {
		return quiz.Outcome{}, quiz.Tally{}, err
	}
	out, err := c.Answer(category, choice)
	if err != nil {
		return quiz.Outcome{}, quiz.Tally{}, err
	}
	return out, c.Tally(), nil
}
