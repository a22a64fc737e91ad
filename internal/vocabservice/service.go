package vocabservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/audio"
	"github.com/starford/vocabuild/internal/checksum"
	"github.com/starford/vocabuild/internal/index"
	"github.com/starford/vocabuild/internal/korean"
	"github.com/starford/vocabuild/internal/media"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/validate"
	"github.com/starford/vocabuild/internal/vocab"
	"github.com/starford/vocabuild/internal/vocabfile"
	"github.com/starford/vocabuild/internal/wordpool"
)

// Notifier is told about every change the service makes.
type Notifier func(eventType string, data any)

// Event types passed to a Notifier.
const (
	EventEntryAdded    = "entry.added"
	EventPhraseUpdated = "phrase.updated"
	EventPoolLoaded    = "pool.loaded"
)

// Options configures a Service. Repo and File are required.
type Options struct {
	Repo       *vocab.Repository
	DB         *index.DB
	File       string
	KoreanFile string
	MediaDir   string
	SessionTTL time.Duration
	Synth      audio.Synthesizer
	Notify     Notifier
	Logger     *slog.Logger
}

// Service coordinates the vocabulary file, the search index and the
// per-learner study sessions. Writes to the vocabulary file are serialised.
type Service struct {
	repo       *vocab.Repository
	db         *index.DB
	file       string
	koreanFile string
	mediaDir   string
	synth      audio.Synthesizer
	notify     Notifier
	logger     *slog.Logger

	writeMu  sync.Mutex
	sessions *Sessions
}

// New creates a new vocabulary service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       opts.Repo,
		db:         opts.DB,
		file:       opts.File,
		koreanFile: opts.KoreanFile,
		mediaDir:   opts.MediaDir,
		synth:      opts.Synth,
		notify:     opts.Notify,
		logger:     logger,
		sessions:   NewSessions(opts.SessionTTL),
	}
}

// File returns the vocabulary file path the service works on.
func (s *Service) File() string { return s.file }

// Sessions returns the study session registry.
func (s *Service) Sessions() *Sessions { return s.sessions }

// List returns the vocabulary entries, restricted to category when it is
// not empty.
func (s *Service) List(_ context.Context, category string) ([]models.Entry, error) {
	entries, err := s.repo.Load(s.file)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return entries, nil
	}
	return vocab.Filter(entries, category), nil
}

// Get returns the first entry for word.
func (s *Service) Get(ctx context.Context, word string) (models.Entry, error) {
	entries, err := s.List(ctx, "")
	if err != nil {
		return models.Entry{}, err
	}
	e, ok := vocab.Find(entries, word)
	if !ok {
		return models.Entry{}, apperr.ErrNotFound
	}
	return e, nil
}

// AddResult reports the stored entry. Entries without an example phrase are
// stored anyway; MissingPhrase lets callers warn about them.
type AddResult struct {
	Entry         models.Entry `json:"entry"`
	MissingPhrase bool         `json:"missing_phrase"`
}

// Add validates e and appends it to the vocabulary file.
func (s *Service) Add(_ context.Context, e models.Entry) (*AddResult, error) {
	clean, err := validate.Check(e)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	err = s.repo.Append(s.file, clean)
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.reindex()
	s.emit(EventEntryAdded, map[string]string{"word": clean.Word, "category": clean.Category})
	return &AddResult{Entry: clean, MissingPhrase: !clean.HasPhrase()}, nil
}

// UpdatePhrase replaces the phrase of the first entry matching word.
// An empty phrase is rejected; an unknown word returns apperr.ErrNotFound.
func (s *Service) UpdatePhrase(ctx context.Context, word, phrase string) (models.Entry, error) {
	if ok, msg := validate.Phrase(phrase); !ok {
		return models.Entry{}, &validate.Error{Message: msg}
	}
	phrase = strings.TrimSpace(phrase)

	s.writeMu.Lock()
	updated, err := s.repo.UpdatePhrase(s.file, word, phrase)
	s.writeMu.Unlock()
	if err != nil {
		return models.Entry{}, err
	}
	if !updated {
		return models.Entry{}, apperr.ErrNotFound
	}

	s.reindex()
	s.emit(EventPhraseUpdated, map[string]string{"word": word})
	return s.Get(ctx, word)
}

// LoadLevel replaces the vocabulary file with the word pool of level and
// returns the number of words written.
func (s *Service) LoadLevel(_ context.Context, level int) (int, error) {
	l, err := models.ParseLevel(level)
	if err != nil || !l.HasWordPool() {
		return 0, fmt.Errorf("level %d has no word pool: %w", level, apperr.ErrNotFound)
	}

	s.writeMu.Lock()
	n, err := wordpool.Generate(s.repo, l, s.file)
	s.writeMu.Unlock()
	if err != nil {
		return 0, err
	}

	s.reindex()
	s.emit(EventPoolLoaded, map[string]any{"level": level, "words": n})
	return n, nil
}

// Stats summarises the vocabulary file.
type Stats struct {
	Total      int                     `json:"total"`
	ByCategory map[models.Category]int `json:"by_category"`
	Checksum   string                  `json:"checksum"`
}

// Stats counts the entries per category. Counts and checksum come from the
// same read of the file.
func (s *Service) Stats(_ context.Context) (*Stats, error) {
	raw, err := s.repo.Raw(s.file)
	if err != nil {
		return nil, err
	}
	entries := vocabfile.Parse(raw).Entries()
	return &Stats{
		Total:      len(entries),
		ByCategory: vocab.CountByCategory(entries),
		Checksum:   checksum.Sum(raw),
	}, nil
}

// Raw returns the vocabulary file content and its checksum. A missing file
// returns apperr.ErrNotFound.
func (s *Service) Raw(_ context.Context) ([]byte, string, error) {
	raw, err := s.repo.Raw(s.file)
	if err != nil {
		return nil, "", err
	}
	if raw == nil {
		return nil, "", apperr.ErrNotFound
	}
	return raw, checksum.Sum(raw), nil
}

// Search looks query up in the index. Without an index it scans the
// vocabulary file for entries containing query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db != nil {
		return s.db.Search(query, limit)
	}
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []index.SearchResult
	for i, e := range entries {
		hay := strings.ToLower(strings.Join([]string{e.Word, e.Meaning, e.Phrase, e.Category}, " "))
		if !strings.Contains(hay, q) {
			continue
		}
		out = append(out, index.SearchResult{
			Path: s.file, Line: i, Word: e.Word, Meaning: e.Meaning,
			Phrase: e.Phrase, Category: e.Category, Snippet: e.Phrase,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Korean returns the Korean vocabulary, or only its beginner view.
func (s *Service) Korean(_ context.Context, beginner bool) (korean.Vocabulary, error) {
	if s.koreanFile == "" {
		return korean.Vocabulary{}, nil
	}
	v, err := korean.Load(s.repo.Store(), s.koreanFile)
	if err != nil {
		return nil, err
	}
	if beginner {
		return v.Beginner(), nil
	}
	return v, nil
}

// Media returns the image or video attached to word. An entry's media
// reference is relative to the data directory and is tried before a lookup
// by word in the media directory.
func (s *Service) Media(ctx context.Context, word string) (media.Item, error) {
	var ref *string
	if e, err := s.Get(ctx, word); err == nil {
		if p, ok := e.MediaPath(); ok {
			abs, err := s.repo.Store().Abs(p)
			if err != nil {
				s.logger.Warn("media reference outside data dir", slog.String("word", e.Word), slog.String("media", p))
			} else {
				ref = &abs
			}
		}
	}
	if s.mediaDir == "" && ref == nil {
		return media.Item{}, apperr.ErrNotFound
	}
	item, ok := media.Resolve(s.mediaDir, word, ref)
	if !ok {
		return media.Item{}, apperr.ErrNotFound
	}
	return item, nil
}

// Audio synthesizes the word (or its phrase) and passes the temporary file
// to use. The file is removed afterwards.
func (s *Service) Audio(ctx context.Context, word string, phrase bool, speed models.Speed, use func(path string) error) error {
	if s.synth == nil {
		return fmt.Errorf("audio: %w", apperr.ErrUnavailable)
	}
	e, err := s.Get(ctx, word)
	if err != nil {
		return err
	}
	req := audio.WordRequest(e, speed)
	if phrase {
		var ok bool
		if req, ok = audio.PhraseRequest(e, speed); !ok {
			return fmt.Errorf("%s has no phrase: %w", e.Word, apperr.ErrNotFound)
		}
	}
	return audio.Play(ctx, s.synth, req, use)
}

// QuizPool returns the words a quiz in category draws from. The Korean
// level quizzes over the Korean vocabulary.
func (s *Service) QuizPool(ctx context.Context, level models.Level, category string) ([]models.Entry, error) {
	if level == models.LevelKorean {
		v, err := s.Korean(ctx, false)
		if err != nil {
			return nil, err
		}
		return v.Entries(category), nil
	}
	return s.List(ctx, category)
}

func (s *Service) reindex() {
	if s.db == nil {
		return
	}
	if _, err := index.Refresh(s.db, s.repo.Store(), s.file); err != nil {
		s.logger.Warn("reindex failed", slog.String("path", s.file), slog.String("error", err.Error()))
	}
}

func (s *Service) emit(eventType string, data any) {
	if s.notify != nil {
		s.notify(eventType, data)
	}
}
