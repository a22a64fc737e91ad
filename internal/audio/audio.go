// Package audio produces pronunciation audio for words and phrases.
//
// Synthesis itself is delegated to a Synthesizer. Every path a Synthesizer
// returns is a temporary artifact that must be released with Cleanup; Play
// does this on every exit path.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/vocabuild/internal/models"
)

// Request describes one piece of audio to synthesize.
type Request struct {
	Text   string
	Label  string
	Phrase bool
	Speed  models.Speed
}

// Synthesizer turns text into an audio file.
type Synthesizer interface {
	// Synthesize writes audio for req and returns the path of the file.
	Synthesize(ctx context.Context, req Request) (string, error)
	// Cleanup removes a file returned by Synthesize.
	Cleanup(path string) error
}

// WordRequest returns the request for pronouncing the entry's word.
func WordRequest(e models.Entry, speed models.Speed) Request {
	return Request{
		Text:  e.Word,
		Label: "word_" + e.Word,
		Speed: speed,
	}
}

// PhraseRequest returns the request for reading the entry's example
// phrase. It reports false when the entry has no phrase.
func PhraseRequest(e models.Entry, speed models.Speed) (Request, bool) {
	if !e.HasPhrase() {
		return Request{}, false
	}
	return Request{
		Text:   strings.TrimSpace(e.Phrase),
		Label:  "phrase_" + e.Word,
		Phrase: true,
		Speed:  speed,
	}, true
}

// Play synthesizes req, hands the file to use and removes it afterwards,
// whether or not use succeeds.
func Play(ctx context.Context, s Synthesizer, req Request, use func(path string) error) (err error) {
	if strings.TrimSpace(req.Text) == "" {
		return errors.New("audio: empty text")
	}
	path, err := s.Synthesize(ctx, req)
	if err != nil {
		return fmt.Errorf("audio: synthesize %s: %w", req.Label, err)
	}
	defer func() {
		if cerr := s.Cleanup(path); cerr != nil {
			err = errors.Join(err, fmt.Errorf("audio: cleanup %s: %w", path, cerr))
		}
	}()
	return use(path)
}
