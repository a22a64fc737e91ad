// Package validate checks candidate vocabulary entries before they are stored.
package validate

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/vocabfile"
)

var (
	wordRules = []validation.Rule{
		validation.Required.Error("Word cannot be empty"),
	}
	meaningRules = []validation.Rule{
		validation.Required.Error("Meaning cannot be empty"),
	}
	phraseRules = []validation.Rule{
		validation.Required.Error("Phrase cannot be empty"),
		singleField,
	}
	categoryRules = []validation.Rule{
		validation.Required.Error("Category cannot be empty"),
		validation.In(lo.ToAnySlice(models.CategoryNames())...).
			Error(fmt.Sprintf("Category must be one of: %s", strings.Join(models.CategoryNames(), ", "))),
	}
	// singleField keeps a value from spilling into the next field or line.
	singleField = validation.By(func(v any) error {
		if s, _ := v.(string); !vocabfile.Clean(s) {
			return errors.New(`Fields cannot contain " | " or line breaks`)
		}
		return nil
	})
)

// Entry validates the raw fields of an entry. Rules are checked in order
// (word, meaning, category) and the first failure wins. An empty phrase is
// accepted. After those rules, no field may contain the file separator or a
// line break. On success the message is empty.
func Entry(word, meaning, phrase, category string) (bool, string) {
	checks := []struct {
		value string
		rules []validation.Rule
	}{
		{strings.TrimSpace(word), wordRules},
		{strings.TrimSpace(meaning), meaningRules},
		{strings.ToLower(strings.TrimSpace(category)), categoryRules},
	}
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return false, err.Error()
		}
	}
	for _, v := range []string{word, meaning, phrase, category} {
		if err := validation.Validate(strings.TrimSpace(v), singleField); err != nil {
			return false, err.Error()
		}
	}
	return true, ""
}

// Phrase validates an edited example phrase. Unlike Entry, editing a
// phrase to nothing is rejected.
func Phrase(phrase string) (bool, string) {
	if err := validation.Validate(strings.TrimSpace(phrase), phraseRules...); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Error is returned by Check when an entry fails validation. It unwraps to
// apperr.ErrInvalidEntry.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return apperr.ErrInvalidEntry }

// Message extracts the human-readable validation message from err, if any.
func Message(err error) (string, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	return "", false
}

// Check validates an entry and returns a normalised copy: word, meaning,
// phrase and media trimmed, category lower-cased, an empty media reference
// dropped.
func Check(e models.Entry) (models.Entry, error) {
	if ok, msg := Entry(e.Word, e.Meaning, e.Phrase, e.Category); !ok {
		return models.Entry{}, &Error{Message: msg}
	}
	if e.Media != nil {
		ref := strings.TrimSpace(*e.Media)
		if err := validation.Validate(ref, singleField); err != nil {
			return models.Entry{}, &Error{Message: err.Error()}
		}
		e.Media = nil
		if ref != "" {
			e.Media = &ref
		}
	}
	e.Word = strings.TrimSpace(e.Word)
	e.Meaning = strings.TrimSpace(e.Meaning)
	e.Phrase = strings.TrimSpace(e.Phrase)
	e.Category = strings.ToLower(strings.TrimSpace(e.Category))
	return e, nil
}
