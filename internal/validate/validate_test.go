package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
)

const sepMsg = `Fields cannot contain " | " or line breaks`

func TestEntry(t *testing.T) {
	tests := []struct {
		name                            string
		word, meaning, phrase, category string
		wantOK                          bool
		wantMsg                         string
	}{
		{"valid", "cat", "a small feline", "The cat sleeps.", "general", true, ""},
		{"empty phrase allowed", "cat", "a small feline", "", "general", true, ""},
		{"category case-insensitive", "cat", "feline", "", "General", true, ""},
		{"empty word", "", "a meaning", "a phrase", "general", false, "Word cannot be empty"},
		{"blank word", "   ", "a meaning", "", "general", false, "Word cannot be empty"},
		{"empty meaning", "cat", " \t", "", "general", false, "Meaning cannot be empty"},
		{"empty category", "cat", "meaning", "", "", false, "Category cannot be empty"},
		{"word checked before category", "", "meaning", "", "nope", false, "Word cannot be empty"},
		{"separator in phrase", "hello", "greeting", "Hi | there", "general", false, sepMsg},
		{"separator in word", "a | b", "meaning", "", "general", false, sepMsg},
		{"newline in meaning", "cat", "small\nfeline", "", "general", false, sepMsg},
		{"carriage return in phrase", "cat", "feline", "one\rtwo", "general", false, sepMsg},
		{"ordered rules come first", "", "a | b", "", "general", false, "Word cannot be empty"},
		{"bare pipe allowed", "cat", "feline", "a|b", "general", true, ""},
		{"trailing newline trimmed", "cat\n", "feline", "", "general", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := Entry(tt.word, tt.meaning, tt.phrase, tt.category)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestEntry_InvalidCategory(t *testing.T) {
	ok, msg := Entry("cat", "meaning", "", "invalidcategory")
	assert.False(t, ok)
	assert.Contains(t, msg, "Category must be one of")
	assert.Contains(t, msg, "geography")
}

func TestCheck_Normalises(t *testing.T) {
	got, err := Check(models.Entry{Word: "  run ", Meaning: " move fast ", Phrase: " I run. ", Category: "HEALTH"})
	require.NoError(t, err)
	assert.Equal(t, models.Entry{Word: "run", Meaning: "move fast", Phrase: "I run.", Category: "health"}, got)
}

func TestCheck_Media(t *testing.T) {
	ref := " media/cat.png "
	got, err := Check(models.Entry{Word: "cat", Meaning: "feline", Category: "general", Media: &ref})
	require.NoError(t, err)
	require.NotNil(t, got.Media)
	assert.Equal(t, "media/cat.png", *got.Media)

	blank := "  "
	got, err = Check(models.Entry{Word: "cat", Meaning: "feline", Category: "general", Media: &blank})
	require.NoError(t, err)
	assert.Nil(t, got.Media)

	bad := "cat.png | extra"
	_, err = Check(models.Entry{Word: "cat", Meaning: "feline", Category: "general", Media: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidEntry)
}

func TestCheck_ErrorUnwraps(t *testing.T) {
	_, err := Check(models.Entry{Word: "run", Category: "health"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidEntry))

	msg, ok := Message(err)
	require.True(t, ok)
	assert.Equal(t, "Meaning cannot be empty", msg)
}

func TestPhrase(t *testing.T) {
	ok, msg := Phrase("  ")
	assert.False(t, ok)
	assert.Equal(t, "Phrase cannot be empty", msg)

	ok, msg = Phrase("A new example.")
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = Phrase("Hi | there")
	assert.False(t, ok)
	assert.Equal(t, sepMsg, msg)

	ok, _ = Phrase("line one\nline two")
	assert.False(t, ok)
}
