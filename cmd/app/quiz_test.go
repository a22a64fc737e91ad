package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/testutil"
	"github.com/starford/vocabuild/internal/vocabservice"
)

func init() {
	color.NoColor = true
}

func newService(t *testing.T, seed ...models.Entry) *vocabservice.Service {
	t.Helper()
	_, repo := testutil.TestRepo(t, seed...)
	return vocabservice.New(vocabservice.Options{Repo: repo, File: testutil.VocabularyFile})
}

func TestRunQuiz_AnswersByNumberAndWord(t *testing.T) {
	svc := newService(t, testutil.Entries()...)
	var out bytes.Buffer

	in := strings.NewReader("1\nnonsense\nhello\nq\n")
	require.NoError(t, runQuiz(context.Background(), svc, models.LevelBeginner, "general", in, &out))

	text := out.String()
	assert.Contains(t, text, "Beginner quiz: General")
	assert.Contains(t, text, "Pick 1-4.")
	assert.Contains(t, text, "Final score: ")
	assert.Contains(t, text, "/2 (")
	assert.Equal(t, 0, svc.Sessions().Len(), "session is closed")
}

func TestRunQuiz_InsufficientPool(t *testing.T) {
	svc := newService(t, testutil.Entries()...)
	var out bytes.Buffer

	require.NoError(t, runQuiz(context.Background(), svc, models.LevelBeginner, "science", strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Not enough words in this category for a quiz. Add at least 4.")
}

func TestRunQuiz_EndOfInput(t *testing.T) {
	svc := newService(t, testutil.Entries()...)
	var out bytes.Buffer

	require.NoError(t, runQuiz(context.Background(), svc, models.LevelBeginner, "general", strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Final score: 0/0 (0.0%)")
}

func TestPrintEntries(t *testing.T) {
	var out bytes.Buffer
	printEntries(&out, testutil.Entries()[2:4])
	assert.Equal(t, "friend [general]\n  a person you like\n  \"She is my friend.\"\nhouse [general]\n  a home\n", out.String())

	out.Reset()
	printEntries(&out, nil)
	assert.Equal(t, "No words yet.\n", out.String())
}

func TestPrintStats(t *testing.T) {
	var out bytes.Buffer
	printStats(&out, &vocabservice.Stats{
		Total:      3,
		ByCategory: map[models.Category]int{models.CategoryGeneral: 2, models.CategoryHealth: 1},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(models.Categories)+1)
	assert.Equal(t, "General        2", lines[0])
	assert.Equal(t, "Health         1", lines[7])
	assert.Equal(t, "Total          3", lines[8])
}
