package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/quiz"
	"github.com/starford/vocabuild/internal/vocabservice"
)

// runQuiz asks questions from category until the learner types q or the
// input ends. Answers are given by option number or by the word itself.
func runQuiz(ctx context.Context, svc *vocabservice.Service, level models.Level, category string, in io.Reader, out io.Writer) error {
	session := svc.Sessions().Create(level)
	defer svc.Sessions().Delete(session.ID)

	scanner := bufio.NewScanner(in)
	heading.Fprintf(out, "%s quiz: %s\n", level.Name(), models.Category(category).Title())
	faint.Fprintln(out, "Answer with a number or the word, q to stop.")

	for {
		q, err := svc.StartQuiz(ctx, session.ID, category)
		if errors.Is(err, apperr.ErrInsufficientPool) {
			warning.Fprintf(out, "Not enough words in this category for a quiz. Add at least %d.\n", quiz.MinWords)
			return nil
		}
		if err != nil {
			return err
		}

		printQuestion(out, q)
		choice, ok := readChoice(scanner, out, q)
		if !ok {
			break
		}
		res, tally, err := svc.Answer(ctx, session.ID, category, choice)
		if err != nil {
			return err
		}
		if res.Correct {
			success.Fprintln(out, "Correct!")
		} else {
			failure.Fprintf(out, "Wrong. The answer was %q.\n", res.CorrectWord)
		}
		faint.Fprintf(out, "Score: %d/%d (%.1f%%)\n\n", tally.Score, tally.Attempts, tally.Accuracy())
	}

	t := session.Tally()
	heading.Fprintf(out, "Final score: %d/%d (%.1f%%)\n", t.Score, t.Attempts, t.Accuracy())
	return nil
}

func printQuestion(out io.Writer, q quiz.Session) {
	fmt.Fprintf(out, "Meaning: %s\n", q.Target.Meaning)
	if clue := q.Clue(); clue != "" {
		fmt.Fprintf(out, "Example: %s\n", clue)
	}
	for i, o := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, o.Word)
	}
}

// readChoice reads lines until it gets a valid option. It returns false
// when the learner quits or the input ends.
func readChoice(scanner *bufio.Scanner, out io.Writer, q quiz.Session) (string, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return "", false
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "q") {
			return "", false
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Word, true
		}
		for _, o := range q.Options {
			if o.Word == line {
				return o.Word, true
			}
		}
		warning.Fprintf(out, "Pick 1-%d.\n", len(q.Options))
	}
}
