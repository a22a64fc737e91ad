package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/starford/vocabuild/internal"
	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/korean"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/validate"
	"github.com/starford/vocabuild/internal/vocabservice"
)

var (
	heading = color.New(color.FgHiCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

// withService opens the stack for a one-shot command. Logs go to stderr and
// only warnings are shown.
func withService(cmd *cli.Command, fn func(svc *vocabservice.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.App.LogLevel = max(cfg.App.LogLevel, slog.LevelWarn)

	stack, err := internal.Open(internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer stack.Close()
	return fn(stack.Service)
}

// userError turns validation and lookup failures into a short message.
func userError(err error) error {
	if msg, ok := validate.Message(err); ok {
		return errors.New(msg)
	}
	return err
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a word to the vocabulary",
		ArgsUsage: "WORD MEANING [PHRASE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"k"}, Value: string(models.CategoryGeneral),
				Usage: "One of: " + strings.Join(models.CategoryNames(), ", ")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return fmt.Errorf("add needs WORD and MEANING")
			}
			e := models.Entry{
				Word:     cmd.Args().Get(0),
				Meaning:  cmd.Args().Get(1),
				Phrase:   cmd.Args().Get(2),
				Category: cmd.String("category"),
			}
			return withService(cmd, func(svc *vocabservice.Service) error {
				res, err := svc.Add(ctx, e)
				if err != nil {
					return userError(err)
				}
				printAdded(os.Stdout, res)
				return nil
			})
		},
	}
}

func printAdded(w io.Writer, res *vocabservice.AddResult) {
	success.Fprintf(w, "Added %q to %s.\n", res.Entry.Word, models.Category(res.Entry.Category).Title())
	if res.MissingPhrase {
		warning.Fprintln(w, "Warning: no example phrase given.")
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List vocabulary entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"k"}, Usage: "Only this category"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *vocabservice.Service) error {
				entries, err := svc.List(ctx, cmd.String("category"))
				if err != nil {
					return err
				}
				printEntries(os.Stdout, entries)
				return nil
			})
		},
	}
}

func printEntries(w io.Writer, entries []models.Entry) {
	if len(entries) == 0 {
		warning.Fprintln(w, "No words yet.")
		return
	}
	for _, e := range entries {
		heading.Fprintf(w, "%s", e.Word)
		faint.Fprintf(w, " [%s]\n", e.Category)
		fmt.Fprintf(w, "  %s\n", e.Meaning)
		if e.HasPhrase() {
			fmt.Fprintf(w, "  %q\n", e.Phrase)
		}
	}
}

func updatePhraseCommand() *cli.Command {
	return &cli.Command{
		Name:      "update-phrase",
		Usage:     "Replace the example phrase of a word",
		ArgsUsage: "WORD PHRASE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return fmt.Errorf("update-phrase needs WORD and PHRASE")
			}
			word := cmd.Args().Get(0)
			return withService(cmd, func(svc *vocabservice.Service) error {
				e, err := svc.UpdatePhrase(ctx, word, cmd.Args().Get(1))
				if errors.Is(err, apperr.ErrNotFound) {
					return fmt.Errorf("word %q not found", word)
				}
				if err != nil {
					return userError(err)
				}
				success.Fprintf(os.Stdout, "Updated phrase for %q.\n", e.Word)
				return nil
			})
		},
	}
}

func loadLevelCommand() *cli.Command {
	return &cli.Command{
		Name:      "load-level",
		Usage:     "Replace the vocabulary with a predefined word pool",
		ArgsUsage: "LEVEL (1-3)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var level int
			if _, err := fmt.Sscan(cmd.Args().First(), &level); err != nil {
				return fmt.Errorf("level must be 1, 2 or 3")
			}
			return withService(cmd, func(svc *vocabservice.Service) error {
				n, err := svc.LoadLevel(ctx, level)
				if err != nil {
					return err
				}
				l, _ := models.ParseLevel(level)
				success.Fprintf(os.Stdout, "Loaded %d %s words.\n", n, l.Name())
				return nil
			})
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Count words per category",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *vocabservice.Service) error {
				stats, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				printStats(os.Stdout, stats)
				return nil
			})
		},
	}
}

func printStats(w io.Writer, stats *vocabservice.Stats) {
	for _, c := range models.Categories {
		fmt.Fprintf(w, "%-12s %3d\n", c.Title(), stats.ByCategory[c])
	}
	heading.Fprintf(w, "%-12s %3d\n", "Total", stats.Total)
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search words, meanings and phrases",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "Max results"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			q := strings.Join(cmd.Args().Slice(), " ")
			if q == "" {
				return fmt.Errorf("search needs a QUERY")
			}
			return withService(cmd, func(svc *vocabservice.Service) error {
				results, err := svc.Search(ctx, q, int(cmd.Int("limit")))
				if err != nil {
					return err
				}
				if len(results) == 0 {
					warning.Fprintln(os.Stdout, "No matches.")
					return nil
				}
				for _, r := range results {
					heading.Fprintf(os.Stdout, "%s", r.Word)
					faint.Fprintf(os.Stdout, " [%s] %s:%d\n", r.Category, r.Path, r.Line+1)
					fmt.Fprintf(os.Stdout, "  %s\n", r.Meaning)
				}
				return nil
			})
		},
	}
}

func quizCommand() *cli.Command {
	return &cli.Command{
		Name:  "quiz",
		Usage: "Run an interactive multiple-choice quiz",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"k"}, Value: string(models.CategoryGeneral), Usage: "Category to quiz"},
			&cli.IntFlag{Name: "level", Value: int64(models.LevelBeginner), Usage: "Study level (4 quizzes the Korean words)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := models.ParseLevel(int(cmd.Int("level")))
			if err != nil {
				return err
			}
			return withService(cmd, func(svc *vocabservice.Service) error {
				return runQuiz(ctx, svc, level, cmd.String("category"), os.Stdin, os.Stdout)
			})
		},
	}
}

func koreanCommand() *cli.Command {
	return &cli.Command{
		Name:  "korean",
		Usage: "Show the Korean vocabulary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "beginner", Usage: "Only the beginner view"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withService(cmd, func(svc *vocabservice.Service) error {
				v, err := svc.Korean(ctx, cmd.Bool("beginner"))
				if err != nil {
					return err
				}
				printKorean(os.Stdout, v)
				return nil
			})
		},
	}
}

func printKorean(w io.Writer, v korean.Vocabulary) {
	if v.Total() == 0 {
		warning.Fprintln(w, "No Korean words found.")
		return
	}
	for _, c := range v.Categories() {
		heading.Fprintf(w, "%s (%d)\n", models.Category(c).Title(), len(v.Words(c)))
		for _, kw := range v.Words(c) {
			fmt.Fprintf(w, "  %s - %s\n", kw.Word, kw.MeaningOr("(no meaning)"))
			if p, ok := kw.KoreanPhraseText(); ok {
				fmt.Fprintf(w, "    %s\n", p)
			}
			if p, ok := kw.EnglishPhrase(); ok {
				faint.Fprintf(w, "    %s\n", p)
			}
			if kw.HasKoreanExpressions() {
				fmt.Fprintf(w, "    %s\n", strings.Join(kw.KoreanExpressions, ", "))
			}
			if kw.HasExpressions() {
				faint.Fprintf(w, "    %s\n", strings.Join(kw.Expressions, ", "))
			}
		}
	}
}

func speakCommand() *cli.Command {
	return &cli.Command{
		Name:      "speak",
		Usage:     "Write the pronunciation of a word to a WAV file",
		ArgsUsage: "WORD",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "phrase", Usage: "Pronounce the example phrase instead"},
			&cli.StringFlag{Name: "speed", Value: string(models.SpeedNormal), Usage: "normal, 0.9 or 0.8"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Output WAV file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			speed, err := models.ParseSpeed(cmd.String("speed"))
			if err != nil {
				return err
			}
			word := cmd.Args().First()
			return withService(cmd, func(svc *vocabservice.Service) error {
				return svc.Audio(ctx, word, cmd.Bool("phrase"), speed, func(path string) error {
					return copyFile(path, cmd.String("out"))
				})
			})
		},
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
