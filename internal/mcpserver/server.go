// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes vocabulary tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/quiz"
	"github.com/starford/vocabuild/internal/validate"
	"github.com/starford/vocabuild/internal/vocabfile"
	"github.com/starford/vocabuild/internal/vocabservice"
)

const formatURI = "vocab://entry-format"

// FormatContract describes the vocabulary line format for agents adding words.
var FormatContract = `# Vocabulary entry format

One entry per line, four fields separated by "` + vocabfile.Separator + `":

    word | meaning | phrase | category

- word, meaning and category are required.
- phrase may be empty; the line then reads "word | meaning |  | category".
- category is one of: ` + strings.Join(models.CategoryNames(), ", ") + `.
- Fields must not contain the separator.
- Lines with fewer than four fields are ignored when reading.
`

// Server wraps the MCP server with vocabulary tools.
type Server struct {
	mcp *server.MCPServer
	svc *vocabservice.Service
}

// New creates a new MCP server with all vocabulary tools registered.
func New(svc *vocabservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vocabuild",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_words",
		mcp.WithDescription("Full-text search through words, meanings and example phrases."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchWords)

	s.mcp.AddTool(mcp.NewTool("list_words",
		mcp.WithDescription("List vocabulary entries, optionally restricted to one category."),
		mcp.WithString("category", mcp.Description("Optional category (case-insensitive, empty for all)")),
	), s.listWords)

	s.mcp.AddTool(mcp.NewTool("get_word",
		mcp.WithDescription("Get the first entry for a word."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Word to look up (case-insensitive)")),
	), s.getWord)

	s.mcp.AddTool(mcp.NewTool("add_word",
		mcp.WithDescription("Add a vocabulary entry. Read the entry format first via "+
			"the vocab://entry-format resource."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word")),
		mcp.WithString("meaning", mcp.Required(), mcp.Description("Its meaning")),
		mcp.WithString("phrase", mcp.Description("An example phrase using the word")),
		mcp.WithString("category", mcp.Required(), mcp.Description("One of the fixed categories")),
	), s.addWord)

	s.mcp.AddTool(mcp.NewTool("update_phrase",
		mcp.WithDescription("Replace the example phrase of the first entry matching a word."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Word to edit (case-insensitive)")),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("New, non-empty phrase")),
	), s.updatePhrase)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Count vocabulary entries per category."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("load_level",
		mcp.WithDescription("Replace the whole vocabulary with the predefined word pool of a level."),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("Level 1 (beginner), 2 (intermediate) or 3 (advanced)")),
	), s.loadLevel)

	s.mcp.AddTool(mcp.NewTool("start_quiz",
		mcp.WithDescription("Draw a multiple-choice question from a category. "+
			"Omit session_id to open a new study session."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category to quiz")),
		mcp.WithString("session_id", mcp.Description("Study session returned by an earlier start_quiz")),
		mcp.WithNumber("level", mcp.Description("Level for a new session (default 1, 4 for Korean)")),
	), s.startQuiz)

	s.mcp.AddTool(mcp.NewTool("answer_quiz",
		mcp.WithDescription("Answer the current question of a category."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Study session id")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category of the question")),
		mcp.WithString("choice", mcp.Required(), mcp.Description("The chosen word")),
	), s.answerQuiz)

	s.mcp.AddTool(mcp.NewTool("korean_words",
		mcp.WithDescription("List the Korean vocabulary by category."),
		mcp.WithBoolean("beginner", mcp.Description("Only the beginner view")),
	), s.koreanWords)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Vocabulary Entry Format",
			mcp.WithResourceDescription("Line format of the vocabulary file."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	if msg, ok := validate.Message(err); ok {
		return mcp.NewToolResultError(msg)
	}
	if errors.Is(err, apperr.ErrInsufficientPool) {
		return mcp.NewToolResultError(fmt.Sprintf("not enough words in this category for a quiz, add at least %d", quiz.MinWords))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) searchWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(results)
}

func (s *Server) listWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.svc.List(ctx, req.GetString("category", ""))
	if err != nil {
		return errorResult(err), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no words found"), nil
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s (%s): %s", e.Word, e.Category, e.Meaning)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.Get(ctx, word)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", word)), nil
	}
	return jsonResult(e)
}

func (s *Server) addWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Add(ctx, models.Entry{
		Word:     req.GetString("word", ""),
		Meaning:  req.GetString("meaning", ""),
		Phrase:   req.GetString("phrase", ""),
		Category: req.GetString("category", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	msg := fmt.Sprintf("added: %s (%s)", res.Entry.Word, res.Entry.Category)
	if res.MissingPhrase {
		msg += "\nwarning: no example phrase given"
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) updatePhrase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.UpdatePhrase(ctx, word, req.GetString("phrase", ""))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", word)), nil
		}
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s -> %s", e.Word, e.Phrase)), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	lines := make([]string, 0, len(models.Categories)+1)
	for _, c := range models.Categories {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Title(), stats.ByCategory[c]))
	}
	lines = append(lines, fmt.Sprintf("total: %d", stats.Total))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) loadLevel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := req.RequireInt("level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.LoadLevel(ctx, level)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("loaded level %d: %d words", level, n)), nil
}

type question struct {
	SessionID string   `json:"session_id"`
	Category  string   `json:"category"`
	Meaning   string   `json:"meaning"`
	Phrase    string   `json:"phrase,omitempty"`
	Options   []string `json:"options"`
}

func (s *Server) startQuiz(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := req.GetString("session_id", "")
	if id == "" {
		level, err := models.ParseLevel(req.GetInt("level", int(models.LevelBeginner)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id = s.svc.Sessions().Create(level).ID
	}
	q, err := s.svc.StartQuiz(ctx, id, category)
	if err != nil {
		return errorResult(err), nil
	}
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Word
	}
	return jsonResult(question{
		SessionID: id,
		Category:  category,
		Meaning:   q.Target.Meaning,
		Phrase:    q.Clue(),
		Options:   opts,
	})
}

func (s *Server) answerQuiz(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	choice, err := req.RequireString("choice")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, tally, err := s.svc.Answer(ctx, id, category, choice)
	if err != nil {
		return errorResult(err), nil
	}
	verdict := "Correct!"
	if !out.Correct {
		verdict = fmt.Sprintf("Wrong. The correct word is %q.", out.CorrectWord)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\nscore: %d/%d (%.1f%%)",
		verdict, tally.Score, tally.Attempts, tally.Accuracy())), nil
}

func (s *Server) koreanWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := s.svc.Korean(ctx, req.GetBool("beginner", false))
	if err != nil {
		return errorResult(err), nil
	}
	if v.Total() == 0 {
		return mcp.NewToolResultText("no Korean words found"), nil
	}
	return jsonResult(v)
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     FormatContract,
		},
	}, nil
}
