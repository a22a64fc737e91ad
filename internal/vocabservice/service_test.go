package vocabservice

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/apperr"
	"github.com/starford/vocabuild/internal/audio"
	"github.com/starford/vocabuild/internal/checksum"
	"github.com/starford/vocabuild/internal/models"
	"github.com/starford/vocabuild/internal/testutil"
	"github.com/starford/vocabuild/internal/validate"
	"github.com/starford/vocabuild/internal/vocab"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) notify(eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

type stubSynth struct{ dir string }

func (s stubSynth) Synthesize(_ context.Context, req audio.Request) (string, error) {
	p := filepath.Join(s.dir, "out.wav")
	return p, os.WriteFile(p, []byte(req.Text), 0o644)
}

func (stubSynth) Cleanup(path string) error { return os.Remove(path) }

func newService(t *testing.T, seed ...models.Entry) (*Service, *recorder, string) {
	t.Helper()
	dir, repo := testutil.TestRepo(t, seed...)
	rec := &recorder{}
	svc := New(Options{
		Repo:       repo,
		DB:         testutil.TestDB(t),
		File:       testutil.VocabularyFile,
		KoreanFile: "korean.json",
		MediaDir:   filepath.Join(dir, "media"),
		Synth:      stubSynth{dir: t.TempDir()},
		Notify:     rec.notify,
	})
	return svc, rec, dir
}

func TestListAndGet(t *testing.T) {
	svc, _, _ := newService(t, testutil.Entries()...)
	ctx := context.Background()

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	general, err := svc.List(ctx, "GENERAL")
	require.NoError(t, err)
	assert.Len(t, general, 4)

	e, err := svc.Get(ctx, "ATOM")
	require.NoError(t, err)
	assert.Equal(t, "science", e.Category)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdd(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Add(ctx, models.Entry{Word: " run ", Meaning: "move fast", Category: "Health"})
	require.NoError(t, err)
	assert.True(t, res.MissingPhrase)
	assert.Equal(t, "run", res.Entry.Word)
	assert.Equal(t, "health", res.Entry.Category)

	_, err = svc.Add(ctx, models.Entry{Word: "x", Meaning: "y", Category: "cooking"})
	require.ErrorIs(t, err, apperr.ErrInvalidEntry)
	msg, _ := validate.Message(err)
	assert.Contains(t, msg, "Category must be one of")

	entries, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	results, err := svc.Search(ctx, "move fast", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1, "added entry is indexed")
	assert.Equal(t, []string{EventEntryAdded}, rec.events)
}

func TestUpdatePhrase(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Entries()...)
	ctx := context.Background()

	e, err := svc.UpdatePhrase(ctx, "House", "Our house is blue.")
	require.NoError(t, err)
	assert.Equal(t, "Our house is blue.", e.Phrase)

	_, err = svc.UpdatePhrase(ctx, "house", "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidEntry)

	_, err = svc.UpdatePhrase(ctx, "ghost", "Boo.")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{EventPhraseUpdated}, rec.events)
}

func TestAdd_MediaReferenceSurvivesReload(t *testing.T) {
	svc, _, dir := newService(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pictures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pictures", "kitten.jpg"), []byte("jpg"), 0o644))

	ref := "pictures/kitten.jpg"
	_, err := svc.Add(ctx, models.Entry{Word: "cat", Meaning: "feline", Category: "general", Media: &ref})
	require.NoError(t, err)

	e, err := svc.Get(ctx, "cat")
	require.NoError(t, err)
	require.NotNil(t, e.Media)
	assert.Equal(t, ref, *e.Media)

	item, err := svc.Media(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pictures", "kitten.jpg"), item.Path)
	assert.Equal(t, "image", string(item.Kind))
}

func TestUpdatePhrase_SeparatorRejected(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Entries()...)
	ctx := context.Background()

	_, err := svc.UpdatePhrase(ctx, "hello", "Hi | there")
	require.ErrorIs(t, err, apperr.ErrInvalidEntry)

	e, err := svc.Get(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "general", e.Category)
	assert.Equal(t, "Hello, how are you?", e.Phrase)
	assert.Empty(t, rec.events)

	_, err = svc.Add(ctx, models.Entry{Word: "split", Meaning: "a\nb", Category: "general"})
	assert.ErrorIs(t, err, apperr.ErrInvalidEntry)
}

func TestLoadLevelAndStats(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Entries()...)
	ctx := context.Background()

	n, err := svc.LoadLevel(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 160, n)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 160, stats.Total)
	for _, c := range models.Categories {
		assert.Equal(t, 20, stats.ByCategory[c])
	}
	assert.NotEmpty(t, stats.Checksum)

	_, err = svc.LoadLevel(ctx, 4)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.LoadLevel(ctx, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{EventPoolLoaded}, rec.events)
}

func TestStats_CountsMatchChecksum(t *testing.T) {
	svc, _, dir := newService(t)
	data := "sun | a star | The sun is hot. | science\nbroken line\n\nrain | water from clouds |  | geography\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, testutil.VocabularyFile), []byte(data), 0o644))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, checksum.Sum([]byte(data)), stats.Checksum)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByCategory[models.CategoryScience])
	assert.Equal(t, 1, stats.ByCategory[models.CategoryGeography])
}

func TestRaw(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, err := svc.Raw(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	svc, _, _ = newService(t, testutil.Entries()...)
	raw, cs, err := svc.Raw(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello | a greeting")
	assert.Len(t, cs, 64)
}

func TestSearch_WithoutIndex(t *testing.T) {
	_, repo := testutil.TestRepo(t, testutil.Entries()...)
	svc := New(Options{Repo: repo, File: testutil.VocabularyFile})

	results, err := svc.Search(context.Background(), "MATTER", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "atom", results[0].Word)
}

func TestQuizSessions(t *testing.T) {
	svc, _, _ := newService(t, testutil.Entries()...)
	ctx := context.Background()

	c := svc.Sessions().Create(models.LevelBeginner)
	assert.Equal(t, 1, svc.Sessions().Len())

	q, err := svc.StartQuiz(ctx, c.ID, "general")
	require.NoError(t, err)
	assert.Len(t, q.Options, 4)

	_, err = svc.StartQuiz(ctx, c.ID, "science")
	assert.ErrorIs(t, err, apperr.ErrInsufficientPool)

	out, tally, err := svc.Answer(ctx, c.ID, "general", q.Target.Word)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 100.0, tally.Accuracy())

	_, _, err = svc.Answer(ctx, "nope", "general", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.Sessions().Delete(c.ID))
	assert.ErrorIs(t, svc.Sessions().Delete(c.ID), apperr.ErrNotFound)
}

func TestKorean(t *testing.T) {
	svc, _, dir := newService(t)
	ctx := context.Background()

	v, err := svc.Korean(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, v)

	content := `{"general":[{"word":"하나","meaning":"one"},{"word":"둘","meaning":"two"},{"word":"셋","meaning":"three"},{"word":"넷","meaning":"four"}],"food":[{"word":"밥"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "korean.json"), []byte(content), 0o644))

	v, err = svc.Korean(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"general"}, v.Categories())

	c := svc.Sessions().Create(models.LevelKorean)
	q, err := svc.StartQuiz(ctx, c.ID, "general")
	require.NoError(t, err)
	assert.Len(t, q.Options, 4)
}

func TestMediaAndAudio(t *testing.T) {
	svc, _, dir := newService(t, testutil.Entries()...)
	ctx := context.Background()

	_, err := svc.Media(ctx, "hello")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "media"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "media", "hello.png"), []byte("png"), 0o644))
	item, err := svc.Media(ctx, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "image", string(item.Kind))

	var spoken string
	err = svc.Audio(ctx, "hello", true, models.SpeedSlow, func(path string) error {
		b, err := os.ReadFile(path)
		spoken = string(b)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, how are you?", spoken)

	err = svc.Audio(ctx, "house", true, models.SpeedNormal, func(string) error { return nil })
	assert.ErrorIs(t, err, apperr.ErrNotFound, "house has no phrase")

	bare := New(Options{Repo: vocab.NewRepository(nil), File: testutil.VocabularyFile})
	err = bare.Audio(ctx, "hello", false, models.SpeedNormal, func(string) error { return nil })
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}
