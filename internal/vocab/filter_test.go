package vocab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabuild/internal/models"
)

var sample = []models.Entry{
	{Word: "hello", Meaning: "greeting", Category: "general"},
	{Word: "atom", Meaning: "particle", Category: "science"},
	{Word: "thanks", Meaning: "gratitude", Category: "General"},
	{Word: "run", Meaning: "move fast", Category: "health"},
	{Word: "yes", Meaning: "affirmative", Category: "GENERAL"},
	{Word: "odd", Meaning: "unknown bucket", Category: "cooking"},
}

func TestFilter_CaseInsensitiveAndOrdered(t *testing.T) {
	lower := Filter(sample, "general")
	upper := Filter(sample, "General")
	assert.Equal(t, lower, upper)

	require.Len(t, lower, 3)
	assert.Equal(t, []string{"hello", "thanks", "yes"}, []string{lower[0].Word, lower[1].Word, lower[2].Word})
	for _, e := range lower {
		assert.True(t, strings.EqualFold(e.Category, "general"))
	}
}

func TestFilter_EmptyResults(t *testing.T) {
	got := Filter(nil, "general")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Filter(sample, "travel")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	before := append([]models.Entry(nil), sample...)
	_ = Filter(sample, "science")
	assert.Equal(t, before, sample)
}

func TestCountByCategory(t *testing.T) {
	counts := CountByCategory(sample)
	assert.Len(t, counts, len(models.Categories))
	assert.Equal(t, 3, counts[models.CategoryGeneral])
	assert.Equal(t, 1, counts[models.CategoryScience])
	assert.Equal(t, 0, counts[models.CategoryTravel])
}

func TestFind(t *testing.T) {
	e, ok := Find(sample, "ATOM")
	require.True(t, ok)
	assert.Equal(t, "particle", e.Meaning)

	_, ok = Find(sample, "missing")
	assert.False(t, ok)
}
