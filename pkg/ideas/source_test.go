package ideas

import (
	"testing"

	"github.com/reelay/reelay/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceNextCyclesCatalogExactlyOnce(t *testing.T) {
	source := NewSource(nil)
	n := source.Len()
	require.Positive(t, n)

	seen := make(map[string]int)
	index := 0

	var idea models.Idea
	for range n {
		idea, index = source.Next(index)
		seen[idea.Slug]++
	}

	// One full cycle visits every idea exactly once and wraps back
	// to the start.
	assert.Len(t, seen, n)
	for slug, count := range seen {
		assert.Equal(t, 1, count, "idea %s selected more than once per cycle", slug)
	}

	assert.Equal(t, 0, index)

	first, _ := source.Next(0)
	again, _ := source.Next(index)
	assert.Equal(t, first.Slug, again.Slug)
}

func TestSourceNextWrapsOutOfRangeIndex(t *testing.T) {
	source := NewSource(nil)
	n := source.Len()

	fromZero, next := source.Next(0)
	fromWrapped, _ := source.Next(n)

	assert.Equal(t, fromZero.Slug, fromWrapped.Slug)
	assert.Equal(t, 1, next)
}

func TestSourceBySlug(t *testing.T) {
	source := NewSource(nil)

	idea, err := source.BySlug("baby-goat-happy-hops")
	require.NoError(t, err)
	assert.Equal(t, "baby-goat-happy-hops", idea.Slug)
	assert.NotEmpty(t, idea.CoreHook)

	_, err = source.BySlug("no-such-idea")
	assert.ErrorIs(t, err, ErrIdeaNotFound)
}

func TestSourceAdd(t *testing.T) {
	source := NewSource(nil)
	before := source.Len()

	pos := source.Add(models.Idea{Slug: "custom-idea", CoreHook: "A custom hook."})

	assert.Equal(t, before, pos)
	assert.Equal(t, before+1, source.Len())

	idea, err := source.BySlug("custom-idea")
	require.NoError(t, err)
	assert.Equal(t, "A custom hook.", idea.CoreHook)
}

func TestSourceRandomReturnsCatalogEntry(t *testing.T) {
	source := NewSource(nil)

	idea := source.Random()

	_, err := source.BySlug(idea.Slug)
	assert.NoError(t, err)
}
