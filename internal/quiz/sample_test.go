package quiz

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

func card(q, a string, tags ...string) domain.Flashcard {
	return domain.Flashcard{Question: q, Answer: a, Tags: tags}
}

func TestSampleQuestionNeverOffersCorrectAsDistractor(t *testing.T) {
	pool := []domain.Flashcard{
		card("Capital of France?", "Paris"),
		card("City of light?", "Paris"),
		card("Capital of Italy?", "Rome"),
		card("Eternal city?", "Rome"),
		card("Capital of Spain?", "Madrid"),
		card("Capital of Germany?", "Berlin"),
	}
	for seed := uint64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		q, err := SampleQuestion(rng, pool, pool, DefaultAlternatives)
		require.NoError(t, err)

		count := 0
		seen := map[string]bool{}
		for _, o := range q.Options {
			assert.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
			if o == q.Correct() {
				count++
			}
		}
		assert.Equal(t, 1, count, "seed %d: %v", seed, q.Options)
		assert.Len(t, q.Options, DefaultAlternatives)
		assert.NoError(t, q.Warning)
	}
}

func TestSampleQuestionPrefersPool(t *testing.T) {
	pool := []domain.Flashcard{
		card("p1", "a1", "t"), card("p2", "a2", "t"), card("p3", "a3", "t"), card("p4", "a4", "t"),
	}
	full := append([]domain.Flashcard{card("o1", "other1"), card("o2", "other2")}, pool...)

	for seed := uint64(0); seed < 50; seed++ {
		q, err := SampleQuestion(rand.New(rand.NewPCG(seed, 7)), pool, full, DefaultAlternatives)
		require.NoError(t, err)
		for _, o := range q.Options {
			assert.NotContains(t, []string{"other1", "other2"}, o)
		}
	}
}

func TestSampleQuestionTopsUpFromFullStore(t *testing.T) {
	pool := []domain.Flashcard{card("p1", "a1", "t"), card("p2", "a2", "t")}
	full := append([]domain.Flashcard{card("o1", "other1"), card("o2", "other2"), card("o3", "a1")}, pool...)

	q, err := SampleQuestion(rand.New(rand.NewPCG(3, 4)), pool, full, DefaultAlternatives)
	require.NoError(t, err)
	assert.Len(t, q.Options, DefaultAlternatives)
	assert.NoError(t, q.Warning)
	assert.ElementsMatch(t, []string{"a1", "a2", "other1", "other2"}, q.Options)
}

func TestSampleQuestionTooFewDistractors(t *testing.T) {
	pool := []domain.Flashcard{
		card("q1", "same"), card("q2", "same"), card("q3", "same"), card("q4", "different"),
	}
	q, err := SampleQuestion(rand.New(rand.NewPCG(1, 1)), pool, pool, DefaultAlternatives)
	require.NoError(t, err)
	assert.ErrorIs(t, q.Warning, apperr.ErrTooFewDistractors)
	assert.Len(t, q.Options, 2)
	assert.ElementsMatch(t, []string{"same", "different"}, q.Options)
}

func TestSampleQuestionEmptyPool(t *testing.T) {
	_, err := SampleQuestion(rand.New(rand.NewPCG(1, 1)), nil, nil, DefaultAlternatives)
	assert.ErrorIs(t, err, apperr.ErrInsufficientFlashcards)
}

func TestSampleQuestionIsUniformEnough(t *testing.T) {
	var pool []domain.Flashcard
	for i := 0; i < 4; i++ {
		pool = append(pool, card(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}
	rng := rand.New(rand.NewPCG(42, 42))
	counts := map[string]int{}
	firstSlot := map[string]int{}
	for i := 0; i < 4000; i++ {
		q, err := SampleQuestion(rng, pool, pool, DefaultAlternatives)
		require.NoError(t, err)
		counts[q.Card.Question]++
		firstSlot[q.Options[0]]++
	}
	for _, c := range pool {
		assert.InDelta(t, 1000, counts[c.Question], 150, c.Question)
		assert.InDelta(t, 1000, firstSlot[c.Answer], 150, c.Answer)
	}
}
