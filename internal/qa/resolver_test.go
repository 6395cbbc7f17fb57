package qa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
	"github.com/conorfennell/studybuddy/internal/similarity"
)

type staticCards struct {
	cards []domain.Flashcard
	err   error
}

func (s staticCards) Load() ([]domain.Flashcard, error) {
	return s.cards, s.err
}

func newResolver(cards []domain.Flashcard, err error) *Resolver {
	stop, _ := similarity.ForLanguage("portuguese")
	return NewResolver(staticCards{cards: cards, err: err}, stop, similarity.DefaultThreshold, nil)
}

var deck = []domain.Flashcard{
	{Question: "Qual a capital da França?", Answer: "Paris", ImageRef: "https://example.com/paris.png"},
	{Question: "Qual o maior planeta do sistema solar?", Answer: "Júpiter"},
	{Question: "Quem pintou a Mona Lisa?", Answer: "Leonardo da Vinci"},
}

func TestAnswerConfidentMatch(t *testing.T) {
	r := newResolver(deck, nil)

	got, err := r.Answer("capital da França")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Text)
	assert.Equal(t, "Qual a capital da França?", got.MatchedQuestion)
	assert.Equal(t, "https://example.com/paris.png", got.ImageRef)
	assert.Greater(t, got.Score, similarity.DefaultThreshold)
}

func TestAnswerExactStoredQuestion(t *testing.T) {
	r := newResolver(deck, nil)
	for _, c := range deck {
		got, err := r.Answer(c.Question)
		require.NoError(t, err)
		assert.Equal(t, c.Answer, got.Text)
	}
}

func TestAnswerOutcomes(t *testing.T) {
	testCases := []struct {
		name    string
		cards   []domain.Flashcard
		loadErr error
		query   string
		want    error
	}{
		{"empty store", nil, nil, "anything", apperr.ErrEmptyKnowledgeBase},
		{"corrupt store counts as empty", nil, apperr.ErrStoreFileCorrupt, "capital", apperr.ErrEmptyKnowledgeBase},
		{"punctuation only", deck, nil, "?!?", apperr.ErrUnparseableQuery},
		{"stop words only", deck, nil, "qual é o que", apperr.ErrUnparseableQuery},
		{"terms outside vocabulary", deck, nil, "fotossíntese clorofila", apperr.ErrNoConfidentMatch},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newResolver(tc.cards, tc.loadErr)
			got, err := r.Answer(tc.query)
			assert.True(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)
			assert.Equal(t, Answer{}, got)
		})
	}
}

func TestAnswerReflectsLatestStore(t *testing.T) {
	src := &staticCards{cards: deck[:1]}
	stop, _ := similarity.ForLanguage("portuguese")
	r := NewResolver(src, stop, similarity.DefaultThreshold, nil)

	_, err := r.Answer("Quem pintou a Mona Lisa?")
	assert.ErrorIs(t, err, apperr.ErrNoConfidentMatch)

	src.cards = deck
	got, err := r.Answer("Quem pintou a Mona Lisa?")
	require.NoError(t, err)
	assert.Equal(t, "Leonardo da Vinci", got.Text)
}
