package qa

import (
	"log/slog"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
	"github.com/conorfennell/studybuddy/internal/similarity"
)

// CardSource loads the current flashcard collection.
type CardSource interface {
	Load() ([]domain.Flashcard, error)
}

// Answer is a confident match for a user query.
type Answer struct {
	Text            string
	MatchedQuestion string
	ImageRef        string
	Score           float64
}

// Resolver answers free-text questions from the flashcard store.
//
// The index is rebuilt from the store on every call, so answers always
// reflect the latest flashcards. That costs O(cards x vocabulary) per query,
// which is fine for a personal collection of a few hundred cards.
type Resolver struct {
	cards     CardSource
	stop      similarity.StopWords
	threshold float64
	log       *slog.Logger
}

// NewResolver returns a Resolver reading from cards.
func NewResolver(cards CardSource, stop similarity.StopWords, threshold float64, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{cards: cards, stop: stop, threshold: threshold, log: log}
}

// Answer resolves query to exactly one of: a confident Answer, or an error
// matching apperr.ErrEmptyKnowledgeBase, apperr.ErrUnparseableQuery or
// apperr.ErrNoConfidentMatch. An unreadable or corrupt store counts as empty.
func (r *Resolver) Answer(query string) (Answer, error) {
	cards, err := r.cards.Load()
	if err != nil {
		r.log.Warn("treating flashcard store as empty", "error", err)
		cards = nil
	}
	if len(cards) == 0 {
		return Answer{}, apperr.ErrEmptyKnowledgeBase
	}

	ix := similarity.Build(cards, similarity.WithStopWords(r.stop), similarity.WithThreshold(r.threshold))
	if len(ix.Tokens(query)) == 0 {
		return Answer{}, apperr.ErrUnparseableQuery
	}

	m, ok := ix.Query(query)
	if !ok {
		r.log.Debug("no confident match", "query", query, "cards", ix.Len(), "vocabulary", ix.VocabularySize())
		return Answer{}, apperr.ErrNoConfidentMatch
	}

	r.log.Debug("query matched", "query", query, "position", m.Position, "score", m.Score)
	return Answer{
		Text:            m.Card.Answer,
		MatchedQuestion: m.Card.Question,
		ImageRef:        m.Card.ImageRef,
		Score:           m.Score,
	}, nil
}
