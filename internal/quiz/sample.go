package quiz

import (
	"math/rand/v2"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

// DefaultAlternatives is the number of options shown per question: one
// correct answer and three distractors.
const DefaultAlternatives = 4

// Question is a sampled multiple-choice question.
type Question struct {
	Number  int
	Card    domain.Flashcard
	Options []string
	// Warning is apperr.ErrTooFewDistractors when fewer than the requested
	// number of options could be built. The question is still usable.
	Warning error
}

// Correct returns the correct option text.
func (q Question) Correct() string {
	return q.Card.Answer
}

// SampleQuestion picks the correct card uniformly from pool and builds its
// distractors. Distractors come from pool first and are topped up from full,
// always deduplicated by answer text and never equal to the correct answer.
// Option order is a uniform shuffle.
func SampleQuestion(rng *rand.Rand, pool, full []domain.Flashcard, alternatives int) (Question, error) {
	if len(pool) == 0 {
		return Question{}, apperr.New(apperr.CodeInsufficientFlashcards, "no flashcards to sample from")
	}
	chosen := rng.IntN(len(pool))
	card := pool[chosen]
	need := alternatives - 1

	seen := map[string]bool{card.Answer: true}
	var primary []string
	for i, c := range pool {
		if i == chosen || seen[c.Answer] {
			continue
		}
		seen[c.Answer] = true
		primary = append(primary, c.Answer)
	}

	distractors := pick(rng, primary, need)
	if len(distractors) < need {
		var secondary []string
		for _, c := range full {
			if seen[c.Answer] {
				continue
			}
			seen[c.Answer] = true
			secondary = append(secondary, c.Answer)
		}
		distractors = append(distractors, pick(rng, secondary, need-len(distractors))...)
	}

	q := Question{Card: card}
	if len(distractors) < need {
		q.Warning = tooFewDistractors(len(distractors)+1, alternatives)
	}

	q.Options = append(distractors, card.Answer)
	rng.Shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	return q, nil
}

func tooFewDistractors(options, alternatives int) error {
	return apperr.New(apperr.CodeTooFewDistractors,
		"only %d distinct options available, wanted %d", options, alternatives)
}

// pick returns up to n items of from, chosen uniformly without replacement.
func pick(rng *rand.Rand, from []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(from) {
		out := make([]string, len(from))
		copy(out, from)
		return out
	}
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(from))[:n] {
		out = append(out, from[i])
	}
	return out
}
