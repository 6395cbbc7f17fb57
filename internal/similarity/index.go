// Package similarity answers free-text queries by nearest-neighbour search
// over the questions of a flashcard collection.
//
// An Index is built from the whole collection at once and is never updated in
// place; callers rebuild it whenever the collection may have changed. Term
// weights are smoothed TF-IDF and vectors are L2-normalized, so the dot
// product of two vectors is their cosine similarity.
package similarity

import (
	"math"
	"regexp"
	"strings"

	"github.com/conorfennell/studybuddy/internal/domain"
)

// DefaultThreshold is the similarity a match must exceed to be accepted.
const DefaultThreshold = 0.25

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// vector is a sparse term vector keyed by vocabulary position.
type vector map[int]float64

// Match is the accepted nearest question for a query.
type Match struct {
	Card     domain.Flashcard
	Position int
	Score    float64
}

// Index holds the TF-IDF vectors of one build. Vocabulary and vectors from
// different builds must never be mixed.
type Index struct {
	cards     []domain.Flashcard
	stop      StopWords
	threshold float64
	vocab     map[string]int
	idf       []float64
	vectors   []vector
}

// Option configures Build.
type Option func(*Index)

// WithStopWords sets the terms removed before weighting.
func WithStopWords(sw StopWords) Option {
	return func(ix *Index) {
		ix.stop = sw
	}
}

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		ix.threshold = t
	}
}

// Build indexes the question text of every card. An empty collection gives
// an empty index that never matches.
func Build(cards []domain.Flashcard, opts ...Option) *Index {
	ix := &Index{
		cards:     cards,
		stop:      portuguese,
		threshold: DefaultThreshold,
		vocab:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(ix)
	}

	docs := make([][]string, len(cards))
	var df []int
	for i, c := range cards {
		docs[i] = ix.Tokens(c.Question)
		seen := make(map[int]bool)
		for _, term := range docs[i] {
			pos, ok := ix.vocab[term]
			if !ok {
				pos = len(ix.vocab)
				ix.vocab[term] = pos
				df = append(df, 0)
			}
			if !seen[pos] {
				seen[pos] = true
				df[pos]++
			}
		}
	}

	n := float64(len(cards))
	ix.idf = make([]float64, len(df))
	for pos, d := range df {
		ix.idf[pos] = math.Log((1+n)/(1+float64(d))) + 1
	}

	ix.vectors = make([]vector, len(cards))
	for i, terms := range docs {
		ix.vectors[i] = ix.weigh(terms)
	}
	return ix
}

// Len returns the number of indexed questions.
func (ix *Index) Len() int {
	return len(ix.cards)
}

// VocabularySize returns the number of distinct indexed terms.
func (ix *Index) VocabularySize() int {
	return len(ix.vocab)
}

// Threshold returns the acceptance threshold of this index.
func (ix *Index) Threshold() float64 {
	return ix.threshold
}

// Tokens lowercases text, splits it into terms and drops stop words.
func (ix *Index) Tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := raw[:0]
	for _, t := range raw {
		if !ix.stop.Contains(t) {
			terms = append(terms, t)
		}
	}
	return terms
}

// weigh turns terms into a normalized TF-IDF vector. Terms outside the
// vocabulary are dropped, so the result may be empty.
func (ix *Index) weigh(terms []string) vector {
	v := make(vector)
	for _, t := range terms {
		if pos, ok := ix.vocab[t]; ok {
			v[pos]++
		}
	}
	var norm float64
	for pos, tf := range v {
		w := tf * ix.idf[pos]
		v[pos] = w
		norm += w * w
	}
	if norm == 0 {
		return vector{}
	}
	norm = math.Sqrt(norm)
	for pos := range v {
		v[pos] /= norm
	}
	return v
}

// Scores returns the cosine similarity of text against every question, in
// store order.
func (ix *Index) Scores(text string) []float64 {
	q := ix.weigh(ix.Tokens(text))
	scores := make([]float64, len(ix.vectors))
	if len(q) == 0 {
		return scores
	}
	for i, doc := range ix.vectors {
		var dot float64
		for pos, w := range q {
			dot += w * doc[pos]
		}
		scores[i] = dot
	}
	return scores
}

// Query returns the most similar question when its score exceeds the
// threshold. Equal scores resolve to the earliest card in store order.
func (ix *Index) Query(text string) (Match, bool) {
	best, bestScore := -1, 0.0
	for i, s := range ix.Scores(text) {
		if best < 0 || s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore <= ix.threshold {
		return Match{}, false
	}
	return Match{Card: ix.cards[best], Position: best, Score: bestScore}, true
}
