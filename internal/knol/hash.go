package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/studybuddy/internal/domain"
)

// Normalize concatenates the card's question and answer after cleaning each
// part. Tags and image are not part of a card's identity for deduplication.
func Normalize(card domain.Flashcard) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.Join(strings.Fields(p), " ")
	}

	// Joined with a newline so "ab"+"c" and "a"+"bc" stay distinct.
	return normalizePart(card.Question) + "\n" + normalizePart(card.Answer)
}

// Hash takes a card, normalizes it, and returns its SHA-256 hash as a hex string.
func Hash(card domain.Flashcard) string {
	hashBytes := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", hashBytes)
}

// Set is a set of card hashes.
type Set map[string]struct{}

// NewSet hashes every card.
func NewSet(cards []domain.Flashcard) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add records card and reports whether it was new.
func (s Set) Add(card domain.Flashcard) bool {
	h := Hash(card)
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}
