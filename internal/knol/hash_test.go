package knol

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/conorfennell/studybuddy/internal/domain"
)

func TestNormalize(t *testing.T) {
	card := domain.Flashcard{
		Question: "  What is HTMX? \r\n",
		Answer:   "A  library\r\nfor AJAX.",
		Tags:     []string{"web"},
	}
	expected := "what is htmx?\na library for ajax."
	normalized := Normalize(card)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		card := domain.Flashcard{Question: "Q", Answer: "A"}
		expectedHash := fmt.Sprintf("%x", sha256.Sum256([]byte("q\na")))
		hash := Hash(card)

		if hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		card1 := domain.Flashcard{Question: "Test"}
		card2 := domain.Flashcard{Question: "Test"}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes for identical cards to be the same")
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		card1 := domain.Flashcard{
			Question: "  what is go? ",
			Answer:   "A programming language.",
		}
		card2 := domain.Flashcard{
			Question: "What Is Go?",
			Answer:   "A programming language.",
			Tags:     []string{"go"},
		}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("different cards have different hashes", func(t *testing.T) {
		card1 := domain.Flashcard{Question: "Card 1"}
		card2 := domain.Flashcard{Question: "Card 2"}
		if Hash(card1) == Hash(card2) {
			t.Error("Expected hashes for different cards to be different")
		}
	})

	t.Run("field boundary matters", func(t *testing.T) {
		card1 := domain.Flashcard{Question: "ab", Answer: "c"}
		card2 := domain.Flashcard{Question: "a", Answer: "bc"}
		if Hash(card1) == Hash(card2) {
			t.Error("Expected question/answer split to change the hash")
		}
	})
}

func TestSet(t *testing.T) {
	s := NewSet([]domain.Flashcard{{Question: "Q1", Answer: "A1"}})
	if s.Add(domain.Flashcard{Question: "q1 ", Answer: "a1"}) {
		t.Error("Expected normalized duplicate to be rejected")
	}
	if !s.Add(domain.Flashcard{Question: "Q2", Answer: "A2"}) {
		t.Error("Expected new card to be added")
	}
	if len(s) != 2 {
		t.Errorf("Expected 2 hashes, got %d", len(s))
	}
}
