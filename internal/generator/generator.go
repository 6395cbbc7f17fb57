// Package generator turns a pasted paragraph into a draft flashcard using
// shallow text heuristics. It never touches the store; callers decide
// whether to save the result.
package generator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/conorfennell/studybuddy/internal/similarity"
)

// Tags applied to generated cards.
var Tags = []string{"gerado_automaticamente", "ia_basica"}

// Generator produces a question and answer from free text. ok is false when
// nothing usable could be extracted.
type Generator interface {
	Generate(text string) (question, answer string, ok bool)
}

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*`)
)

// minSubjectLen is the shortest lowercase word considered a subject.
const minSubjectLen = 4

// Heuristic answers with the first sentence and asks about its most
// noun-like word: the first capitalized word after the sentence start,
// otherwise the first long word that is not a stop word.
type Heuristic struct {
	stop similarity.StopWords
}

// NewHeuristic returns a Heuristic using stop to skip function words.
func NewHeuristic(stop similarity.StopWords) *Heuristic {
	return &Heuristic{stop: stop}
}

// Generate implements Generator.
func (h *Heuristic) Generate(text string) (string, string, bool) {
	sentence := FirstSentence(text)
	if sentence == "" {
		return "", "", false
	}

	words := wordPattern.FindAllString(sentence, -1)
	if len(words) == 0 {
		return "", "", false
	}

	subject := h.subject(words)
	if subject == "" {
		return fmt.Sprintf("Qual é a ideia principal de: '%s'?", sentence), sentence, true
	}
	if hasDefinitionVerb(words) {
		return fmt.Sprintf("O que é que está relacionado a '%s' no texto?", subject), sentence, true
	}
	return fmt.Sprintf("Qual é a informação principal sobre '%s'?", subject), sentence, true
}

func (h *Heuristic) subject(words []string) string {
	for _, w := range words[1:] {
		if startsUpper(w) {
			return w
		}
	}
	for _, w := range words {
		lw := strings.ToLower(w)
		if len([]rune(lw)) >= minSubjectLen && !h.stop.Contains(lw) {
			return w
		}
	}
	return ""
}

func hasDefinitionVerb(words []string) bool {
	for _, w := range words {
		switch strings.ToLower(w) {
		case "é", "são":
			return true
		}
	}
	return false
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

// FirstSentence returns the first sentence of text, trimmed, including its
// terminating punctuation.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		end := loc[0] + len(strings.TrimRightFunc(text[loc[0]:loc[1]], unicode.IsSpace))
		return strings.TrimSpace(text[:end])
	}
	return text
}
