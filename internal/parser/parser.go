// Package parser reads flashcard decks written in markdown.
//
// A card starts at a "Q:" line and may carry "A:" (answer), "T:" (comma
// separated tags) and "I:" (image reference) blocks. Lines without a prefix
// continue the current block. A "---" line or the next "Q:" ends a card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/studybuddy/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	tagsPrefix     = "T:"
	imagePrefix    = "I:"
	separator      = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingTags
	readingImage
)

var prefixes = []struct {
	prefix string
	state  state
}{
	{questionPrefix, readingQuestion},
	{answerPrefix, readingAnswer},
	{tagsPrefix, readingTags},
	{imagePrefix, readingImage},
}

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Flashcard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Cards without a
// question are dropped; validating the rest is up to the caller.
func Parse(r io.Reader) ([]domain.Flashcard, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Flashcard
	var current domain.Flashcard
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		case readingTags:
			current.Tags = append(current.Tags, strings.Split(content, ",")...)
		case readingImage:
			current.ImageRef = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" {
			if current.Tags == nil {
				current.Tags = []string{}
			}
			cards = append(cards, current)
		}
		current = domain.Flashcard{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == separator {
			finishCard()
			continue
		}

		matched := false
		for _, p := range prefixes {
			if !strings.HasPrefix(line, p.prefix) {
				continue
			}
			matched = true
			if p.state == readingQuestion && currentState != seeking {
				finishCard()
			} else {
				flushBlock()
			}
			currentState = p.state
			block = append(block, strings.TrimPrefix(line[len(p.prefix):], " "))
			break
		}

		if !matched && currentState != seeking {
			block = append(block, line)
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
