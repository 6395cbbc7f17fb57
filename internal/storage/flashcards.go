package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

// FlashcardStore is the JSON-file backed collection of flashcards.
// The file is read fully on every access and rewritten fully on every append.
// There is no locking: exactly one process is expected to use the file.
type FlashcardStore struct {
	path     string
	validate *validator.Validate
	log      *slog.Logger
}

// NewFlashcardStore returns a store backed by the file at path. The file does
// not need to exist yet.
func NewFlashcardStore(path string, log *slog.Logger) *FlashcardStore {
	if log == nil {
		log = slog.Default()
	}
	return &FlashcardStore{
		path:     path,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("store", path),
	}
}

// Path returns the location of the backing file.
func (s *FlashcardStore) Path() string {
	return s.path
}

// Load reads every flashcard in store order. A missing file is an empty
// store. An unreadable or corrupt file yields no cards together with a
// StoreFileUnreadable or StoreFileCorrupt error; callers treat that as empty.
func (s *FlashcardStore) Load() ([]domain.Flashcard, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		s.log.Warn("flashcard store unreadable", "error", err)
		return nil, apperr.Wrap(apperr.CodeStoreFileUnreadable, err, "cannot read %s", s.path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var cards []domain.Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		s.log.Warn("flashcard store corrupt", "error", err)
		return nil, apperr.Wrap(apperr.CodeStoreFileCorrupt, err, "cannot decode %s", s.path)
	}
	for i := range cards {
		if cards[i].Tags == nil {
			cards[i].Tags = []string{}
		}
	}
	return cards, nil
}

// Append validates card and adds it to the end of the store.
func (s *FlashcardStore) Append(card domain.Flashcard) (domain.Flashcard, error) {
	saved, err := s.AppendAll([]domain.Flashcard{card})
	if err != nil {
		return domain.Flashcard{}, err
	}
	return saved[0], nil
}

// AppendAll validates every card and appends them with a single write.
// Nothing is written if any card is invalid. Appending onto a file that
// exists but cannot be decoded is refused so the existing content is not lost.
func (s *FlashcardStore) AppendAll(cards []domain.Flashcard) ([]domain.Flashcard, error) {
	prepared := make([]domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		n, err := s.Prepare(c)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, n)
	}

	existing, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("refusing to overwrite flashcard store: %w", err)
	}

	data, err := encodeJSON(append(existing, prepared...))
	if err != nil {
		return nil, fmt.Errorf("failed to encode flashcards: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return nil, err
	}

	s.log.Info("flashcards appended", "added", len(prepared), "total", len(existing)+len(prepared))
	return prepared, nil
}

// Prepare normalizes card and validates it without touching the file.
func (s *FlashcardStore) Prepare(card domain.Flashcard) (domain.Flashcard, error) {
	card = NormalizeCard(card)
	if err := s.validate.Struct(card); err != nil {
		return domain.Flashcard{}, apperr.Wrap(apperr.CodeValidation, err, "invalid flashcard %q", card.Question)
	}
	return card, nil
}

// Search returns the cards whose question, answer or any tag contains term,
// ignoring case.
func (s *FlashcardStore) Search(term string) ([]domain.Flashcard, error) {
	cards, err := s.Load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, nil
	}

	var found []domain.Flashcard
	for _, c := range cards {
		if matchesTerm(c, needle) {
			found = append(found, c)
		}
	}
	return found, nil
}

func matchesTerm(c domain.Flashcard, needle string) bool {
	if strings.Contains(strings.ToLower(c.Question), needle) ||
		strings.Contains(strings.ToLower(c.Answer), needle) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// Topics returns the sorted set of tags used across the store.
func (s *FlashcardStore) Topics() ([]string, error) {
	cards, err := s.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var topics []string
	for _, c := range cards {
		for _, t := range c.Tags {
			if !seen[t] {
				seen[t] = true
				topics = append(topics, t)
			}
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// NormalizeCard trims text fields and reduces tags to a set, keeping the
// first occurrence order.
func NormalizeCard(c domain.Flashcard) domain.Flashcard {
	c.Question = strings.TrimSpace(c.Question)
	c.Answer = strings.TrimSpace(c.Answer)
	c.ImageRef = strings.TrimSpace(c.ImageRef)

	tags := make([]string, 0, len(c.Tags))
	seen := make(map[string]bool, len(c.Tags))
	for _, t := range c.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	c.Tags = tags
	return c
}

// ParseTags splits a comma separated tag list.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeCard(domain.Flashcard{Tags: strings.Split(s, ",")}).Tags
}
