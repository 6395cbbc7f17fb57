package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

// historyFile is the on-disk layout of the quiz history file.
type historyFile struct {
	QuizHistory     []domain.QuizSession `json:"quiz_history"`
	CurrentQuizData domain.QuizSession   `json:"current_quiz_data"`
}

// HistoryStore keeps finalized quiz sessions together with the in-flight
// session. Both live in one file and are always written together.
//
// The file is read once per process, on first access. After that the
// in-memory copy is authoritative and every mutation rewrites the file.
type HistoryStore struct {
	path    string
	log     *slog.Logger
	loaded  bool
	history []domain.QuizSession
	current domain.QuizSession
}

// NewHistoryStore returns a store backed by the file at path.
func NewHistoryStore(path string, log *slog.Logger) *HistoryStore {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryStore{path: path, log: log.With("history", path)}
}

// Path returns the location of the backing file.
func (h *HistoryStore) Path() string {
	return h.path
}

// Load reads the history file if it has not been read yet in this process.
// A missing file gives an empty history. A corrupt file also gives an empty
// history and a fresh session, and the returned CorruptPersistedState error
// only reports what happened.
func (h *HistoryStore) Load() error {
	if h.loaded {
		return nil
	}
	h.loaded = true
	h.history = nil
	h.current = domain.QuizSession{}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		h.log.Warn("history file unreadable, starting empty", "error", err)
		return apperr.Wrap(apperr.CodeCorruptPersistedState, err, "cannot read %s", h.path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		h.log.Warn("history file corrupt, starting empty", "error", err)
		return apperr.Wrap(apperr.CodeCorruptPersistedState, err, "cannot decode %s", h.path)
	}
	h.history = f.QuizHistory
	h.current = f.CurrentQuizData
	h.log.Debug("history loaded", "sessions", len(h.history), "in_flight", h.current.Started)
	return nil
}

func (h *HistoryStore) ensureLoaded() {
	if err := h.Load(); err != nil {
		h.log.Debug("continuing with empty history", "error", err)
	}
}

// History returns copies of the finalized sessions, oldest first.
func (h *HistoryStore) History() []domain.QuizSession {
	h.ensureLoaded()
	out := make([]domain.QuizSession, len(h.history))
	for i, s := range h.history {
		out[i] = s.Clone()
	}
	return out
}

// Current returns a copy of the persisted in-flight session.
func (h *HistoryStore) Current() domain.QuizSession {
	h.ensureLoaded()
	return h.current.Clone()
}

// SaveCurrent replaces the in-flight session and persists the file.
func (h *HistoryStore) SaveCurrent(session domain.QuizSession) error {
	h.ensureLoaded()
	h.current = session.Clone()
	return h.flush()
}

// Append adds snapshot to the history and stores current as the in-flight
// session, in a single write.
func (h *HistoryStore) Append(snapshot, current domain.QuizSession) error {
	h.ensureLoaded()
	h.history = append(h.history, snapshot.Clone())
	h.current = current.Clone()
	if err := h.flush(); err != nil {
		return err
	}
	h.log.Info("quiz session recorded", "name", snapshot.Name, "score", snapshot.Score, "answered", snapshot.TotalAnswered)
	return nil
}

// Clear drops every recorded session and the in-flight session. There is no undo.
func (h *HistoryStore) Clear() error {
	h.loaded = true
	h.history = nil
	h.current = domain.QuizSession{}
	if err := h.flush(); err != nil {
		return err
	}
	h.log.Info("quiz history cleared")
	return nil
}

func (h *HistoryStore) flush() error {
	history := h.history
	if history == nil {
		history = []domain.QuizSession{}
	}
	data, err := encodeJSON(historyFile{QuizHistory: history, CurrentQuizData: h.current})
	if err != nil {
		return fmt.Errorf("failed to encode quiz history: %w", err)
	}
	return writeFileAtomic(h.path, data)
}
