package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

func sampleSession() domain.QuizSession {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	finished := started.Add(5 * time.Minute)
	return domain.QuizSession{
		ID:              "6f1c7a52-1d7b-4e61-9a39-2a2b8d3b6b0e",
		Name:            "geo-quiz",
		Topic:           "all",
		Score:           1,
		QuestionIndex:   2,
		CurrentQuestion: &domain.Flashcard{Question: "Capital of Spain?", Answer: "Madrid", Tags: []string{"geo"}},
		Options:         []string{"Rome", "Madrid", "Paris", "Berlin"},
		CorrectAnswer:   "Madrid",
		TotalAnswered:   2,
		CorrectCount:    1,
		Started:         true,
		Submitted:       true,
		DetailLog: []domain.AnswerRecord{
			{Question: "Capital of Italy?", CorrectAnswer: "Rome", UserAnswer: "Rome", Outcome: domain.Correct},
			{Question: "Capital of Spain?", CorrectAnswer: "Madrid", UserAnswer: "Paris", Outcome: domain.Incorrect},
		},
		StartedAt:  &started,
		FinishedAt: &finished,
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_history.json")
	snap := sampleSession()
	inFlight := domain.QuizSession{Name: "next", Started: true, Options: []string{"a", "b"}, CorrectAnswer: "a",
		CurrentQuestion: &domain.Flashcard{Question: "q", Answer: "a", Tags: []string{}}, QuestionIndex: 1}

	h := NewHistoryStore(path, nil)
	require.NoError(t, h.Load())
	require.NoError(t, h.Append(snap, inFlight))

	// A fresh store stands in for a fresh process.
	fresh := NewHistoryStore(path, nil)
	require.NoError(t, fresh.Load())
	history := fresh.History()
	require.Len(t, history, 1)
	assert.Equal(t, snap, history[0])
	assert.Equal(t, inFlight, fresh.Current())
}

func TestHistoryLoadOncePerProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_history.json")
	h := NewHistoryStore(path, nil)
	require.NoError(t, h.Load())

	other := NewHistoryStore(path, nil)
	require.NoError(t, other.Append(sampleSession(), domain.QuizSession{}))

	// h already loaded, so it does not pick up the other writer.
	require.NoError(t, h.Load())
	assert.Empty(t, h.History())
}

func TestHistoryMissingFile(t *testing.T) {
	h := NewHistoryStore(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.NoError(t, h.Load())
	assert.Empty(t, h.History())
	assert.False(t, h.Current().Started)
}

func TestHistoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"quiz_history": [`), 0o644))

	h := NewHistoryStore(path, nil)
	err := h.Load()
	assert.ErrorIs(t, err, apperr.ErrCorruptPersistedState)
	assert.Empty(t, h.History())
	assert.Equal(t, domain.QuizSession{}, h.Current())

	// The store is usable after the report and overwrites the bad file.
	require.NoError(t, h.SaveCurrent(domain.QuizSession{Name: "fresh", Started: true}))
	fresh := NewHistoryStore(path, nil)
	require.NoError(t, fresh.Load())
	assert.Equal(t, "fresh", fresh.Current().Name)
}

func TestHistoryClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_history.json")
	h := NewHistoryStore(path, nil)
	require.NoError(t, h.Append(sampleSession(), domain.QuizSession{Name: "x", Started: true}))
	require.NoError(t, h.Clear())

	fresh := NewHistoryStore(path, nil)
	require.NoError(t, fresh.Load())
	assert.Empty(t, fresh.History())
	assert.False(t, fresh.Current().Started)
}

func TestHistoryReturnsCopies(t *testing.T) {
	h := NewHistoryStore(filepath.Join(t.TempDir(), "h.json"), nil)
	require.NoError(t, h.Append(sampleSession(), domain.QuizSession{}))

	got := h.History()
	got[0].DetailLog[0].UserAnswer = "tampered"
	assert.Equal(t, "Rome", h.History()[0].DetailLog[0].UserAnswer)
}
