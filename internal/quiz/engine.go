// Package quiz runs multiple-choice quiz sessions over the flashcard store.
//
// A session moves through NotStarted -> AwaitingAnswer -> Submitted and then
// either back to AwaitingAnswer (Advance) or to history (Finalize), after
// which it is NotStarted again. Transitions only happen through the Engine
// methods named after them; reading state never samples or mutates.
package quiz

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/studybuddy/internal/apperr"
	"github.com/conorfennell/studybuddy/internal/domain"
)

// State is the position of the active session in its lifecycle.
type State int

const (
	NotStarted State = iota
	AwaitingAnswer
	Submitted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case AwaitingAnswer:
		return "awaiting-answer"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// CardSource loads the current flashcard collection.
type CardSource interface {
	Load() ([]domain.Flashcard, error)
}

// SessionStore persists the in-flight session and the finalized history.
type SessionStore interface {
	Current() domain.QuizSession
	SaveCurrent(session domain.QuizSession) error
	Append(snapshot, current domain.QuizSession) error
}

// Result describes a scored answer.
type Result struct {
	Correct       bool
	CorrectAnswer string
	Score         int
	TotalAnswered int
}

// Engine owns the single active quiz session of the process.
type Engine struct {
	cards        CardSource
	store        SessionStore
	rng          *rand.Rand
	now          func() time.Time
	newID        func() string
	alternatives int
	log          *slog.Logger

	session    domain.QuizSession
	restoreErr error
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for sampling and shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithClock sets the time source for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets how session IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithAlternatives sets the number of options per question.
func WithAlternatives(n int) Option {
	return func(e *Engine) {
		e.alternatives = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine returns an Engine and restores the in-flight session persisted
// in store. A persisted session that breaks the scoring invariants is
// discarded and the engine starts NotStarted.
func NewEngine(cards CardSource, store SessionStore, opts ...Option) *Engine {
	e := &Engine{
		cards:        cards,
		store:        store,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:          time.Now,
		newID:        uuid.NewString,
		alternatives: DefaultAlternatives,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	restored := store.Current()
	if err := checkConsistent(restored); err != nil {
		e.log.Warn("discarding persisted quiz session", "error", err)
		e.restoreErr = err
		restored = domain.QuizSession{}
	}
	e.session = restored
	return e
}

// RestoreError returns the CorruptPersistedState error that caused the
// persisted session to be discarded, or nil.
func (e *Engine) RestoreError() error {
	return e.restoreErr
}

// checkConsistent verifies the invariants a persisted session must hold.
func checkConsistent(s domain.QuizSession) error {
	if !s.Started {
		if s.TotalAnswered != 0 || len(s.DetailLog) != 0 || s.Submitted {
			return apperr.New(apperr.CodeCorruptPersistedState, "session not started but has answers")
		}
		return nil
	}
	correct := 0
	for _, r := range s.DetailLog {
		if r.Outcome == domain.Correct {
			correct++
		}
	}
	switch {
	case s.TotalAnswered != len(s.DetailLog):
		return apperr.New(apperr.CodeCorruptPersistedState, "total_answered %d != %d log entries", s.TotalAnswered, len(s.DetailLog))
	case s.CorrectCount != correct:
		return apperr.New(apperr.CodeCorruptPersistedState, "correct_count %d != %d correct entries", s.CorrectCount, correct)
	case s.CurrentQuestion == nil || len(s.Options) == 0:
		return apperr.New(apperr.CodeCorruptPersistedState, "started session has no question loaded")
	case s.Submitted && len(s.DetailLog) == 0:
		return apperr.New(apperr.CodeCorruptPersistedState, "session marked submitted without any answer")
	case s.CorrectAnswer != s.CurrentQuestion.Answer:
		return apperr.New(apperr.CodeCorruptPersistedState, "correct_answer %q does not match the current question", s.CorrectAnswer)
	case !contains(s.Options, s.CorrectAnswer):
		return apperr.New(apperr.CodeCorruptPersistedState, "correct_answer %q is not among the options", s.CorrectAnswer)
	}
	return nil
}

// State returns the lifecycle state of the active session.
func (e *Engine) State() State {
	switch {
	case !e.session.Started:
		return NotStarted
	case e.session.Submitted:
		return Submitted
	default:
		return AwaitingAnswer
	}
}

// Session returns a copy of the active session.
func (e *Engine) Session() domain.QuizSession {
	return e.session.Clone()
}

// Question returns the currently loaded question. It never samples. A
// question with fewer options than configured carries the
// TooFewDistractors warning, also after a restore.
func (e *Engine) Question() (Question, bool) {
	if e.State() == NotStarted || e.session.CurrentQuestion == nil {
		return Question{}, false
	}
	q := Question{
		Number:  e.session.QuestionIndex,
		Card:    *e.session.CurrentQuestion,
		Options: append([]string(nil), e.session.Options...),
	}
	if len(q.Options) < e.alternatives {
		q.Warning = tooFewDistractors(len(q.Options), e.alternatives)
	}
	return q, true
}

// Start begins a new session over the cards tagged topic, or every card
// when topic is domain.AllTopics. At least as many matching cards as
// options per question are required; otherwise nothing changes.
func (e *Engine) Start(name, topic string) (Question, error) {
	if e.State() != NotStarted {
		return Question{}, apperr.ErrSessionInProgress
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "quiz"
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = domain.AllTopics
	}

	full := e.loadCards()
	pool := domain.FilterByTopic(full, topic)
	if len(pool) < e.alternatives {
		return Question{}, apperr.New(apperr.CodeInsufficientFlashcards,
			"topic %q has %d flashcards, need at least %d", topic, len(pool), e.alternatives)
	}

	q, err := SampleQuestion(e.rng, pool, full, e.alternatives)
	if err != nil {
		return Question{}, err
	}

	started := e.now().UTC()
	e.session = domain.QuizSession{
		ID:        e.newID(),
		Name:      name,
		Topic:     topic,
		Started:   true,
		StartedAt: &started,
	}
	e.load(q)
	e.persist()

	e.log.Info("quiz started", "session", e.session.ID, "name", name, "topic", topic, "pool", len(pool))
	return e.question(q), nil
}

// SubmitAnswer scores selected against the current question. It is only
// accepted while awaiting an answer, so a second submission for the same
// question is rejected without changing any counter.
func (e *Engine) SubmitAnswer(selected string) (Result, error) {
	if e.State() != AwaitingAnswer {
		return Result{}, apperr.Wrap(apperr.CodeInvalidTransition, nil, "cannot answer while %s", e.State())
	}
	if strings.TrimSpace(selected) == "" {
		return Result{}, apperr.ErrNoOptionSelected
	}
	if !contains(e.session.Options, selected) {
		return Result{}, apperr.New(apperr.CodeUnknownOption, "%q is not one of the options", selected)
	}

	correct := selected == e.session.CorrectAnswer
	outcome := domain.Incorrect
	if correct {
		outcome = domain.Correct
		e.session.Score++
		e.session.CorrectCount++
	}
	e.session.DetailLog = append(e.session.DetailLog, domain.AnswerRecord{
		Question:      e.session.CurrentQuestion.Question,
		CorrectAnswer: e.session.CorrectAnswer,
		UserAnswer:    selected,
		Outcome:       outcome,
	})
	e.session.TotalAnswered++
	e.session.Submitted = true
	e.persist()

	e.log.Debug("answer submitted", "session", e.session.ID, "question", e.session.QuestionIndex, "outcome", outcome)
	return Result{
		Correct:       correct,
		CorrectAnswer: e.session.CorrectAnswer,
		Score:         e.session.Score,
		TotalAnswered: e.session.TotalAnswered,
	}, nil
}

// Advance loads the next question after an answer was submitted.
func (e *Engine) Advance() (Question, error) {
	if e.State() != Submitted {
		return Question{}, apperr.Wrap(apperr.CodeInvalidTransition, nil, "cannot advance while %s", e.State())
	}

	full := e.loadCards()
	pool := domain.FilterByTopic(full, e.session.Topic)
	q, err := SampleQuestion(e.rng, pool, full, e.alternatives)
	if err != nil {
		return Question{}, err
	}

	e.session.Submitted = false
	e.load(q)
	e.persist()
	return e.question(q), nil
}

// Finalize records the session in history and resets the engine. A session
// with no answered questions is left untouched and not recorded; recorded
// is false in that case and the warning-level apperr.ErrEmptySession is
// returned.
func (e *Engine) Finalize() (snapshot domain.QuizSession, recorded bool, err error) {
	if e.State() == NotStarted {
		return domain.QuizSession{}, false, apperr.Wrap(apperr.CodeInvalidTransition, nil, "no quiz in progress")
	}
	if e.session.TotalAnswered == 0 {
		e.log.Warn("not recording quiz without answers", "session", e.session.ID)
		return domain.QuizSession{}, false, apperr.ErrEmptySession
	}

	finished := e.now().UTC()
	snapshot = e.session.Clone()
	snapshot.FinishedAt = &finished

	if err := e.store.Append(snapshot, domain.QuizSession{}); err != nil {
		e.log.Error("failed to persist quiz history", "session", snapshot.ID, "error", err)
	}
	e.session = domain.QuizSession{}

	e.log.Info("quiz finalized", "session", snapshot.ID, "score", snapshot.Score, "answered", snapshot.TotalAnswered)
	return snapshot, true, nil
}

// Reset abandons the active session without recording it.
func (e *Engine) Reset() {
	if e.State() == NotStarted {
		return
	}
	e.log.Info("quiz abandoned", "session", e.session.ID, "answered", e.session.TotalAnswered)
	e.session = domain.QuizSession{}
	e.persist()
}

// load makes q the current question. QuestionIndex counts sampled questions.
func (e *Engine) load(q Question) {
	card := q.Card
	e.session.CurrentQuestion = &card
	e.session.Options = q.Options
	e.session.CorrectAnswer = q.Card.Answer
	e.session.QuestionIndex++
	if q.Warning != nil {
		e.log.Warn("degraded question", "session", e.session.ID, "options", len(q.Options), "error", q.Warning)
	}
}

func (e *Engine) question(q Question) Question {
	q.Number = e.session.QuestionIndex
	return q
}

func (e *Engine) loadCards() []domain.Flashcard {
	cards, err := e.cards.Load()
	if err != nil {
		e.log.Warn("treating flashcard store as empty", "error", err)
		return nil
	}
	return cards
}

// persist saves the in-flight session. Write failures are logged only.
func (e *Engine) persist() {
	if err := e.store.SaveCurrent(e.session); err != nil {
		e.log.Error("failed to persist quiz session", "session", e.session.ID, "error", err)
	}
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
