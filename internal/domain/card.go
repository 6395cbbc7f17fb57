package domain

import "time"

// Flashcard represents a single question-answer entry in the store.
// Its identity is its position in the store file.
type Flashcard struct {
	Question string   `json:"pergunta" validate:"required"`
	Answer   string   `json:"resposta" validate:"required"`
	Tags     []string `json:"tags" validate:"dive,required"`
	// ImageRef is an opaque URL or path. It is shown to the user, never opened.
	ImageRef string   `json:"imagem_url"`
}

// HasTag reports whether the card is tagged with topic.
func (f Flashcard) HasTag(topic string) bool {
	for _, t := range f.Tags {
		if t == topic {
			return true
		}
	}
	return false
}

// AllTopics selects every flashcard when used as a topic filter.
const AllTopics = "all"

// FilterByTopic keeps the cards tagged with topic. AllTopics or an empty
// topic keeps everything.
func FilterByTopic(cards []Flashcard, topic string) []Flashcard {
	if topic == "" || topic == AllTopics {
		return cards
	}
	var out []Flashcard
	for _, c := range cards {
		if c.HasTag(topic) {
			out = append(out, c)
		}
	}
	return out
}

// Outcome is the result of a single answered quiz question.
type Outcome string

const (
	Correct   Outcome = "correct"
	Incorrect Outcome = "incorrect"
)

// AnswerRecord is one entry of a session's detail log.
type AnswerRecord struct {
	Question      string  `json:"question"`
	CorrectAnswer string  `json:"correct_answer"`
	UserAnswer    string  `json:"user_answer"`
	Outcome       Outcome `json:"outcome"`
}

// QuizSession is the persisted form of a quiz session. The in-flight session
// and every finalized history entry share this shape.
type QuizSession struct {
	ID              string         `json:"id,omitempty"`
	Name            string         `json:"name"`
	Topic           string         `json:"topic,omitempty"`
	Score           int            `json:"score"`
	QuestionIndex   int            `json:"question_index"`
	CurrentQuestion *Flashcard     `json:"current_question"`
	Options         []string       `json:"options"`
	CorrectAnswer   string         `json:"correct_answer"`
	TotalAnswered   int            `json:"total_answered"`
	CorrectCount    int            `json:"correct_count"`
	Started         bool           `json:"started"`
	Submitted       bool           `json:"submitted"`
	DetailLog       []AnswerRecord `json:"detail_log"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
}

// Clone returns a deep copy so snapshots never share slices with live state.
func (s QuizSession) Clone() QuizSession {
	c := s
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Tags = cloneSlice(s.CurrentQuestion.Tags)
		c.CurrentQuestion = &q
	}
	c.Options = cloneSlice(s.Options)
	c.DetailLog = cloneSlice(s.DetailLog)
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

// cloneSlice copies s, keeping a nil slice nil and an empty slice empty.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
