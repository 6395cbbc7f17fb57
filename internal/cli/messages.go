package cli

import (
	"fmt"
	"io"

	"github.com/conorfennell/studybuddy/internal/apperr"
)

var messages = map[string]string{
	apperr.CodeEmptyKnowledgeBase:     "My knowledge base is empty. Add a few flashcards first with 'studybuddy add'.",
	apperr.CodeUnparseableQuery:       "I couldn't understand the question. Try rephrasing it.",
	apperr.CodeNoConfidentMatch:       "Sorry, I don't know anything relevant to that yet. Teach me with 'studybuddy add'.",
	apperr.CodeInsufficientFlashcards: "Not enough flashcards for a quiz on this topic.",
	apperr.CodeTooFewDistractors:      "Not enough distinct answers for a full set of options; some are missing.",
	apperr.CodeNoOptionSelected:       "Pick one of the options before answering.",
	apperr.CodeUnknownOption:          "That is not one of the options.",
	apperr.CodeInvalidTransition:      "That can't be done right now.",
	apperr.CodeSessionInProgress:      "A quiz is already in progress. Finish it, reset it, or start with --restart.",
	apperr.CodeEmptySession:           "No questions were answered, so nothing was recorded.",
	apperr.CodeCorruptPersistedState:  "The saved quiz state was damaged and has been reset.",
	apperr.CodeStoreFileUnreadable:    "The flashcard file could not be read.",
	apperr.CodeStoreFileCorrupt:       "The flashcard file is damaged. Fix or remove it before adding cards.",
	apperr.CodeValidation:             "The flashcard is invalid.",
}

// userMessage returns the text shown for err, or "" when err carries no
// known code.
func userMessage(err error) string {
	return messages[apperr.CodeOf(err)]
}

// report prints coded errors for the user and swallows them. Anything
// without a code is returned so the process exits non-zero.
func report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	msg := userMessage(err)
	if msg == "" {
		return err
	}
	if apperr.Warning(err) {
		fmt.Fprintln(w, "warning:", msg)
		return nil
	}
	fmt.Fprintln(w, msg)
	if detail := detailOf(err); detail != "" {
		fmt.Fprintln(w, " ", detail)
	}
	return nil
}

// detailOf returns the specific message of a coded error when it adds
// something to the generic one.
func detailOf(err error) string {
	switch apperr.CodeOf(err) {
	case apperr.CodeInsufficientFlashcards, apperr.CodeUnknownOption, apperr.CodeInvalidTransition, apperr.CodeValidation:
		return err.Error()
	}
	return ""
}
