// Package apperr defines the error taxonomy shared by the study assistant.
// Every failure a user can run into carries one of the codes below so the
// CLI can turn it into a message without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeEmptyKnowledgeBase     = "EMPTY_KNOWLEDGE_BASE"
	CodeUnparseableQuery       = "UNPARSEABLE_QUERY"
	CodeNoConfidentMatch       = "NO_CONFIDENT_MATCH"
	CodeInsufficientFlashcards = "INSUFFICIENT_FLASHCARDS"
	CodeTooFewDistractors      = "TOO_FEW_DISTRACTORS"
	CodeNoOptionSelected       = "NO_OPTION_SELECTED"
	CodeUnknownOption          = "UNKNOWN_OPTION"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeSessionInProgress      = "SESSION_IN_PROGRESS"
	CodeEmptySession           = "EMPTY_SESSION"
	CodeCorruptPersistedState  = "CORRUPT_PERSISTED_STATE"
	CodeStoreFileUnreadable    = "STORE_FILE_UNREADABLE"
	CodeStoreFileCorrupt       = "STORE_FILE_CORRUPT"
	CodeValidation             = "VALIDATION_ERROR"
)

// Sentinels for errors.Is. An *AppError matches a sentinel when the codes agree.
var (
	ErrEmptyKnowledgeBase     = &AppError{Code: CodeEmptyKnowledgeBase, Message: "knowledge base is empty"}
	ErrUnparseableQuery       = &AppError{Code: CodeUnparseableQuery, Message: "could not parse query"}
	ErrNoConfidentMatch       = &AppError{Code: CodeNoConfidentMatch, Message: "no confident match"}
	ErrInsufficientFlashcards = &AppError{Code: CodeInsufficientFlashcards, Message: "not enough flashcards"}
	ErrTooFewDistractors      = &AppError{Code: CodeTooFewDistractors, Message: "too few distractors"}
	ErrNoOptionSelected       = &AppError{Code: CodeNoOptionSelected, Message: "no option selected"}
	ErrUnknownOption          = &AppError{Code: CodeUnknownOption, Message: "option is not one of the choices"}
	ErrInvalidTransition      = &AppError{Code: CodeInvalidTransition, Message: "operation not allowed in current quiz state"}
	ErrSessionInProgress      = &AppError{Code: CodeSessionInProgress, Message: "a quiz session is already in progress"}
	ErrEmptySession           = &AppError{Code: CodeEmptySession, Message: "session has no answered questions"}
	ErrCorruptPersistedState  = &AppError{Code: CodeCorruptPersistedState, Message: "persisted quiz state is corrupt"}
	ErrStoreFileUnreadable    = &AppError{Code: CodeStoreFileUnreadable, Message: "flashcard store is unreadable"}
	ErrStoreFileCorrupt       = &AppError{Code: CodeStoreFileCorrupt, Message: "flashcard store is corrupt"}
	ErrValidation             = &AppError{Code: CodeValidation, Message: "validation failed"}
)

// AppError is an error with a stable code and an optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New returns an error for code with a custom message.
func New(code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and message to err.
func Wrap(code string, err error, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first *AppError in err's chain, or "".
func CodeOf(err error) string {
	var e *AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Warning reports whether err is a degraded-but-recoverable condition
// rather than a rejected operation.
func Warning(err error) bool {
	switch CodeOf(err) {
	case CodeTooFewDistractors, CodeEmptySession, CodeCorruptPersistedState,
		CodeStoreFileUnreadable, CodeStoreFileCorrupt:
		return true
	}
	return false
}
