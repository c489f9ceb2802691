package domain

import "errors"

var (
	// ErrValidation is returned for bad player input, e.g. an empty name.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState is returned when an operation is not permitted in the current session state.
	ErrInvalidState = errors.New("invalid session state")
	// ErrOutOfRange indicates a selected option index does not exist on the current question.
	ErrOutOfRange = errors.New("option index out of range")
	// ErrProvider wraps question-bank load failures.
	ErrProvider = errors.New("question provider failed")
	// ErrMalformedQuestion indicates a question record breaks the bank contract.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrSessionNotFound is returned when a quiz session has not been opened.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the question bank could not be found.
	ErrQuizNotFound = errors.New("quiz not found")
)
