package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the structural rules of a question record.
func (q Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedQuestion, err)
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: %q has %d correct options", ErrMalformedQuestion, q.Prompt, correct)
	}
	return nil
}

// Validate checks every question in order. An empty bank is valid.
func (z Quiz) Validate() error {
	for i, q := range z.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
