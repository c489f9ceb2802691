package domain

// Option represents a possible answer for a question.
type Option struct {
	Text    string `json:"text" yaml:"text" validate:"required"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Prompt    string   `json:"question" yaml:"question" validate:"required"`
	Options   []Option `json:"answers" yaml:"answers" validate:"min=2,dive"`
	Rationale string   `json:"rationale" yaml:"rationale"`
	Points    int      `json:"points" yaml:"points" validate:"gt=0"`
}

// CorrectIndex returns the index of the correct option, or -1 if none is flagged.
func (q Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.Correct {
			return i
		}
	}
	return -1
}

// OptionTexts returns the display texts in order.
func (q Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		texts[i] = opt.Text
	}
	return texts
}

// Quiz is an ordered question bank.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions" validate:"dive"`
}

// MaxScore sums the point values of the given questions.
func MaxScore(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}
