package domain

// DefaultQuizID names the built-in bank.
const DefaultQuizID = "math-basics"

// DefaultQuiz is the built-in bank used whenever the configured provider fails.
func DefaultQuiz() Quiz {
	return Quiz{
		ID: DefaultQuizID,
		Questions: []Question{
			{
				ID:     "q1",
				Prompt: "What is 5 + 3?",
				Options: []Option{
					{Text: "6"}, {Text: "7"}, {Text: "8", Correct: true}, {Text: "9"},
				},
				Rationale: "5 + 3 = 8. This is basic addition.",
				Points:    100,
			},
			{
				ID:     "q2",
				Prompt: "What is 12 × 4?",
				Options: []Option{
					{Text: "44"}, {Text: "48", Correct: true}, {Text: "52"}, {Text: "56"},
				},
				Rationale: "12 × 4 = 48. Multiply 12 by 4.",
				Points:    100,
			},
			{
				ID:     "q3",
				Prompt: "What is 25 - 17?",
				Options: []Option{
					{Text: "6"}, {Text: "7"}, {Text: "8", Correct: true}, {Text: "9"},
				},
				Rationale: "25 - 17 = 8. This is basic subtraction.",
				Points:    100,
			},
			{
				ID:     "q4",
				Prompt: "What is 64 ÷ 8?",
				Options: []Option{
					{Text: "6"}, {Text: "7"}, {Text: "8", Correct: true}, {Text: "9"},
				},
				Rationale: "64 ÷ 8 = 8. This is basic division.",
				Points:    100,
			},
			{
				ID:     "q5",
				Prompt: "What is 7 × 9?",
				Options: []Option{
					{Text: "56"}, {Text: "63", Correct: true}, {Text: "72"}, {Text: "81"},
				},
				Rationale: "7 × 9 = 63. Multiply 7 by 9.",
				Points:    100,
			},
		},
	}
}
