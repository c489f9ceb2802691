package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"timed-quiz-service/internal/domain"
)

const jsonList = `[
  {
    "question": "What is 5 + 3?",
    "answers": [
      { "text": "6", "correct": false },
      { "text": "8", "correct": true }
    ],
    "rationale": "5 + 3 = 8.",
    "points": 100
  }
]`

const yamlObject = `id: quiz-1
questions:
  - question: What is 7 × 9?
    answers:
      - text: "56"
      - text: "63"
        correct: true
    rationale: 7 × 9 = 63.
    points: 200
`

func TestLoadJSONList(t *testing.T) {
	path := writeFile(t, "questions.json", jsonList)

	quiz, err := NewQuizLoader(path).LoadQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.ID != "quiz-1" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if q := quiz.Questions[0]; q.CorrectIndex() != 1 || q.Points != 100 || q.Rationale != "5 + 3 = 8." {
		t.Fatalf("unexpected question: %+v", q)
	}
	if err := quiz.Validate(); err != nil {
		t.Fatalf("expected valid quiz: %v", err)
	}
}

func TestLoadYAMLObject(t *testing.T) {
	path := writeFile(t, "questions.yaml", yamlObject)

	quiz, err := NewQuizLoader(path).LoadQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].Points != 200 || quiz.Questions[0].CorrectIndex() != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestLoadRejectsOtherBank(t *testing.T) {
	path := writeFile(t, "questions.yml", yamlObject)

	if _, err := NewQuizLoader(path).LoadQuiz(context.Background(), "quiz-2"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadMissingAndBrokenFiles(t *testing.T) {
	if _, err := NewQuizLoader(filepath.Join(t.TempDir(), "nope.json")).LoadQuiz(context.Background(), "q"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeFile(t, "broken.json", `{"questions": [`)
	if _, err := NewQuizLoader(path).LoadQuiz(context.Background(), "q"); err == nil {
		t.Fatalf("expected error for broken json")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
