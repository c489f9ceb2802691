package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/domain"
)

// QuizLoader reads a question bank from a JSON or YAML file. The file holds
// either a bare list of questions or an object with "id" and "questions".
type QuizLoader struct {
	path string
}

func NewQuizLoader(path string) *QuizLoader {
	return &QuizLoader{path: path}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read questions file: %w", err)
	}
	quiz, err := Decode(data, filepath.Ext(l.path))
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("decode %s: %w", l.path, err)
	}
	if quiz.ID != "" && quiz.ID != quizID {
		return domain.Quiz{}, fmt.Errorf("%w: %s holds %q", domain.ErrQuizNotFound, l.path, quiz.ID)
	}
	quiz.ID = quizID
	return quiz, nil
}

// Decode parses a bank document. ext selects YAML for ".yaml"/".yml", JSON otherwise.
func Decode(data []byte, ext string) (domain.Quiz, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (domain.Quiz, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []domain.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return domain.Quiz{}, err
		}
		return domain.Quiz{Questions: questions}, nil
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(trimmed, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func decodeYAML(data []byte) (domain.Quiz, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return domain.Quiz{}, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var questions []domain.Question
		if err := node.Decode(&questions); err != nil {
			return domain.Quiz{}, err
		}
		return domain.Quiz{Questions: questions}, nil
	}
	var quiz domain.Quiz
	if err := node.Decode(&quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}
