package app

import "timed-quiz-service/internal/domain"

const (
	MessageOutstanding = "Outstanding! You're a math genius! 🌟"
	MessageGreat       = "Great job! You know your math! 👏"
	MessageGood        = "Good effort! Keep practicing! 📚"
	MessageKeepTrying  = "Keep trying! Practice makes perfect! 💪"
)

// Summarize builds the end-of-session summary. The percentage is measured
// against the sum of the actual point values; an empty bank scores 0%.
func Summarize(playerName string, score int, questions []domain.Question) domain.SessionEnded {
	maxScore := domain.MaxScore(questions)
	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(score) * 100 / float64(maxScore)
	}
	return domain.SessionEnded{
		PlayerName: playerName,
		FinalScore: score,
		MaxScore:   maxScore,
		Percentage: percentage,
		Message:    SummaryMessage(score, maxScore),
	}
}

// SummaryMessage picks the tier message. Thresholds are compared in integers
// so 70% of 500 is exactly 70%.
func SummaryMessage(score, maxScore int) string {
	if maxScore <= 0 {
		return MessageKeepTrying
	}
	switch pct := score * 100; {
	case pct >= 90*maxScore:
		return MessageOutstanding
	case pct >= 70*maxScore:
		return MessageGreat
	case pct >= 50*maxScore:
		return MessageGood
	default:
		return MessageKeepTrying
	}
}
