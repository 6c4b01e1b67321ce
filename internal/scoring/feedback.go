package scoring

const (
	FeedbackGreat = "Great job! Your pronunciation is very clear."
	FeedbackOK    = "Not bad, but you can improve your pronunciation."
	FeedbackRetry = "Try again, focus on the pronunciation of each word."
)

// Bracket lower bounds, inclusive.
const (
	GreatThreshold = 80.0
	OKThreshold    = 50.0
)

// Result is a scored attempt.
type Result struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Feedback maps a score to its feedback message.
func Feedback(score float64) string {
	switch {
	case score >= GreatThreshold:
		return FeedbackGreat
	case score >= OKThreshold:
		return FeedbackOK
	default:
		return FeedbackRetry
	}
}

// Score compares the recognized text with the expected phrase.
func Score(recognized, expected string) Result {
	s := Similarity(recognized, expected)
	return Result{Score: s, Feedback: Feedback(s)}
}
