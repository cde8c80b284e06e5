package quiz

// Outcome is the result of scoring one answer.
type Outcome struct {
	Stats   Stats
	Correct bool
}

// Evaluate scores choice against q and returns the updated stats. It is
// pure; callers are responsible for evaluating each question once.
func Evaluate(stats Stats, q *Question, choice string) Outcome {
	stats.Total++
	correct := choice == q.CorrectAnswer
	if correct {
		stats.Correct++
		stats.Streak++
	} else {
		stats.Streak = 0
	}
	return Outcome{Stats: stats, Correct: correct}
}
