package session

import (
	"time"

	"github.com/abhisek/pmdrill/internal/quiz"
)

// Summary holds the per-run numbers shown when leaving a drill.
type Summary struct {
	SessionID      string
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	ModeResults    []ModeResult
}

// BuildSummary reports what was answered since the session was created,
// with modes in menu order.
func (s *Session) BuildSummary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		SessionID: s.id,
		Duration:  s.now().Sub(s.startTime),
	}
	for _, m := range quiz.Modes() {
		mr, ok := s.perMode[m]
		if !ok {
			continue
		}
		sum.ModeResults = append(sum.ModeResults, *mr)
		sum.TotalQuestions += mr.Attempted
		sum.TotalCorrect += mr.Correct
	}
	if sum.TotalQuestions > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(sum.TotalQuestions)
	}
	return sum
}
