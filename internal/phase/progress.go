package phase

import "math"

// Progress returns the lesson completion percentage shown to the learner.
// It depends only on its arguments and is not part of the session state.
func Progress(p Phase, questionIndex, total int) int {
	switch p {
	case Intro:
		return 0
	case Teach:
		return 10
	case Report, Completed:
		return 100
	}
	if total <= 0 {
		return 10
	}
	pct := 10 + int(math.Round(float64(questionIndex)/float64(total)*90))
	return min(max(pct, 10), 100)
}
