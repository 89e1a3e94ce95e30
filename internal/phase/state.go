package phase

import "fmt"

// DefaultTotalQuestions is the number of questions in a lesson when the
// caller does not configure one.
const DefaultTotalQuestions = 5

// Config holds the lesson parameters the controller depends on.
type Config struct {
	TotalQuestions int `koanf:"total_questions"`
}

// DefaultConfig returns a Config with the standard lesson length.
func DefaultConfig() Config {
	return Config{TotalQuestions: DefaultTotalQuestions}
}

// Validate checks that the lesson has at least one question.
func (c Config) Validate() error {
	if c.TotalQuestions < 1 {
		return fmt.Errorf("total questions must be at least 1, got %d", c.TotalQuestions)
	}
	return nil
}

// State is the persistent numeric state of one learner session. It is a plain
// value: callers pass it into Advance and take ownership of the returned copy.
type State struct {
	QuestionIndex int `json:"questionIndex"`
	Score         int `json:"score"`
}

// Check reports whether s satisfies the session invariants for a lesson of
// total questions: 0 <= QuestionIndex <= total and 0 <= Score <= total, with
// Score never more than one ahead of QuestionIndex (the final evaluate credits
// the last answer without moving the index).
func (s State) Check(total int) error {
	switch {
	case s.QuestionIndex < 0 || s.QuestionIndex > total:
		return fmt.Errorf("question index %d out of range [0, %d]", s.QuestionIndex, total)
	case s.Score < 0 || s.Score > total:
		return fmt.Errorf("score %d out of range [0, %d]", s.Score, total)
	case s.Score > s.QuestionIndex+1:
		return fmt.Errorf("score %d ahead of question index %d", s.Score, s.QuestionIndex)
	}
	return nil
}
