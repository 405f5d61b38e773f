package challenge

import (
	"fmt"
	"strconv"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

// scoreQuiz awards one point per question whose chosen option matches the
// stored correct-answer text. Matching on the literal string keeps grading
// stable when options are reordered; a submitted index outside the option
// list is the caller's error, not a zero.
func scoreQuiz(questions []models.QuizQuestion, answers map[string]int) (int, error) {
	score := 0
	for _, q := range questions {
		key := strconv.Itoa(q.ID)
		idx, ok := answers[key]
		if !ok {
			continue
		}
		if idx < 0 || idx >= len(q.Options) {
			return 0, apperrors.InvalidInput(
				fmt.Sprintf("answer index %d out of range for question %s", idx, key))
		}
		if q.Options[idx] == q.Answer {
			score++
		}
	}
	return score, nil
}
