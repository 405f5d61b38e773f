package likert

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullResponses(value int) map[string]int {
	responses := make(map[string]int, 10)
	for i := 1; i <= 10; i++ {
		responses[strconv.Itoa(i)] = value
	}
	return responses
}

func TestCategoryScoresUniformResponses(t *testing.T) {
	scores := CategoryScores(fullResponses(4))
	require.Len(t, scores, 5)
	for category, score := range scores {
		assert.InDelta(t, 4.0, score, 1e-9, "category %s", category)
	}
}

func TestCategoryScoresQuestionNineFeedsTwoCategories(t *testing.T) {
	responses := fullResponses(1)
	responses["9"] = 5

	scores := CategoryScores(responses)

	// Empathy averages questions 2 and 9; leadership is question 9 alone.
	assert.InDelta(t, 3.0, scores["empathy"], 1e-9)
	assert.InDelta(t, 5.0, scores["leadership"], 1e-9)
	// Categories without question 9 are untouched.
	assert.InDelta(t, 1.0, scores["communication"], 1e-9)
	assert.InDelta(t, 1.0, scores["teamwork"], 1e-9)
}

func TestCategoryScoresMissingAnswerCountsAsZero(t *testing.T) {
	responses := fullResponses(5)
	delete(responses, "1")

	scores := CategoryScores(responses)

	// Communication is questions 1, 4 and 7: (0 + 5 + 5) / 3.
	assert.InDelta(t, 10.0/3.0, scores["communication"], 1e-9)
	assert.InDelta(t, 5.0, scores["teamwork"], 1e-9)
}

func TestCategoryScoresEmptyResponses(t *testing.T) {
	scores := CategoryScores(map[string]int{})
	require.Len(t, scores, 5)
	for category, score := range scores {
		assert.Zero(t, score, "category %s", category)
	}
}
