package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

func quizFixture() []models.QuizQuestion {
	return []models.QuizQuestion{
		{ID: 1, Text: "Pick A", Options: []string{"A", "B", "C"}, Answer: "A"},
		{ID: 2, Text: "Pick B", Options: []string{"A", "B", "C"}, Answer: "B"},
		{ID: 3, Text: "Pick C", Options: []string{"A", "B", "C"}, Answer: "C"},
	}
}

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]int
		want    int
	}{
		{"all correct", map[string]int{"1": 0, "2": 1, "3": 2}, 3},
		{"all wrong", map[string]int{"1": 1, "2": 0, "3": 0}, 0},
		{"partially correct", map[string]int{"1": 0, "2": 0, "3": 2}, 2},
		{"unanswered questions skipped", map[string]int{"2": 1}, 1},
		{"empty answers", map[string]int{}, 0},
		{"unknown question ids ignored", map[string]int{"99": 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scoreQuiz(quizFixture(), tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreQuizOutOfRangeIndex(t *testing.T) {
	for _, idx := range []int{-1, 3, 100} {
		_, err := scoreQuiz(quizFixture(), map[string]int{"1": idx})
		require.Error(t, err)
		appErr := apperrors.From(err)
		assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestScoreQuizSurvivesOptionReorder(t *testing.T) {
	// Grading compares the chosen option text against the stored answer, so a
	// reordered option list with adjusted indices must score identically.
	original := []models.QuizQuestion{
		{ID: 1, Text: "Pick B", Options: []string{"A", "B", "C"}, Answer: "B"},
	}
	reordered := []models.QuizQuestion{
		{ID: 1, Text: "Pick B", Options: []string{"C", "B", "A"}, Answer: "B"},
	}

	got, err := scoreQuiz(original, map[string]int{"1": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = scoreQuiz(reordered, map[string]int{"1": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
