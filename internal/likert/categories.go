package likert

import "strconv"

// categoryQuestions is the fixed mapping from question id to scored category.
// Question 9 deliberately feeds both empathy and leadership.
var categoryQuestions = map[string][]int{
	"communication":          {1, 4, 7},
	"empathy":                {2, 9},
	"emotional_intelligence": {3, 8, 10},
	"teamwork":               {5, 6},
	"leadership":             {9},
}

// CategoryScores averages the 1-5 responses of each category's member
// questions. An unanswered member contributes 0 to the sum but still counts
// in the divisor, pulling the category down when a question is skipped.
func CategoryScores(responses map[string]int) map[string]float64 {
	scores := make(map[string]float64, len(categoryQuestions))
	for category, ids := range categoryQuestions {
		sum := 0
		for _, id := range ids {
			sum += responses[strconv.Itoa(id)]
		}
		scores[category] = float64(sum) / float64(len(ids))
	}
	return scores
}
