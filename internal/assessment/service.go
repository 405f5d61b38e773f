package assessment

import (
	"fmt"
	"strconv"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Questions() ([]models.Question, error) {
	return s.repo.ListQuestions()
}

type Submitted struct {
	Assessment       models.Assessment  `json:"assessment"`
	CategoryAverages map[string]float64 `json:"category_averages"`
}

// Submit records one self-assessment. Every seeded question, and nothing
// else, must be answered with a 1-5 value; the score projects the response
// mean onto a 0-100 scale, truncating the fraction.
func (s *Service) Submit(userID uint, responses map[string]int) (*Submitted, error) {
	questions, err := s.repo.ListQuestions()
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.NotFound("no assessment questions available")
	}

	sum := 0
	for _, q := range questions {
		key := strconv.FormatUint(uint64(q.ID), 10)
		value, ok := responses[key]
		if !ok {
			return nil, apperrors.MissingField(fmt.Sprintf("responses.%s", key))
		}
		if value < 1 || value > 5 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("response for question %s must be between 1 and 5", key))
		}
		sum += value
	}
	// Every seeded question is accounted for above, so any surplus key does
	// not match a question and must not feed the mean.
	if len(responses) != len(questions) {
		return nil, apperrors.InvalidInput("responses contain unknown question ids")
	}
	mean := float64(sum) / float64(len(questions))

	assessment := &models.Assessment{
		UserID:    userID,
		Score:     int(mean * 20),
		Feedback:  feedbackFor(mean),
		Responses: models.ToJSONMap(responses),
	}
	if err := s.repo.Create(assessment); err != nil {
		return nil, err
	}

	return &Submitted{
		Assessment:       *assessment,
		CategoryAverages: CategoryAverages(questions, responses),
	}, nil
}

type HistoryEntry struct {
	Assessment       models.Assessment  `json:"assessment"`
	CategoryAverages map[string]float64 `json:"category_averages"`
}

func (s *Service) History(userID uint) ([]HistoryEntry, error) {
	assessments, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions()
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(assessments))
	for _, a := range assessments {
		history = append(history, HistoryEntry{
			Assessment:       a,
			CategoryAverages: CategoryAverages(questions, models.IntMap(a.Responses)),
		})
	}
	return history, nil
}

// CategoryAverages groups responses by each question's category and averages
// them. Unanswered questions simply do not contribute, unlike the Likert
// scoring where absent answers count as zero.
func CategoryAverages(questions []models.Question, responses map[string]int) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, q := range questions {
		key := strconv.FormatUint(uint64(q.ID), 10)
		value, ok := responses[key]
		if !ok {
			continue
		}
		sums[q.Category] += value
		counts[q.Category]++
	}

	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = float64(sum) / float64(counts[category])
	}
	return averages
}

func feedbackFor(mean float64) string {
	switch {
	case mean >= 4.5:
		return "Excellent! You show a high level of self-awareness and interpersonal skill."
	case mean >= 3.5:
		return "Very good! You have solid interpersonal skills with room to keep growing."
	case mean >= 2.5:
		return "Good. You are on the right track; practice will sharpen your interpersonal skills."
	case mean >= 1.5:
		return "Fair. We recommend focusing on developing your interpersonal skills."
	default:
		return "You are just starting your journey. The challenges will help you build these skills."
	}
}
