package likert

import (
	"errors"
	"fmt"

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

// Submit records the caller's one structured self-test. A repeat submission
// returns the existing record unchanged, so clients can retry the POST
// safely.
func (s *Service) Submit(userID uint, responses map[string]int) (*models.LikertTest, bool, error) {
	if existing, err := s.repo.GetByUser(userID); err == nil {
		return existing, false, nil
	}

	for questionID, value := range responses {
		if value < 1 || value > 5 {
			return nil, false, apperrors.InvalidInput(
				fmt.Sprintf("response for question %s must be between 1 and 5", questionID))
		}
	}

	scores := CategoryScores(responses)
	test := &models.LikertTest{
		UserID:                userID,
		Responses:             models.ToJSONMap(responses),
		Communication:         scores["communication"],
		Empathy:               scores["empathy"],
		EmotionalIntelligence: scores["emotional_intelligence"],
		Teamwork:              scores["teamwork"],
		Leadership:            scores["leadership"],
	}

	if err := s.repo.Create(test); err != nil {
		// A concurrent duplicate lost the insert race; hand back the winner.
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeConflict {
			if existing, getErr := s.repo.GetByUser(userID); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	if err := s.repo.MarkInitialTestDone(userID); err != nil {
		return nil, false, err
	}
	return test, true, nil
}

func (s *Service) Result(userID uint) (*models.LikertTest, error) {
	return s.repo.GetByUser(userID)
}
