package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
	"skillquest-server/internal/progression"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Me returns the caller's profile with the class summary attached when the
// user belongs to one.
func (s *Service) Me(userID uint) (*models.UserDTO, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	dto := user.DTO()
	if user.ClassID != nil {
		if class, err := s.repo.GetClass(*user.ClassID); err == nil {
			summary := class.Summary()
			dto.Class = &summary
		}
	}
	return &dto, nil
}

type ProfileUpdate struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Service) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}

	if email := strings.TrimSpace(update.Email); email != "" && email != user.Email {
		if existing, err := s.repo.GetByEmail(email); err == nil && existing.ID != userID {
			return nil, apperrors.Conflict("email already in use")
		}
		user.Email = email
	}

	if update.NewPassword != "" {
		if update.CurrentPassword == "" {
			return nil, apperrors.MissingField("current_password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(update.CurrentPassword)); err != nil {
			return nil, apperrors.Unauthorized("current password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

type CompletionEntry struct {
	ChallengeID uint      `json:"challenge_id"`
	CompletedAt time.Time `json:"completed_at"`
	Score       int       `json:"score"`
}

type Progress struct {
	Level               int               `json:"level"`
	XP                  int               `json:"xp"`
	NextLevelXP         int               `json:"next_level_xp"`
	CompletedChallenges int               `json:"completed_challenges"`
	Streak              int               `json:"streak"`
	History             []CompletionEntry `json:"history"`
}

// Progress aggregates the learner's gamification state: level, xp, streak and
// the date-ordered completion history (oldest first).
func (s *Service) Progress(userID uint) (*Progress, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.CompletedResults(userID)
	if err != nil {
		return nil, err
	}

	completions := make([]time.Time, 0, len(results))
	for _, res := range results {
		if res.CompletedAt != nil {
			completions = append(completions, *res.CompletedAt)
		}
	}

	// results arrive newest-first; the response history reads oldest-first.
	history := make([]CompletionEntry, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		res := results[i]
		if res.CompletedAt == nil {
			continue
		}
		history = append(history, CompletionEntry{
			ChallengeID: res.ChallengeID,
			CompletedAt: *res.CompletedAt,
			Score:       res.Score,
		})
	}

	return &Progress{
		Level:               user.Level,
		XP:                  user.XP,
		NextLevelXP:         progression.XPToNextLevel(user.Level),
		CompletedChallenges: len(results),
		Streak:              progression.Streak(completions),
		History:             history,
	}, nil
}

type HistoryEntry struct {
	ChallengeID uint      `json:"challenge_id"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completed_at"`
	Score       int       `json:"score"`
}

func (s *Service) ChallengeHistory(userID uint) ([]HistoryEntry, error) {
	results, err := s.repo.CompletedResults(userID)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(results))
	for _, res := range results {
		if res.CompletedAt == nil {
			continue
		}
		entry := HistoryEntry{
			ChallengeID: res.ChallengeID,
			CompletedAt: *res.CompletedAt,
			Score:       res.Score,
		}
		if challenge, err := s.repo.GetChallenge(res.ChallengeID); err == nil {
			entry.Title = challenge.Title
		}
		history = append(history, entry)
	}
	return history, nil
}

func (s *Service) InitialTestDone(userID uint) (bool, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user.InitialTestDone, nil
}

func (s *Service) CompleteInitialTest(userID uint) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	user.InitialTestDone = true
	return s.repo.Save(user)
}
