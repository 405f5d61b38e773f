package challenge

import (
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
	"skillquest-server/internal/progression"
	"skillquest-server/pkg/cache"
	"skillquest-server/pkg/websocket"
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	hub   *websocket.Hub
	log   *zap.SugaredLogger
}

func NewService(repo *Repository, cache *cache.RedisCache, hub *websocket.Hub, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, cache: cache, hub: hub, log: log}
}

// ProgressInfo mirrors a learner's result on a challenge in listings.
type ProgressInfo struct {
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Score       int        `json:"score"`
}

type WithProgress struct {
	models.ChallengeDTO
	Progress *ProgressInfo `json:"progress"`
}

func progressOf(result *models.Result) *ProgressInfo {
	if result == nil {
		return nil
	}
	return &ProgressInfo{
		Status:      result.Status,
		StartedAt:   result.StartedAt,
		CompletedAt: result.CompletedAt,
		Score:       result.Score,
	}
}

// List returns every challenge (optionally filtered by status) with the
// caller's progress attached.
func (s *Service) List(userID uint, status string) ([]WithProgress, error) {
	challenges, err := s.repo.List(status)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.ResultsByUser(userID)
	if err != nil {
		return nil, err
	}
	byChallenge := make(map[uint]*models.Result, len(results))
	for i := range results {
		byChallenge[results[i].ChallengeID] = &results[i]
	}

	out := make([]WithProgress, 0, len(challenges))
	for _, ch := range challenges {
		out = append(out, WithProgress{
			ChallengeDTO: ch.DTO(false),
			Progress:     progressOf(byChallenge[ch.ID]),
		})
	}
	return out, nil
}

func (s *Service) Get(userID, challengeID uint) (*WithProgress, error) {
	ch, err := s.getChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	var progress *ProgressInfo
	if result, err := s.repo.GetResult(userID, challengeID); err == nil {
		progress = progressOf(result)
	}

	return &WithProgress{ChallengeDTO: ch.DTO(false), Progress: progress}, nil
}

func (s *Service) Featured(userID uint) (*WithProgress, error) {
	ch, err := s.repo.Featured()
	if err != nil {
		return nil, err
	}

	var progress *ProgressInfo
	if result, err := s.repo.GetResult(userID, ch.ID); err == nil {
		progress = progressOf(result)
	}
	return &WithProgress{ChallengeDTO: ch.DTO(false), Progress: progress}, nil
}

// Questions returns the quiz with the correct answers stripped.
func (s *Service) Questions(challengeID uint) ([]models.QuizQuestion, error) {
	ch, err := s.getChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	return ch.DTO(false).Questions, nil
}

// Start opens a result for the caller. Starting twice (including losing a
// concurrent race) hands back the existing row.
func (s *Service) Start(userID, challengeID uint) (*models.Result, bool, error) {
	if _, err := s.getChallenge(challengeID); err != nil {
		return nil, false, err
	}

	if existing, err := s.repo.GetResult(userID, challengeID); err == nil {
		return existing, false, nil
	}

	result := &models.Result{
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      models.ResultPending,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateResult(result); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeConflict {
			if existing, getErr := s.repo.GetResult(userID, challengeID); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return result, true, nil
}

type QuizOutcome struct {
	Score     int  `json:"score"`
	Total     int  `json:"total"`
	Completed bool `json:"completed"`
}

// SubmitQuiz scores the submitted answers and stores them on the result,
// creating one if the learner skipped the explicit start.
func (s *Service) SubmitQuiz(userID, challengeID uint, answers map[string]int, practical string) (*QuizOutcome, error) {
	ch, err := s.getChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	result, _, err := s.Start(userID, challengeID)
	if err != nil {
		return nil, err
	}

	questions := ch.Questions.Data()
	score, err := scoreQuiz(questions, answers)
	if err != nil {
		return nil, err
	}

	result.QuizAnswers = models.ToJSONMap(answers)
	result.Score = score
	if practical != "" {
		result.PracticalAnswer = practical
	}
	if result.Status == models.ResultPending {
		result.Status = models.ResultInProgress
	}
	if err := s.repo.SaveResult(result); err != nil {
		return nil, err
	}

	return &QuizOutcome{
		Score:     score,
		Total:     len(questions),
		Completed: result.Status == models.ResultCompleted,
	}, nil
}

func (s *Service) QuizResult(userID, challengeID uint) (*QuizOutcome, error) {
	ch, err := s.getChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.GetResult(userID, challengeID)
	if err != nil {
		return nil, err
	}
	return &QuizOutcome{
		Score:     result.Score,
		Total:     len(ch.Questions.Data()),
		Completed: result.Status == models.ResultCompleted,
	}, nil
}

// Complete marks the result completed and awards the fixed XP once. Repeat
// completions return the result untouched.
func (s *Service) Complete(userID, challengeID uint) (*models.Result, bool, error) {
	result, err := s.repo.GetResult(userID, challengeID)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return nil, false, apperrors.InvalidInput("challenge not started")
		}
		return nil, false, err
	}

	if result.Status == models.ResultCompleted {
		return result, false, nil
	}

	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	result.Status = models.ResultCompleted
	result.CompletedAt = &now

	newLevel, newXP, leveledUp := progression.AddXP(user.Level, user.XP, models.CompletionXP)
	user.Level = newLevel
	user.XP = newXP

	if err := s.repo.CompleteResult(result, user); err != nil {
		return nil, false, err
	}

	if user.ClassID != nil {
		classID := *user.ClassID
		total := progression.TotalXP(user.Level, user.XP)
		if err := s.cache.SetMemberScore(classID, user.ID, total); err != nil {
			s.log.Warnw("leaderboard update failed", "class_id", classID, "err", err)
		}
		s.hub.Broadcast(classID, "challenge_completed", map[string]interface{}{
			"user_id":      user.ID,
			"name":         user.Name,
			"challenge_id": challengeID,
			"score":        result.Score,
		})
		if leveledUp {
			s.hub.Broadcast(classID, "level_up", map[string]interface{}{
				"user_id": user.ID,
				"name":    user.Name,
				"level":   user.Level,
			})
		}
	}

	return result, true, nil
}

// getChallenge serves reads through the cache, falling back to the database
// and repopulating on a miss. Cache failures only cost the shortcut.
func (s *Service) getChallenge(id uint) (*models.Challenge, error) {
	if cached, err := s.cache.GetChallenge(id); err == nil {
		return cached, nil
	}

	ch, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetChallenge(ch); err != nil {
		s.log.Debugw("challenge cache set failed", "id", strconv.FormatUint(uint64(id), 10), "err", err)
	}
	return ch, nil
}
