package class

import (
	"strings"

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

type JoinResult struct {
	Class models.ClassSummary `json:"class"`
	User  models.UserDTO      `json:"user"`
}

// Join puts a learner into the class behind the given code. A learner can
// belong to one class at a time.
func (s *Service) Join(userID uint, code string) (*JoinResult, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.ClassID != nil {
		return nil, apperrors.InvalidInput("already in a class; leave the current one first")
	}

	class, err := s.repo.GetActiveByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	user.ClassID = &class.ID
	user.Role = models.RoleLearner
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}

	if err := s.cache.SetMemberScore(class.ID, user.ID, progression.TotalXP(user.Level, user.XP)); err != nil {
		s.log.Warnw("leaderboard update failed", "class_id", class.ID, "err", err)
	}
	s.hub.Broadcast(class.ID, "member_joined", map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
	})

	return &JoinResult{Class: class.Summary(), User: user.DTO()}, nil
}

func (s *Service) Leave(userID uint) (*models.User, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.ClassID == nil {
		return nil, apperrors.InvalidInput("not in a class")
	}

	classID := *user.ClassID
	user.ClassID = nil
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}

	if err := s.cache.RemoveMember(classID, user.ID); err != nil {
		s.log.Warnw("leaderboard removal failed", "class_id", classID, "err", err)
	}
	s.hub.Broadcast(classID, "member_left", map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
	})

	return user, nil
}

type Classmate struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	Level               int    `json:"level"`
	XP                  int    `json:"xp"`
	CompletedChallenges int64  `json:"completed_challenges"`
}

type Mine struct {
	Class      models.ClassSummary `json:"class"`
	Classmates []Classmate         `json:"classmates"`
	Ranking    []cache.RankEntry   `json:"ranking,omitempty"`
}

// Mine returns the caller's class, the other members, and the cached XP
// ranking when available.
func (s *Service) Mine(userID uint) (*Mine, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.ClassID == nil {
		return nil, apperrors.NotFound("not in a class")
	}

	class, err := s.repo.GetByID(*user.ClassID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.Members(class.ID)
	if err != nil {
		return nil, err
	}

	classmates := make([]Classmate, 0, len(members))
	for _, member := range members {
		if member.ID == user.ID {
			continue
		}
		completed, err := s.repo.CompletedCount(member.ID)
		if err != nil {
			return nil, err
		}
		classmates = append(classmates, Classmate{
			ID:                  member.ID,
			Name:                member.Name,
			Level:               member.Level,
			XP:                  member.XP,
			CompletedChallenges: completed,
		})
	}

	mine := &Mine{Class: class.Summary(), Classmates: classmates}
	if ranking, err := s.cache.ClassRanking(class.ID); err == nil {
		mine.Ranking = ranking
	} else {
		s.log.Debugw("class ranking unavailable", "class_id", class.ID, "err", err)
	}
	return mine, nil
}
