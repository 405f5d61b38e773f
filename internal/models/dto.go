package models

import (
	"time"

	"skillquest-server/internal/progression"
)

type UserDTO struct {
	ID              uint          `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	CreatedAt       time.Time     `json:"created_at"`
	Role            string        `json:"role"`
	Level           int           `json:"level"`
	XP              int           `json:"xp"`
	NextLevelXP     int           `json:"next_level_xp"`
	InitialTestDone bool          `json:"initial_test_done"`
	ClassID         *uint         `json:"class_id"`
	Class           *ClassSummary `json:"class,omitempty"`
}

type ClassSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (u *User) DTO() UserDTO {
	return UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt,
		Role:            u.Role,
		Level:           u.Level,
		XP:              u.XP,
		NextLevelXP:     progression.XPToNextLevel(u.Level),
		InitialTestDone: u.InitialTestDone,
		ClassID:         u.ClassID,
	}
}

func (c *Class) Summary() ClassSummary {
	return ClassSummary{ID: c.ID, Name: c.Name, Code: c.Code}
}

type ChallengeDTO struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	VideoURL      string         `json:"video_url"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Deadline      time.Time      `json:"deadline"`
	Questions     []QuizQuestion `json:"questions"`
	PracticalTask string         `json:"practical_task"`
	ClassID       *uint          `json:"class_id"`
	AIGenerated   bool           `json:"ai_generated"`
}

// DTO serializes a challenge, stripping the correct answers unless the
// caller owns the challenge.
func (c *Challenge) DTO(includeAnswers bool) ChallengeDTO {
	src := c.Questions.Data()
	questions := make([]QuizQuestion, len(src))
	copy(questions, src)
	if !includeAnswers {
		for i := range questions {
			questions[i].Answer = ""
		}
	}
	return ChallengeDTO{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		VideoURL:      c.VideoURL,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		Deadline:      c.Deadline,
		Questions:     questions,
		PracticalTask: c.PracticalTask,
		ClassID:       c.ClassID,
		AIGenerated:   c.AIGenerated,
	}
}

type LikertTestDTO struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
	Responses map[string]int     `json:"responses"`
	Analysis  string             `json:"analysis,omitempty"`
	Scores    map[string]float64 `json:"scores"`
}

func (t *LikertTest) DTO() LikertTestDTO {
	return LikertTestDTO{
		ID:        t.ID,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
		Responses: IntMap(t.Responses),
		Analysis:  t.Analysis,
		Scores: map[string]float64{
			"communication":          t.Communication,
			"empathy":                t.Empathy,
			"emotional_intelligence": t.EmotionalIntelligence,
			"teamwork":               t.Teamwork,
			"leadership":             t.Leadership,
		},
	}
}
