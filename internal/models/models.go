package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
)

const (
	ChallengeActive   = "active"
	ChallengeInactive = "inactive"
)

const (
	ResultPending    = "pending"
	ResultInProgress = "in_progress"
	ResultCompleted  = "completed"
	ResultFailed     = "failed"
)

// CompletionXP is awarded exactly once per completed challenge.
const CompletionXP = 10

type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	Email           string         `json:"email" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash    string         `json:"-" gorm:"size:256;not null"`
	Role            string         `json:"role" gorm:"size:20;not null;default:learner"`
	Level           int            `json:"level" gorm:"not null;default:1"`
	XP              int            `json:"xp" gorm:"not null;default:0"`
	InitialTestDone bool           `json:"initial_test_done" gorm:"not null;default:false"`
	ClassID         *uint          `json:"class_id"`
}

type Class struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Code         string         `json:"code" gorm:"size:10;not null;uniqueIndex"`
	Description  string         `json:"description" gorm:"type:text"`
	InstructorID uint           `json:"instructor_id" gorm:"not null;index"`
	Active       bool           `json:"active" gorm:"not null;default:true"`
}

// QuizQuestion is one entry of a challenge's embedded quiz. Answer holds the
// literal text of the correct option; it is stripped from learner responses.
type QuizQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer,omitempty"`
}

type Challenge struct {
	ID            uint                               `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time                          `json:"created_at"`
	UpdatedAt     time.Time                          `json:"-"`
	DeletedAt     gorm.DeletedAt                     `json:"-" gorm:"index"`
	Title         string                             `json:"title" gorm:"size:100;not null"`
	Description   string                             `json:"description" gorm:"type:text;not null"`
	VideoURL      string                             `json:"video_url" gorm:"size:255"`
	Status        string                             `json:"status" gorm:"size:20;not null;default:active"`
	Deadline      time.Time                          `json:"deadline"`
	Questions     datatypes.JSONType[[]QuizQuestion] `json:"questions"`
	PracticalTask string                             `json:"practical_task" gorm:"type:text"`
	ClassID       *uint                              `json:"class_id"`
	CreatedBy     *uint                              `json:"created_by"`
	AIGenerated   bool                               `json:"ai_generated" gorm:"not null;default:false"`
}

// Result links a user to a challenge. The composite unique index makes
// concurrent duplicate starts lose the race instead of inserting twice.
type Result struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time         `json:"-"`
	UpdatedAt       time.Time         `json:"-"`
	UserID          uint              `json:"user_id" gorm:"not null;uniqueIndex:idx_results_user_challenge"`
	ChallengeID     uint              `json:"challenge_id" gorm:"not null;uniqueIndex:idx_results_user_challenge"`
	Status          string            `json:"status" gorm:"size:20;not null;default:pending"`
	StartedAt       time.Time         `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	QuizAnswers     datatypes.JSONMap `json:"quiz_answers"`
	PracticalAnswer string            `json:"practical_answer" gorm:"type:text"`
	Score           int               `json:"score" gorm:"not null;default:0"`
}

type Assessment struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time         `json:"created_at"`
	UserID    uint              `json:"user_id" gorm:"not null;index"`
	Score     int               `json:"score" gorm:"not null"`
	Feedback  string            `json:"feedback" gorm:"type:text"`
	Responses datatypes.JSONMap `json:"responses"`
}

// LikertTest is the structured one-per-user self test. The user_id unique
// index backs the lookup-before-insert in the service.
type LikertTest struct {
	ID                    uint              `json:"id" gorm:"primaryKey"`
	CreatedAt             time.Time         `json:"created_at"`
	UserID                uint              `json:"user_id" gorm:"not null;uniqueIndex"`
	Responses             datatypes.JSONMap `json:"responses"`
	Analysis              string            `json:"analysis,omitempty" gorm:"type:text"`
	Communication         float64           `json:"-"`
	Empathy               float64           `json:"-"`
	EmotionalIntelligence float64           `json:"-" gorm:"column:emotional_intelligence"`
	Teamwork              float64           `json:"-"`
	Leadership            float64           `json:"-"`
}

// Question is a seeded self-test question, shared by the open assessment and
// the Likert test listings.
type Question struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Text     string `json:"text" gorm:"size:500;not null"`
	Category string `json:"category" gorm:"size:100;not null"`
	Order    int    `json:"order" gorm:"column:ordering;not null"`
}

// IntMap converts a stored JSON map back to integer values. Numbers come out
// of jsonb as float64.
func IntMap(m datatypes.JSONMap) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case float64:
			out[k] = int(n)
		case int:
			out[k] = n
		}
	}
	return out
}

// ToJSONMap widens an integer map for storage in a JSONMap column.
func ToJSONMap(m map[string]int) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
