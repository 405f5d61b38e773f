package challenge

import (
	"errors"

	"gorm.io/gorm"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns challenges newest first, optionally filtered by status.
func (r *Repository) List(status string) ([]models.Challenge, error) {
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var challenges []models.Challenge
	err := query.Find(&challenges).Error
	return challenges, err
}

func (r *Repository) GetByID(id uint) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("challenge not found")
		}
		return nil, err
	}
	return &challenge, nil
}

// Featured returns the most recently created active challenge.
func (r *Repository) Featured() (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.Where("status = ?", models.ChallengeActive).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no featured challenge available")
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *Repository) ResultsByUser(userID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.Where("user_id = ?", userID).Find(&results).Error
	return results, err
}

func (r *Repository) GetResult(userID, challengeID uint) (*models.Result, error) {
	var result models.Result
	err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("result not found")
		}
		return nil, err
	}
	return &result, nil
}

// CreateResult inserts a fresh result. The composite unique index on
// (user_id, challenge_id) turns a concurrent duplicate into a conflict the
// service resolves by re-reading the winner.
func (r *Repository) CreateResult(result *models.Result) error {
	if err := r.db.Create(result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("challenge already started")
		}
		return err
	}
	return nil
}

func (r *Repository) SaveResult(result *models.Result) error {
	return r.db.Save(result).Error
}

func (r *Repository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CompleteResult persists the completed result and the XP award as one
// transaction, so a completion never half-applies.
func (r *Repository) CompleteResult(result *models.Result, user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(result).Error; err != nil {
			return err
		}
		return tx.Save(user).Error
	})
}
