package user

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

func (r *Repository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Save(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email already in use")
		}
		return err
	}
	return nil
}

func (r *Repository) GetClass(id uint) (*models.Class, error) {
	var class models.Class
	if err := r.db.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("class not found")
		}
		return nil, err
	}
	return &class, nil
}

// CompletedResults returns the user's completed results, most recent
// completion first.
func (r *Repository) CompletedResults(userID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.Where("user_id = ? AND status = ?", userID, models.ResultCompleted).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

func (r *Repository) CompletedCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Result{}).
		Where("user_id = ? AND status = ?", userID, models.ResultCompleted).
		Count(&count).Error
	return count, err
}

func (r *Repository) GetChallenge(id uint) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("challenge not found")
		}
		return nil, err
	}
	return &challenge, nil
}
