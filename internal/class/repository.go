package class

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

func (r *Repository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *Repository) GetByID(id uint) (*models.Class, error) {
	var class models.Class
	if err := r.db.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("class not found")
		}
		return nil, err
	}
	return &class, nil
}

func (r *Repository) GetActiveByCode(code string) (*models.Class, error) {
	var class models.Class
	err := r.db.Where("code = ? AND active = ?", code, true).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("invalid or inactive class code")
		}
		return nil, err
	}
	return &class, nil
}

func (r *Repository) Members(classID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Where("class_id = ?", classID).Find(&members).Error
	return members, err
}

func (r *Repository) CompletedCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Result{}).
		Where("user_id = ? AND status = ?", userID, models.ResultCompleted).
		Count(&count).Error
	return count, err
}
