package likert

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

func (r *Repository) ListQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Order("ordering ASC").Find(&questions).Error
	return questions, err
}

func (r *Repository) GetByUser(userID uint) (*models.LikertTest, error) {
	var test models.LikertTest
	if err := r.db.Where("user_id = ?", userID).First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("test not found")
		}
		return nil, err
	}
	return &test, nil
}

// Create inserts the one-per-user test. Losing a concurrent race surfaces as
// a duplicate-key error thanks to the unique index on user_id.
func (r *Repository) Create(test *models.LikertTest) error {
	if err := r.db.Create(test).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("test already submitted")
		}
		return err
	}
	return nil
}

func (r *Repository) MarkInitialTestDone(userID uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("initial_test_done", true).Error
}
