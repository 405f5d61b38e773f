package assessment

import (
	"gorm.io/gorm"

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

func (r *Repository) Create(assessment *models.Assessment) error {
	return r.db.Create(assessment).Error
}

func (r *Repository) ListByUser(userID uint) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assessments).Error
	return assessments, err
}
