package instructor

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

func (r *Repository) Classes(instructorID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.Where("instructor_id = ?", instructorID).Find(&classes).Error
	return classes, err
}

func (r *Repository) ActiveClasses(instructorID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.Where("instructor_id = ? AND active = ?", instructorID, true).
		Find(&classes).Error
	return classes, err
}

// OwnedClass loads a class only when the instructor owns it. Absent and
// un-owned are deliberately the same error, so ownership probes leak nothing.
func (r *Repository) OwnedClass(classID, instructorID uint) (*models.Class, error) {
	var class models.Class
	err := r.db.Where("id = ? AND instructor_id = ?", classID, instructorID).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("class not found")
		}
		return nil, err
	}
	return &class, nil
}

func (r *Repository) CodeExists(code string) bool {
	var count int64
	r.db.Model(&models.Class{}).Where("code = ?", code).Count(&count)
	return count > 0
}

func (r *Repository) CreateClass(class *models.Class) error {
	if err := r.db.Create(class).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("join code collision")
		}
		return err
	}
	return nil
}

func (r *Repository) SaveClass(class *models.Class) error {
	return r.db.Save(class).Error
}

func (r *Repository) DeleteClass(class *models.Class) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Detach members so no learner points at a deleted class.
		if err := tx.Model(&models.User{}).
			Where("class_id = ?", class.ID).
			Update("class_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(class).Error
	})
}

func (r *Repository) Members(classID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Where("class_id = ?", classID).Find(&members).Error
	return members, err
}

func (r *Repository) LikertByUser(userID uint) (*models.LikertTest, error) {
	var test models.LikertTest
	if err := r.db.Where("user_id = ?", userID).First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("test not found")
		}
		return nil, err
	}
	return &test, nil
}

func (r *Repository) ResultCounts(userID uint) (completed, pending int64, err error) {
	if err = r.db.Model(&models.Result{}).
		Where("user_id = ? AND status = ?", userID, models.ResultCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.Result{}).
		Where("user_id = ? AND status = ?", userID, models.ResultPending).
		Count(&pending).Error
	return completed, pending, err
}

func (r *Repository) ChallengeCount(creatorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Challenge{}).
		Where("created_by = ?", creatorID).
		Count(&count).Error
	return count, err
}

func (r *Repository) ChallengesByClass(classID uint) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.Where("class_id = ?", classID).Find(&challenges).Error
	return challenges, err
}

func (r *Repository) ResultsByChallenge(challengeID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.Where("challenge_id = ?", challengeID).Find(&results).Error
	return results, err
}

func (r *Repository) CreateChallenge(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

// OwnedChallenge mirrors OwnedClass for challenges: only the creator sees it.
func (r *Repository) OwnedChallenge(challengeID, creatorID uint) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.Where("id = ? AND created_by = ?", challengeID, creatorID).
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("challenge not found")
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *Repository) SaveChallenge(challenge *models.Challenge) error {
	return r.db.Save(challenge).Error
}

func (r *Repository) DeleteChallenge(challenge *models.Challenge) error {
	return r.db.Delete(challenge).Error
}
