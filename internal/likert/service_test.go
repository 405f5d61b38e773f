package likert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Question{}, &models.LikertTest{}))
	return NewService(NewRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleLearner, Level: 1}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSubmitStoresCategoryScores(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	test, created, err := svc.Submit(user.ID, fullResponses(4))
	require.NoError(t, err)
	assert.True(t, created)
	assert.InDelta(t, 4.0, test.Communication, 1e-9)
	assert.InDelta(t, 4.0, test.Empathy, 1e-9)
	assert.InDelta(t, 4.0, test.EmotionalIntelligence, 1e-9)
	assert.InDelta(t, 4.0, test.Teamwork, 1e-9)
	assert.InDelta(t, 4.0, test.Leadership, 1e-9)
}

func TestSubmitMarksInitialTestDone(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	require.False(t, user.InitialTestDone)

	_, _, err := svc.Submit(user.ID, fullResponses(3))
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.InitialTestDone)
}

func TestSubmitIsIdempotentPerUser(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	first, created, err := svc.Submit(user.ID, fullResponses(2))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Submit(user.ID, fullResponses(5))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// The repeat submission did not overwrite the original scores.
	assert.InDelta(t, 2.0, second.Teamwork, 1e-9)

	var count int64
	require.NoError(t, db.Model(&models.LikertTest{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitRejectsOutOfRangeResponses(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	for _, bad := range []int{0, 6, -1} {
		responses := fullResponses(3)
		responses["5"] = bad
		_, _, err := svc.Submit(user.ID, responses)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.From(err).Code)
	}
}

func TestResultBeforeSubmission(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	_, err := svc.Result(user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}
