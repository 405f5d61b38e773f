package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Challenge{}, &models.Result{}))
	return NewRepository(db)
}

func TestCreateResultEnforcesOnePerUserAndChallenge(t *testing.T) {
	repo := newTestRepository(t)

	first := &models.Result{UserID: 1, ChallengeID: 1, Status: models.ResultPending, StartedAt: time.Now()}
	require.NoError(t, repo.CreateResult(first))

	dup := &models.Result{UserID: 1, ChallengeID: 1, Status: models.ResultPending, StartedAt: time.Now()}
	err := repo.CreateResult(dup)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.From(err).Code)

	// Same user on a different challenge, and a different user on the same
	// challenge, are both fine.
	require.NoError(t, repo.CreateResult(&models.Result{UserID: 1, ChallengeID: 2, StartedAt: time.Now()}))
	require.NoError(t, repo.CreateResult(&models.Result{UserID: 2, ChallengeID: 1, StartedAt: time.Now()}))
}

func TestGetResultNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetResult(1, 99)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestCompleteResultPersistsResultAndUserTogether(t *testing.T) {
	repo := newTestRepository(t)

	user := &models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleLearner, Level: 1, XP: 15}
	require.NoError(t, repo.db.Create(user).Error)

	result := &models.Result{UserID: user.ID, ChallengeID: 1, Status: models.ResultInProgress, StartedAt: time.Now()}
	require.NoError(t, repo.CreateResult(result))

	now := time.Now().UTC()
	result.Status = models.ResultCompleted
	result.CompletedAt = &now
	user.Level = 2
	user.XP = 5
	require.NoError(t, repo.CompleteResult(result, user))

	stored, err := repo.GetResult(user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResultCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	storedUser, err := repo.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, storedUser.Level)
	assert.Equal(t, 5, storedUser.XP)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.db.Create(&models.Challenge{Title: "Active", Status: models.ChallengeActive}).Error)
	require.NoError(t, repo.db.Create(&models.Challenge{Title: "Inactive", Status: models.ChallengeInactive}).Error)

	all, err := repo.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(models.ChallengeActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Title)
}
