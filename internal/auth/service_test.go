package auth

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

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewService(NewRepository(db), testSecret)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, tokens, err := svc.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.Equal(t, 1, user.Level)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	got, loginTokens, err := svc.Login("ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, loginTokens.AccessToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Register("Other", "ana@example.com", "different", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.From(err).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("Ana", "ana@example.com", "secret123", "admin")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.From(err).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Login("ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(err).Code)

	_, _, err = svc.Login("nobody@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(err).Code)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	user, tokens, err := svc.Register("Ana", "ana@example.com", "secret123", models.RoleInstructor)
	require.NoError(t, err)

	userID, err := ParseAccessToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = ParseAccessToken(tokens.AccessToken, "other-secret")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(err).Code)
}

func TestRefreshTokenCannotActAsAccessToken(t *testing.T) {
	svc := newTestService(t)

	_, tokens, err := svc.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = ParseAccessToken(tokens.RefreshToken, testSecret)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(err).Code)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc := newTestService(t)

	user, tokens, err := svc.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)

	access, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)

	userID, err := ParseAccessToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// An access token is not accepted where a refresh token is expected.
	_, err = svc.Refresh(tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(err).Code)
}
