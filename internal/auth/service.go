package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/models"
)

const (
	accessTokenLifetime  = 24 * time.Hour
	refreshTokenLifetime = 30 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service struct {
	repo      *Repository
	jwtSecret []byte
}

func NewService(repo *Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *Service) Register(name, email, password, role string) (*models.User, *TokenPair, error) {
	if role == "" {
		role = models.RoleLearner
	}
	if role != models.RoleLearner && role != models.RoleInstructor {
		return nil, nil, apperrors.InvalidInput("role must be learner or instructor")
	}

	// The unique index on email is the real guard; this check just gives the
	// common case a clean 409 without a failed insert.
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, nil, apperrors.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Level:        1,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	userID, err := parseToken(refreshToken, s.jwtSecret, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.GetByID(userID); err != nil {
		return "", apperrors.Unauthorized("invalid refresh token")
	}
	return s.signToken(userID, tokenTypeAccess, accessTokenLifetime)
}

func (s *Service) issueTokens(userID uint) (*TokenPair, error) {
	access, err := s.signToken(userID, tokenTypeAccess, accessTokenLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, tokenTypeRefresh, refreshTokenLifetime)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) signToken(userID uint, tokenType string, lifetime time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"exp":        time.Now().Add(lifetime).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func parseToken(tokenString string, secret []byte, wantType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperrors.Unauthorized("invalid token claims")
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != wantType {
		return 0, apperrors.Unauthorized("wrong token type")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, apperrors.Unauthorized("invalid user id in token")
	}
	return uint(userID), nil
}

// ParseAccessToken validates an access token and returns the subject user id.
// Used by the middleware and by the websocket feed, which authenticates via
// query parameter.
func ParseAccessToken(tokenString, secret string) (uint, error) {
	return parseToken(tokenString, []byte(secret), tokenTypeAccess)
}
