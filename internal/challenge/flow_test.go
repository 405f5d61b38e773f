package challenge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillquest-server/internal/auth"
	"skillquest-server/internal/models"
	"skillquest-server/internal/user"
	"skillquest-server/pkg/cache"
	"skillquest-server/pkg/websocket"
)

const flowSecret = "flow-secret"

func newFlowRouter(t *testing.T) (*mux.Router, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Class{}, &models.Challenge{}, &models.Result{}))

	mr := miniredis.RunT(t)
	log := zap.NewNop().Sugar()
	hub := websocket.NewHub(log)
	go hub.Run()

	authHandler := auth.NewHandler(auth.NewService(auth.NewRepository(db), flowSecret), log)
	userHandler := user.NewHandler(user.NewService(user.NewRepository(db)), log)
	challengeHandler := NewHandler(NewService(NewRepository(db), cache.NewRedisCache(mr.Addr()), hub, log), log)

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware(flowSecret))
	api.HandleFunc("/users/progress", userHandler.Progress).Methods("GET")
	api.HandleFunc("/challenges/{id:[0-9]+}/start", challengeHandler.Start).Methods("POST")
	api.HandleFunc("/challenges/{id:[0-9]+}/submit-quiz", challengeHandler.SubmitQuiz).Methods("POST")
	api.HandleFunc("/challenges/{id:[0-9]+}/complete", challengeHandler.Complete).Methods("POST")

	return router, db
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// The whole learner journey through the real handlers: register, log in,
// start a challenge, answer the quiz, complete it, and see the XP land.
func TestChallengeCompletionFlow(t *testing.T) {
	router, db := newFlowRouter(t)

	challenge := &models.Challenge{
		Title:       "Assertive Communication",
		Description: "practice",
		Status:      models.ChallengeActive,
		Deadline:    time.Now().AddDate(0, 0, 7),
		Questions: datatypes.NewJSONType([]models.QuizQuestion{
			{ID: 1, Text: "Pick A", Options: []string{"A", "B"}, Answer: "A"},
			{ID: 2, Text: "Pick B", Options: []string{"A", "B"}, Answer: "B"},
		}),
	}
	require.NoError(t, db.Create(challenge).Error)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	base := fmt.Sprintf("/api/challenges/%d", challenge.ID)

	rec = doJSON(t, router, http.MethodPost, base+"/start", login.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Starting again is idempotent at the HTTP level too.
	rec = doJSON(t, router, http.MethodPost, base+"/start", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, base+"/submit-quiz", login.AccessToken, map[string]interface{}{
		"answers": map[string]int{"1": 0, "2": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var submit struct {
		Result QuizOutcome `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submit))
	assert.Equal(t, 2, submit.Result.Score)
	assert.Equal(t, 2, submit.Result.Total)
	assert.False(t, submit.Result.Completed)

	rec = doJSON(t, router, http.MethodPost, base+"/complete", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/users/progress", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var progress struct {
		Progress user.Progress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, 1, progress.Progress.Level)
	assert.Equal(t, models.CompletionXP, progress.Progress.XP)
	assert.Equal(t, 1, progress.Progress.CompletedChallenges)
	assert.Equal(t, 1, progress.Progress.Streak)
	require.Len(t, progress.Progress.History, 1)
	assert.Equal(t, challenge.ID, progress.Progress.History[0].ChallengeID)
	assert.Equal(t, 2, progress.Progress.History[0].Score)
}
