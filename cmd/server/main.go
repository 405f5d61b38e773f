package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"skillquest-server/internal/assessment"
	"skillquest-server/internal/auth"
	"skillquest-server/internal/challenge"
	"skillquest-server/internal/class"
	"skillquest-server/internal/instructor"
	"skillquest-server/internal/likert"
	"skillquest-server/internal/seed"
	"skillquest-server/internal/user"
	"skillquest-server/pkg/cache"
	"skillquest-server/pkg/database"
	"skillquest-server/pkg/logger"
	"skillquest-server/pkg/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found")
	}

	zlog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "err", err)
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatalw("failed to migrate database", "err", err)
	}

	if os.Getenv("SEED") == "true" {
		if err := seed.Run(db); err != nil {
			zlog.Fatalw("failed to seed database", "err", err)
		}
		zlog.Infow("seed data loaded")
	}

	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	hub := websocket.NewHub(zlog)
	go hub.Run()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		zlog.Fatalw("JWT_SECRET is required")
	}

	authService := auth.NewService(auth.NewRepository(db), jwtSecret)
	userService := user.NewService(user.NewRepository(db))
	assessmentService := assessment.NewService(assessment.NewRepository(db))
	likertService := likert.NewService(likert.NewRepository(db))
	challengeService := challenge.NewService(challenge.NewRepository(db), redisCache, hub, zlog)
	classService := class.NewService(class.NewRepository(db), redisCache, hub, zlog)
	instructorService := instructor.NewService(instructor.NewRepository(db), redisCache, zlog)

	authHandler := auth.NewHandler(authService, zlog)
	userHandler := user.NewHandler(userService, zlog)
	assessmentHandler := assessment.NewHandler(assessmentService, zlog)
	likertHandler := likert.NewHandler(likertService, zlog)
	challengeHandler := challenge.NewHandler(challengeService, zlog)
	classHandler := class.NewHandler(classService, zlog)
	instructorHandler := instructor.NewHandler(instructorService, hub, jwtSecret, zlog)

	router := mux.NewRouter()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no token required.
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")

	// Everything else requires a bearer access token.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware(jwtSecret))

	api.HandleFunc("/users/me", userHandler.Me).Methods("GET", "OPTIONS")
	api.HandleFunc("/users/profile", userHandler.UpdateProfile).Methods("PUT", "OPTIONS")
	api.HandleFunc("/users/progress", userHandler.Progress).Methods("GET", "OPTIONS")
	api.HandleFunc("/users/challenge-history", userHandler.ChallengeHistory).Methods("GET", "OPTIONS")
	api.HandleFunc("/users/initial-test-status", userHandler.InitialTestStatus).Methods("GET", "OPTIONS")
	api.HandleFunc("/users/complete-initial-test", userHandler.CompleteInitialTest).Methods("POST", "OPTIONS")

	api.HandleFunc("/assessments/questions", assessmentHandler.Questions).Methods("GET", "OPTIONS")
	api.HandleFunc("/assessments/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	api.HandleFunc("/assessments/history", assessmentHandler.History).Methods("GET", "OPTIONS")

	api.HandleFunc("/likert-test/questions", likertHandler.Questions).Methods("GET", "OPTIONS")
	api.HandleFunc("/likert-test/submit", likertHandler.Submit).Methods("POST", "OPTIONS")
	api.HandleFunc("/likert-test/result", likertHandler.Result).Methods("GET", "OPTIONS")

	api.HandleFunc("/challenges", challengeHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/challenges/featured", challengeHandler.Featured).Methods("GET", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}", challengeHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}/questions", challengeHandler.Questions).Methods("GET", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}/start", challengeHandler.Start).Methods("POST", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}/submit-quiz", challengeHandler.SubmitQuiz).Methods("POST", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}/quiz-result", challengeHandler.QuizResult).Methods("GET", "OPTIONS")
	api.HandleFunc("/challenges/{id:[0-9]+}/complete", challengeHandler.Complete).Methods("POST", "OPTIONS")

	api.HandleFunc("/classes/join", classHandler.Join).Methods("POST", "OPTIONS")
	api.HandleFunc("/classes/leave", classHandler.Leave).Methods("POST", "OPTIONS")
	api.HandleFunc("/classes/mine", classHandler.Mine).Methods("GET", "OPTIONS")

	api.HandleFunc("/instructor/dashboard", instructorHandler.Dashboard).Methods("GET", "OPTIONS")
	api.HandleFunc("/instructor/classes", instructorHandler.Classes).Methods("GET", "OPTIONS")
	api.HandleFunc("/instructor/classes", instructorHandler.CreateClass).Methods("POST")
	api.HandleFunc("/instructor/classes/{id:[0-9]+}", instructorHandler.UpdateClass).Methods("PUT", "OPTIONS")
	api.HandleFunc("/instructor/classes/{id:[0-9]+}", instructorHandler.DeleteClass).Methods("DELETE")
	api.HandleFunc("/instructor/classes/{id:[0-9]+}/students", instructorHandler.ClassStudents).Methods("GET", "OPTIONS")
	api.HandleFunc("/instructor/classes/{id:[0-9]+}/report", instructorHandler.ClassReport).Methods("GET", "OPTIONS")
	api.HandleFunc("/instructor/challenges", instructorHandler.CreateChallenge).Methods("POST", "OPTIONS")
	api.HandleFunc("/instructor/challenges/{id:[0-9]+}", instructorHandler.UpdateChallenge).Methods("PUT", "OPTIONS")
	api.HandleFunc("/instructor/challenges/{id:[0-9]+}", instructorHandler.DeleteChallenge).Methods("DELETE")

	// Live class activity feed; authenticates via query token.
	router.HandleFunc("/ws/classes/{id:[0-9]+}", instructorHandler.ClassFeed)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		zlog.Infow("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("server failed", "err", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Errorw("forced shutdown", "err", err)
	}
	zlog.Infow("server shut down gracefully")
}
