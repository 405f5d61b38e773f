package instructor

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/class"
	"skillquest-server/internal/likert"
	"skillquest-server/internal/models"
	"skillquest-server/pkg/cache"
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	log   *zap.SugaredLogger
}

func NewService(repo *Repository, cache *cache.RedisCache, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// requireInstructor loads the caller and rejects anyone without the
// instructor role.
func (s *Service) requireInstructor(userID uint) (*models.User, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleInstructor {
		return nil, apperrors.Forbidden("instructor role required")
	}
	return user, nil
}

type Dashboard struct {
	Instructor      models.UserDTO        `json:"instructor"`
	TotalClasses    int                   `json:"total_classes"`
	TotalStudents   int                   `json:"total_students"`
	TotalChallenges int64                 `json:"total_challenges"`
	StudentsTested  int                   `json:"students_tested"`
	TestRate        float64               `json:"test_completion_rate"`
	Classes         []models.ClassSummary `json:"classes"`
}

func (s *Service) Dashboard(userID uint) (*Dashboard, error) {
	instructor, err := s.requireInstructor(userID)
	if err != nil {
		return nil, err
	}

	classes, err := s.repo.ActiveClasses(userID)
	if err != nil {
		return nil, err
	}

	totalStudents, tested := 0, 0
	summaries := make([]models.ClassSummary, 0, len(classes))
	for _, c := range classes {
		summaries = append(summaries, c.Summary())
		members, err := s.repo.Members(c.ID)
		if err != nil {
			return nil, err
		}
		totalStudents += len(members)
		for _, member := range members {
			if member.InitialTestDone {
				tested++
			}
		}
	}

	challengeCount, err := s.repo.ChallengeCount(userID)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if totalStudents > 0 {
		rate = float64(tested) / float64(totalStudents) * 100
	}

	return &Dashboard{
		Instructor:      instructor.DTO(),
		TotalClasses:    len(classes),
		TotalStudents:   totalStudents,
		TotalChallenges: challengeCount,
		StudentsTested:  tested,
		TestRate:        rate,
		Classes:         summaries,
	}, nil
}

func (s *Service) Classes(userID uint) ([]models.Class, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}
	return s.repo.Classes(userID)
}

func (s *Service) CreateClass(userID uint, name, description string) (*models.Class, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}

	newClass := &models.Class{
		Name:         name,
		Description:  description,
		InstructorID: userID,
		Active:       true,
	}

	// The unique index backstops the generate-and-check loop: on the rare
	// insert race, regenerate and try again.
	for {
		newClass.Code = class.GenerateCode(s.repo.CodeExists)
		err := s.repo.CreateClass(newClass)
		if err == nil {
			return newClass, nil
		}
		if apperrors.From(err).Code != apperrors.CodeConflict {
			return nil, err
		}
	}
}

type ClassUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (s *Service) UpdateClass(userID, classID uint, update ClassUpdate) (*models.Class, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}

	owned, err := s.repo.OwnedClass(classID, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		owned.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		owned.Description = *update.Description
	}
	if update.Active != nil {
		owned.Active = *update.Active
	}

	if err := s.repo.SaveClass(owned); err != nil {
		return nil, err
	}
	return owned, nil
}

func (s *Service) DeleteClass(userID, classID uint) error {
	if _, err := s.requireInstructor(userID); err != nil {
		return err
	}

	owned, err := s.repo.OwnedClass(classID, userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteClass(owned)
}

type StudentInfo struct {
	models.UserDTO
	LikertResult        *models.LikertTestDTO `json:"likert_result,omitempty"`
	CompletedChallenges int64                 `json:"completed_challenges"`
	PendingChallenges   int64                 `json:"pending_challenges"`
}

func (s *Service) ClassStudents(userID, classID uint) (*models.Class, []StudentInfo, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, nil, err
	}

	owned, err := s.repo.OwnedClass(classID, userID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.Members(classID)
	if err != nil {
		return nil, nil, err
	}

	students := make([]StudentInfo, 0, len(members))
	for _, member := range members {
		info := StudentInfo{UserDTO: member.DTO()}
		if test, err := s.repo.LikertByUser(member.ID); err == nil {
			dto := test.DTO()
			info.LikertResult = &dto
		}
		completed, pending, err := s.repo.ResultCounts(member.ID)
		if err != nil {
			return nil, nil, err
		}
		info.CompletedChallenges = completed
		info.PendingChallenges = pending
		students = append(students, info)
	}
	return owned, students, nil
}

type ChallengeProgress struct {
	Challenge      models.ChallengeDTO `json:"challenge"`
	Participants   int                 `json:"participants"`
	Completed      int                 `json:"completed"`
	CompletionRate float64             `json:"completion_rate"`
}

type ClassReport struct {
	Class             models.ClassSummary `json:"class"`
	TotalStudents     int                 `json:"total_students"`
	StudentsTested    int                 `json:"students_tested"`
	TestRate          float64             `json:"test_completion_rate"`
	CategoryAverages  map[string]float64  `json:"category_averages"`
	ChallengeProgress []ChallengeProgress `json:"challenge_progress"`
	Ranking           []cache.RankEntry   `json:"ranking,omitempty"`
}

// ClassReport aggregates test completion, per-category averages over the
// tests actually taken, and per-challenge completion rates.
func (s *Service) ClassReport(userID, classID uint) (*ClassReport, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}

	owned, err := s.repo.OwnedClass(classID, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.Members(classID)
	if err != nil {
		return nil, err
	}

	tested := 0
	sums := map[string]float64{
		"communication":          0,
		"empathy":                0,
		"emotional_intelligence": 0,
		"teamwork":               0,
		"leadership":             0,
	}
	testsTaken := 0
	for _, member := range members {
		if member.InitialTestDone {
			tested++
		}
		test, err := s.repo.LikertByUser(member.ID)
		if err != nil {
			continue
		}
		testsTaken++
		scores := likert.CategoryScores(models.IntMap(test.Responses))
		for category := range sums {
			sums[category] += scores[category]
		}
	}
	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		if testsTaken > 0 {
			averages[category] = sum / float64(testsTaken)
		} else {
			averages[category] = 0
		}
	}

	challenges, err := s.repo.ChallengesByClass(classID)
	if err != nil {
		return nil, err
	}
	progress := make([]ChallengeProgress, 0, len(challenges))
	for _, ch := range challenges {
		results, err := s.repo.ResultsByChallenge(ch.ID)
		if err != nil {
			return nil, err
		}
		completed := 0
		for _, res := range results {
			if res.Status == models.ResultCompleted {
				completed++
			}
		}
		rate := 0.0
		if len(results) > 0 {
			rate = float64(completed) / float64(len(results)) * 100
		}
		progress = append(progress, ChallengeProgress{
			Challenge:      ch.DTO(true),
			Participants:   len(results),
			Completed:      completed,
			CompletionRate: rate,
		})
	}

	testRate := 0.0
	if len(members) > 0 {
		testRate = float64(tested) / float64(len(members)) * 100
	}

	report := &ClassReport{
		Class:             owned.Summary(),
		TotalStudents:     len(members),
		StudentsTested:    tested,
		TestRate:          testRate,
		CategoryAverages:  averages,
		ChallengeProgress: progress,
	}
	if ranking, err := s.cache.ClassRanking(classID); err == nil {
		report.Ranking = ranking
	} else {
		s.log.Debugw("class ranking unavailable", "class_id", classID, "err", err)
	}
	return report, nil
}

type ChallengeInput struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	VideoURL      string                `json:"video_url"`
	Questions     []models.QuizQuestion `json:"questions"`
	PracticalTask string                `json:"practical_task"`
	ClassID       *uint                 `json:"class_id"`
}

func (s *Service) CreateChallenge(userID uint, input ChallengeInput) (*models.Challenge, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}

	if input.ClassID != nil {
		if _, err := s.repo.OwnedClass(*input.ClassID, userID); err != nil {
			return nil, err
		}
	}

	for _, q := range input.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	creator := userID
	challenge := &models.Challenge{
		Title:         input.Title,
		Description:   input.Description,
		VideoURL:      input.VideoURL,
		Status:        models.ChallengeActive,
		Deadline:      now.AddDate(0, 0, 7),
		PracticalTask: input.PracticalTask,
		ClassID:       input.ClassID,
		CreatedBy:     &creator,
		Questions:     datatypes.NewJSONType(input.Questions),
	}

	if err := s.repo.CreateChallenge(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

type ChallengeUpdate struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	VideoURL      *string                `json:"video_url"`
	Questions     *[]models.QuizQuestion `json:"questions"`
	PracticalTask *string                `json:"practical_task"`
	Status        *string                `json:"status"`
}

func (s *Service) UpdateChallenge(userID, challengeID uint, update ChallengeUpdate) (*models.Challenge, error) {
	if _, err := s.requireInstructor(userID); err != nil {
		return nil, err
	}

	owned, err := s.repo.OwnedChallenge(challengeID, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) != "" {
		owned.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		owned.Description = *update.Description
	}
	if update.VideoURL != nil {
		owned.VideoURL = *update.VideoURL
	}
	if update.PracticalTask != nil {
		owned.PracticalTask = *update.PracticalTask
	}
	if update.Status != nil {
		if *update.Status != models.ChallengeActive && *update.Status != models.ChallengeInactive {
			return nil, apperrors.InvalidInput("status must be active or inactive")
		}
		owned.Status = *update.Status
	}
	if update.Questions != nil {
		for _, q := range *update.Questions {
			if err := validateQuestion(q); err != nil {
				return nil, err
			}
		}
		owned.Questions = datatypes.NewJSONType(*update.Questions)
	}

	if err := s.repo.SaveChallenge(owned); err != nil {
		return nil, err
	}
	if err := s.cache.DeleteChallenge(owned.ID); err != nil {
		s.log.Debugw("challenge cache invalidation failed", "id", owned.ID, "err", err)
	}
	return owned, nil
}

func (s *Service) DeleteChallenge(userID, challengeID uint) error {
	if _, err := s.requireInstructor(userID); err != nil {
		return err
	}

	owned, err := s.repo.OwnedChallenge(challengeID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteChallenge(owned); err != nil {
		return err
	}
	if err := s.cache.DeleteChallenge(challengeID); err != nil {
		s.log.Debugw("challenge cache invalidation failed", "id", challengeID, "err", err)
	}
	return nil
}

// OwnsClass reports whether the caller is an instructor owning the class.
// Backs the websocket feed authorization.
func (s *Service) OwnsClass(userID, classID uint) error {
	if _, err := s.requireInstructor(userID); err != nil {
		return err
	}
	_, err := s.repo.OwnedClass(classID, userID)
	return err
}

func validateQuestion(q models.QuizQuestion) error {
	if len(q.Options) == 0 {
		return apperrors.InvalidInput(fmt.Sprintf("question %d has no options", q.ID))
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return apperrors.InvalidInput(fmt.Sprintf("correct answer for question %d must appear in its options", q.ID))
}
