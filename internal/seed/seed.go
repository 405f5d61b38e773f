// Package seed loads the self-test questions and a starter set of challenges
// into an empty database. Every step is a no-op when data already exists.
package seed

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"skillquest-server/internal/models"
)

func Run(db *gorm.DB) error {
	if err := questions(db); err != nil {
		return err
	}
	return challenges(db)
}

func questions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seedQuestions := []models.Question{
		{Text: "I feel comfortable expressing my opinions in a group", Category: "Communication", Order: 1},
		{Text: "I can easily tell how other people are feeling", Category: "Empathy", Order: 2},
		{Text: "I stay calm under pressure or in conflict", Category: "Emotional Intelligence", Order: 3},
		{Text: "I easily adapt how I communicate depending on who I am talking to", Category: "Adaptive Communication", Order: 4},
		{Text: "I can work productively even when I disagree with my teammates", Category: "Teamwork", Order: 5},
		{Text: "I find it easy to receive and process constructive feedback", Category: "Personal Growth", Order: 6},
		{Text: "I listen carefully before forming an opinion or responding", Category: "Active Listening", Order: 7},
		{Text: "I recognize and take responsibility for my mistakes", Category: "Self-Awareness", Order: 8},
		{Text: "I can mediate conflicts between people constructively", Category: "Conflict Resolution", Order: 9},
		{Text: "I stay motivated even in the face of difficult challenges", Category: "Resilience", Order: 10},
	}
	return db.Create(&seedQuestions).Error
}

func challenges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Challenge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	seedChallenges := []models.Challenge{
		{
			Title:       "Assertive Communication",
			Description: "Learn to express yourself clearly and respectfully.",
			Status:      models.ChallengeActive,
			Deadline:    now.AddDate(0, 0, 7),
			Questions: datatypes.NewJSONType([]models.QuizQuestion{
				{
					ID:      1,
					Text:    "What is the main goal of assertive communication?",
					Options: []string{"Imposing your opinion", "Expressing yourself without aggression or submission", "Avoiding conflict at all costs", "Speaking as little as possible"},
					Answer:  "Expressing yourself without aggression or submission",
				},
				{
					ID:      2,
					Text:    "Which of these is NOT a trait of assertive communication?",
					Options: []string{"Clarity", "Respect", "Manipulation", "Honesty"},
					Answer:  "Manipulation",
				},
				{
					ID:      3,
					Text:    "What distinguishes assertive from aggressive communication?",
					Options: []string{"There is no difference", "Assertiveness respects the rights of others, aggression does not", "Assertiveness is always passive", "Aggression is more effective"},
					Answer:  "Assertiveness respects the rights of others, aggression does not",
				},
			}),
			PracticalTask: "Recall a recent situation where you did not communicate assertively. Describe how you could have acted differently using the principles of assertive communication.",
		},
		{
			Title:       "Emotional Intelligence",
			Description: "Understand and manage your emotions at work and beyond.",
			Status:      models.ChallengeActive,
			Deadline:    now.AddDate(0, 0, 7),
			Questions: datatypes.NewJSONType([]models.QuizQuestion{
				{
					ID:      1,
					Text:    "What are the four core components of emotional intelligence according to Daniel Goleman?",
					Options: []string{"Self-awareness, self-management, social awareness and relationship management", "Happiness, sadness, anger and fear", "IQ, personality, motivation and luck", "Thinking, feeling, intuition and sensing"},
					Answer:  "Self-awareness, self-management, social awareness and relationship management",
				},
				{
					ID:      2,
					Text:    "Why does emotional intelligence matter in the workplace?",
					Options: []string{"It does not; only technical knowledge matters", "It helps manipulate colleagues", "It improves teamwork and leadership", "It lets you ignore interpersonal problems"},
					Answer:  "It improves teamwork and leadership",
				},
				{
					ID:      3,
					Text:    "How can we develop our emotional intelligence?",
					Options: []string{"We are born with it; it cannot be developed", "Only through therapy", "Through practice, reflection and feedback", "By ignoring our emotions"},
					Answer:  "Through practice, reflection and feedback",
				},
			}),
			PracticalTask: "Keep an emotion journal for a week. Note situations that triggered strong emotions, how you reacted, and how you could have managed them better.",
		},
		{
			Title:       "Empathy and Active Listening",
			Description: "Practice listening to understand rather than to answer.",
			Status:      models.ChallengeActive,
			Deadline:    now.AddDate(0, 0, 7),
			Questions: datatypes.NewJSONType([]models.QuizQuestion{
				{
					ID:      1,
					Text:    "What is active listening?",
					Options: []string{"Listening while doing other things", "Listening attentively, showing interest and understanding", "Agreeing with everything the person says", "Interrupting to give advice"},
					Answer:  "Listening attentively, showing interest and understanding",
				},
				{
					ID:      2,
					Text:    "Which of these is NOT an active listening technique?",
					Options: []string{"Paraphrasing what was said", "Asking clarifying questions", "Keeping eye contact", "Planning your reply while the person speaks"},
					Answer:  "Planning your reply while the person speaks",
				},
				{
					ID:      3,
					Text:    "How does empathy relate to active listening?",
					Options: []string{"They are unrelated", "Empathy makes active listening harder", "Active listening is a way of showing empathy", "Empathy is the opposite of active listening"},
					Answer:  "Active listening is a way of showing empathy",
				},
			}),
			PracticalTask: "Pick someone close to you and practice active listening in a conversation. Do not interrupt, ask open questions, and show genuine interest. Afterwards, reflect on the experience.",
		},
	}
	return db.Create(&seedChallenges).Error
}
