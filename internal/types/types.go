// Package types defines the tracker domain model: the persisted user-state
// snapshot, goals and their progress entries, durable completed-action
// records, and the payloads exchanged with the account service.
package types

import "time"

// NewGoalDraft is the in-progress goal embedded in preferences while the
// user walks the goal creation flow.
type NewGoalDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
}

// LearningMetrics are derived dashboard figures carried in preferences.
type LearningMetrics struct {
	CurrentProficiency      float64 `json:"currentProficiency"`
	SkillsMasteredThisMonth int     `json:"skillsMasteredThisMonth"`
	ActiveLearningStreak    int     `json:"activeLearningStreak"`
	CompletionRate          float64 `json:"completionRate"`
}

// OnboardingGoal is a goal suggestion captured during onboarding.
type OnboardingGoal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OnboardingData captures the answers from the onboarding assessment.
type OnboardingData struct {
	Subjects         []string         `json:"subjects,omitempty"`
	ProficiencyLevel string           `json:"proficiencyLevel,omitempty"`
	LearningGoals    string           `json:"learningGoals,omitempty"`
	OnboardingGoals  []OnboardingGoal `json:"onboardingGoals,omitempty"`
}

// Preferences is the named-settings bag of the user-state snapshot.
type Preferences struct {
	Theme                  string           `json:"theme"`
	Notifications          bool             `json:"notifications"`
	EmailUpdates           bool             `json:"emailUpdates"`
	Language               string           `json:"language"`
	SelectedLearningStyle  *string          `json:"selectedLearningStyle"`
	SelectedSDGs           []string         `json:"selectedSDGs"`
	CurrentSelectedSDG     string           `json:"currentSelectedSDG"`
	HasCompletedSDGSetup   bool             `json:"hasCompletedSDGSetup"`
	HasCompletedOnboarding bool             `json:"hasCompletedOnboarding"`
	NewGoal                NewGoalDraft     `json:"newGoal"`
	LastUpdated            string           `json:"lastUpdated"`
	Name                   string           `json:"name"`
	SelectedFont           string           `json:"selectedFont"`
	DarkMode               bool             `json:"darkMode"`
	ProgressIntensity      int              `json:"progressIntensity"`
	LearningMetrics        *LearningMetrics `json:"learningMetrics,omitempty"`
	OnboardingData         *OnboardingData  `json:"onboardingData,omitempty"`
	CompletedCourses       []string         `json:"completedCourses,omitempty"`
}

// CommunityActionData records the self-assessed impact of a community action.
type CommunityActionData struct {
	ImpactOnYourself     *bool  `json:"impactOnYourself"`
	ImpactOnOthers       *bool  `json:"impactOnOthers"`
	CommunityActionNotes string `json:"communityActionNotes"`
}

// CommunitySituationData records the self-assessed impact of a community situation.
type CommunitySituationData struct {
	SituationImpactOnYourself *bool  `json:"situationImpactOnYourself"`
	SituationImpactOnOthers   *bool  `json:"situationImpactOnOthers"`
	CommunitySituationNotes   string `json:"communitySituationNotes"`
}

// Goal is a user-defined learning action with progress tracking.
type Goal struct {
	ID                     string                  `json:"id"`
	LearningStyleID        string                  `json:"learningStyleId"`
	SDGIDs                 []string                `json:"sdgIds"`
	Title                  string                  `json:"title"`
	Description            string                  `json:"description"`
	Progress               int                     `json:"progress"`
	Target                 int                     `json:"target"`
	Completed              bool                    `json:"completed"`
	Submitted              bool                    `json:"submitted,omitempty"`
	SubmittedAt            string                  `json:"submittedAt,omitempty"`
	HiddenFromDashboard    bool                    `json:"hiddenFromDashboard,omitempty"`
	CommunityActionData    *CommunityActionData    `json:"communityActionData,omitempty"`
	CommunitySituationData *CommunitySituationData `json:"communitySituationData,omitempty"`
}

// ApplyProgress adds delta to the goal's progress, clamping to [0, Target],
// and marks the goal completed when the target is reached. This is the only
// mutation path for progress so the clamp holds everywhere.
func (g *Goal) ApplyProgress(delta int) {
	g.Progress += delta
	if g.Progress < 0 {
		g.Progress = 0
	}
	if g.Progress > g.Target {
		g.Progress = g.Target
	}
	g.Completed = g.Target > 0 && g.Progress >= g.Target
}

// ProgressEntry is a dated progress note associated to a goal.
type ProgressEntry struct {
	ID     string `json:"id"`
	GoalID string `json:"goalId"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
	Value  int    `json:"value"`
}

// UserState is the root persisted snapshot.
type UserState struct {
	Preferences   Preferences     `json:"preferences"`
	Goals         []Goal          `json:"goals"`
	Progress      []ProgressEntry `json:"progress"`
	CurrentScreen int             `json:"currentScreen"`
}

// CompletedAction is a durable, denormalized record of a finished goal.
// Its lifecycle is independent of the originating goal: the goal may be
// removed without touching the record.
type CompletedAction struct {
	ID                string     `json:"id"`
	OriginalGoalID    string     `json:"originalGoalId"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	LearningStyleID   string     `json:"learningStyleId"`
	LearningStyleName string     `json:"learningStyleName"`
	SDGIDs            []string   `json:"sdgIds"`
	CompletedAt       time.Time  `json:"completedAt"`
	CompletionNotes   string     `json:"completionNotes,omitempty"`
	ImpactRating      *int       `json:"impactRating,omitempty"` // 1-5; nil means unrated
	LessonsLearned    string     `json:"lessonsLearned,omitempty"`
	NextSteps         string     `json:"nextSteps,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	IsArchived        bool       `json:"isArchived"`
	ArchivedAt        *time.Time `json:"archivedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CompletedActionUpdate carries the partial fields merged by the record
// store's Update. Nil fields are left untouched.
type CompletedActionUpdate struct {
	CompletionNotes *string
	ImpactRating    *int
	LessonsLearned  *string
	NextSteps       *string
	Tags            []string
	IsArchived      *bool
	ArchivedAt      *time.Time
}

// User is the account profile cached locally and returned by the service.
type User struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Preferences *Preferences    `json:"preferences,omitempty"`
	Goals       []Goal          `json:"goals,omitempty"`
	Progress    []ProgressEntry `json:"progress,omitempty"`
}

// Course is a library course summary.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Level       string   `json:"level,omitempty"`
	Lessons     []string `json:"lessons,omitempty"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by signup, login, and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// ProfileUpdate is the body of PUT /users/me.
type ProfileUpdate struct {
	Name        string       `json:"name,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// PreferencesUpdate is the body of PUT /users/me/preferences.
type PreferencesUpdate struct {
	Preferences Preferences `json:"preferences"`
}

// GoalsUpdate is the body of PUT /users/me/goals.
type GoalsUpdate struct {
	Goals []Goal `json:"goals"`
}
