package walkthrough

import (
	"errors"
	"fmt"
	"time"

	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/assessment"
	"github.com/okian/careermap/internal/domain/model"
)

// Config holds configuration for a walkthrough run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Sessions    int           // Number of sessions to walk
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	WaitTimeout time.Duration // How long to wait for background loads
	Timeline    string        // Timeline to switch to after the first roadmap
	Seed        uint64        // Seed for generated answers
	OutputFile  string        // Output file for session transcripts
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid walkthrough config")

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base URL must not be empty", ErrInvalidConfig)
	case c.Sessions < 1:
		return fmt.Errorf("%w: sessions must be positive, got %d", ErrInvalidConfig, c.Sessions)
	case c.WaitTimeout <= 0:
		return fmt.Errorf("%w: wait timeout must be positive", ErrInvalidConfig)
	}
	if c.Timeline != "" {
		if _, err := model.ParseTimeline(c.Timeline); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Questionnaire is the response of GET /assessment/questions.
type Questionnaire struct {
	TotalSteps     int                   `json:"totalSteps"`
	Questions      []assessment.Question `json:"questions"`
	Interests      []assessment.Tag      `json:"interests"`
	LifeSkills     []assessment.Tag      `json:"lifeSkills"`
	LearningStyles []model.LearningStyle `json:"learningStyles"`
	Timelines      []model.Timeline      `json:"timelines"`
}

// Answers are the wizard inputs generated for one session, one form per step.
type Answers struct {
	Steps    []assessment.Form `json:"steps"`
	NewSkill string            `json:"newSkill"`
}

// Transcript records what one session went through.
type Transcript struct {
	SessionID     string                  `json:"sessionId"`
	Answers       Answers                 `json:"answers"`
	SubmitRetries int                     `json:"submitRetries"`
	Cluster       string                  `json:"cluster,omitempty"`
	Timeline      string                  `json:"timeline,omitempty"`
	Phases        int                     `json:"phases"`
	Badges        int                     `json:"badges"`
	Mentors       int                     `json:"mentors"`
	Explained     string                  `json:"explained,omitempty"`
	Simulation    *model.ImpactSimulation `json:"simulation,omitempty"`
	Notifications int                     `json:"notifications"`
	Issues        []string                `json:"issues,omitempty"`
	Error         string                  `json:"error,omitempty"`
	Final         *service.SessionView    `json:"final,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	SessionsStarted   int
	SessionsCompleted int
	SessionsFailed    int
	SubmitRetries     int
	Roadmaps          int
	Badges            int
	Explanations      int
	Simulations       int
	Notifications     int
	Issues            int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
