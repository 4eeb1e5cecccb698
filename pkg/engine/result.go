package engine

import (
	"time"

	"github.com/parley-labs/parley/pkg/domain"
)

// Outcome tags the result of one answer submission.
type Outcome string

const (
	OutcomePassed                    Outcome = "passed"
	OutcomeModuleCompleted           Outcome = "module_completed"
	OutcomeFailed                    Outcome = "failed"
	OutcomeFailedFirstAttempt        Outcome = "failed_first_attempt"
	OutcomeFailedSecondAttempt       Outcome = "failed_second_attempt"
	OutcomeRemediationPassed         Outcome = "remediation_passed"
	OutcomeRemediationFailed         Outcome = "remediation_failed"
	OutcomeRemediationFailedMultiple Outcome = "remediation_failed_multiple"
	OutcomeInvalidAnswer             Outcome = "invalid_answer"
)

// RemediationView is the remediation payload carried by failure results.
type RemediationView struct {
	Explanation string   `json:"explanation"`
	Scenario    string   `json:"scenario"`
	Options     []string `json:"options"`
	Hint        string   `json:"hint"`
}

// SubmitResult is the tagged result of SubmitAnswer. Only the fields
// relevant to the Outcome are populated.
type SubmitResult struct {
	Outcome        Outcome                  `json:"result"`
	Message        string                   `json:"message,omitempty"`
	Evaluation     *domain.EvaluationResult `json:"evaluation,omitempty"`
	NextStep       *domain.Step             `json:"next_step,omitempty"`
	GoldResponse   string                   `json:"gold_response,omitempty"`
	Remediation    *RemediationView         `json:"remediation,omitempty"`
	MiniLesson     *domain.MiniLesson       `json:"mini_lesson,omitempty"`
	LessonContent  string                   `json:"formatted_content,omitempty"`
	SelectedOption string                   `json:"selected_option,omitempty"`
	History        []domain.AnswerRecord    `json:"history,omitempty"`
}

// ViewKind tags the read-only projection returned by CurrentState.
type ViewKind string

const (
	ViewStep        ViewKind = "step"
	ViewRemediation ViewKind = "remediation"
	ViewCompleted   ViewKind = "completed"
)

// StateView is the read-only projection of a session for display.
type StateView struct {
	Kind         ViewKind              `json:"type"`
	Step         *domain.Step          `json:"step,omitempty"`
	FailureCount int                   `json:"failure_count"`
	// Remediation projection.
	Content       string            `json:"content,omitempty"`
	Question      string            `json:"question,omitempty"`
	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	OriginalStep  *int              `json:"original_step,omitempty"`
	// Completed projection.
	History     []domain.AnswerRecord `json:"history,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}
