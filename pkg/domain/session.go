package domain

import "time"

// AnswerRecord is one entry of a session's append-only answer history.
type AnswerRecord struct {
	StepID    int       `json:"step_id"`
	Answer    string    `json:"answer"`
	Correct   bool      `json:"correct"`
	Score     *float64  `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-user execution state of the module.
//
// CurrentStep stays within [0,5]; it advances by exactly +1 on a pass and only
// ever decreases when ExitRemediation restores OriginalStep. OriginalStep is
// non-nil exactly while the session has entered remediation without yet
// exiting. The remediation fields are set and cleared together.
type Session struct {
	UserID             string            `json:"user_id"`
	CurrentStep        int               `json:"current_step"`
	FailureCount       int               `json:"failure_count"`
	InRemediation      bool              `json:"in_remediation"`
	RemediationContent string            `json:"remediation_content,omitempty"`
	RemediationQuestion string           `json:"remediation_question,omitempty"`
	RemediationOptions map[string]string `json:"remediation_options,omitempty"`
	RemediationCorrect string            `json:"remediation_correct_answer,omitempty"`
	OriginalStep       *int              `json:"original_step,omitempty"`
	History            []AnswerRecord    `json:"history"`
	StartedAt          time.Time         `json:"started_at"`
	LastActivity       time.Time         `json:"last_activity"`
	Completed          bool              `json:"completed"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
}

// NewSession creates a fresh session positioned at step 1.
func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:       userID,
		CurrentStep:  1,
		History:      []AnswerRecord{},
		StartedAt:    now,
		LastActivity: now,
	}
}

// Touch refreshes the activity timestamp used for expiry.
func (s *Session) Touch() {
	s.LastActivity = time.Now().UTC()
}

// AddAnswer appends a record to the history. Score may be nil for answers
// that have no numeric score (remediation letters).
func (s *Session) AddAnswer(stepID int, answer string, correct bool, score *float64) {
	s.History = append(s.History, AnswerRecord{
		StepID:    stepID,
		Answer:    answer,
		Correct:   correct,
		Score:     score,
		Timestamp: time.Now().UTC(),
	})
	s.Touch()
}

// MarkCompleted sets the terminal completion state. Irreversible within the
// session's lifetime except via a full reset.
func (s *Session) MarkCompleted() {
	now := time.Now().UTC()
	s.Completed = true
	s.CompletedAt = &now
	s.Touch()
}

// EnterRemediation switches the session into remediation mode with the given
// generated content. OriginalStep is set only on first entry so repeated
// failures never lose the interrupted step.
func (s *Session) EnterRemediation(content, question string, options map[string]string, correct string) {
	s.InRemediation = true
	s.RemediationContent = content
	s.RemediationQuestion = question
	s.RemediationOptions = options
	s.RemediationCorrect = correct
	if s.OriginalStep == nil {
		step := s.CurrentStep
		s.OriginalStep = &step
	}
	s.Touch()
}

// ExitRemediation clears every remediation field, restores the interrupted
// step, and zeroes the failure count.
func (s *Session) ExitRemediation() {
	s.InRemediation = false
	s.RemediationContent = ""
	s.RemediationQuestion = ""
	s.RemediationOptions = nil
	s.RemediationCorrect = ""
	if s.OriginalStep != nil {
		s.CurrentStep = *s.OriginalStep
		s.OriginalStep = nil
	}
	s.FailureCount = 0
	s.Touch()
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (s *Session) Clone() *Session {
	cp := *s
	if s.RemediationOptions != nil {
		cp.RemediationOptions = make(map[string]string, len(s.RemediationOptions))
		for k, v := range s.RemediationOptions {
			cp.RemediationOptions[k] = v
		}
	}
	if s.OriginalStep != nil {
		step := *s.OriginalStep
		cp.OriginalStep = &step
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		cp.CompletedAt = &at
	}
	cp.History = make([]AnswerRecord, len(s.History))
	for i, rec := range s.History {
		cp.History[i] = rec
		if rec.Score != nil {
			score := *rec.Score
			cp.History[i].Score = &score
		}
	}
	return &cp
}
