package domain

import "fmt"

// StepType classifies how a step is answered and scored.
type StepType string

const (
	// StepRecognition is multiple choice with exactly one correct letter.
	StepRecognition StepType = "recognition"
	// StepTransition is free-form, scored by rubric; decoy options are shown
	// but every one of them is wrong.
	StepTransition StepType = "transition"
	// StepProduction is free-form only, scored by rubric.
	StepProduction StepType = "production"
)

// DefaultPassThreshold is the rubric score required to pass a free-form step.
const DefaultPassThreshold = 7.0

// Step is one of the five fixed scenario units of the module. Immutable after
// catalog construction.
type Step struct {
	ID            int               `json:"id" yaml:"id"`
	Type          StepType          `json:"type" yaml:"type"`
	Scenario      string            `json:"scenario" yaml:"scenario"`
	Options       map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
	GoldResponse  string            `json:"gold_response,omitempty" yaml:"gold_response,omitempty"`
	AllowFreeForm bool              `json:"allow_free_form" yaml:"allow_free_form"`
	PassThreshold float64           `json:"pass_threshold" yaml:"pass_threshold"`
}

// Validate checks the structural invariants of a single step.
func (s *Step) Validate() error {
	if s.ID < 1 || s.ID > 5 {
		return fmt.Errorf("step %d: id must be within 1-5", s.ID)
	}
	switch s.Type {
	case StepRecognition:
		if len(s.Options) == 0 {
			return fmt.Errorf("step %d: recognition step missing options", s.ID)
		}
		if s.CorrectAnswer == "" {
			return fmt.Errorf("step %d: recognition step missing correct answer", s.ID)
		}
		if _, ok := s.Options[s.CorrectAnswer]; !ok {
			return fmt.Errorf("step %d: correct answer %q not in options", s.ID, s.CorrectAnswer)
		}
	case StepTransition, StepProduction:
		if s.GoldResponse == "" {
			return fmt.Errorf("step %d: missing gold response", s.ID)
		}
		if !s.AllowFreeForm {
			return fmt.Errorf("step %d: must allow free-form answers", s.ID)
		}
	default:
		return fmt.Errorf("step %d: unknown type %q", s.ID, s.Type)
	}
	if s.PassThreshold < 0 || s.PassThreshold > 10 {
		return fmt.Errorf("step %d: pass threshold %.1f out of range", s.ID, s.PassThreshold)
	}
	return nil
}

// Clone returns an independent copy of the step.
func (s *Step) Clone() *Step {
	cp := *s
	if s.Options != nil {
		cp.Options = make(map[string]string, len(s.Options))
		for k, v := range s.Options {
			cp.Options[k] = v
		}
	}
	return &cp
}

// MiniLessonCard is the static lesson shown on the module overview, distinct
// from the dynamically generated MiniLesson.
type MiniLessonCard struct {
	Principle string `json:"principle" yaml:"principle"`
	Formula   string `json:"formula" yaml:"formula"`
}
