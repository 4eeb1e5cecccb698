package domain

// Rubric is the five-dimension scoring breakdown used for free-form answers.
// Each dimension is scored 0-2 by the dialogue model.
type Rubric struct {
	DeEscalation float64 `json:"de_escalation" mapstructure:"de_escalation"`
	Validation   float64 `json:"validation" mapstructure:"validation"`
	Clarity      float64 `json:"clarity" mapstructure:"clarity"`
	Autonomy     float64 `json:"autonomy" mapstructure:"autonomy"`
	NextStep     float64 `json:"next_step" mapstructure:"next_step"`
}

// Total sums the dimensions into the overall 0-10 score.
func (r Rubric) Total() float64 {
	return r.DeEscalation + r.Validation + r.Clarity + r.Autonomy + r.NextStep
}

// EvaluationResult is the verdict for one submitted answer.
// Passed is score >= threshold unless the evaluator set it explicitly
// (recognition results always set both consistently).
type EvaluationResult struct {
	Passed    bool    `json:"passed"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
	Rubric    *Rubric `json:"rubric,omitempty"`
	Threshold float64 `json:"threshold"`
}
