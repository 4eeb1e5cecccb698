// Package evaluate scores raw answers against catalog steps. Recognition
// steps are pure string comparison; free-form steps are guarded locally and
// then delegated to the remote dialogue model for rubric scoring.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-labs/parley/pkg/domain"
	"github.com/parley-labs/parley/pkg/ports"
)

// recognitionThreshold: exact match only, so the effective threshold is 10.
const recognitionThreshold = 10.0

// minFreeFormLength is the shortest free-form answer worth sending to the
// dialogue model.
const minFreeFormLength = 10

// Evaluator implements ports.Evaluator on top of a catalog and a dialogue
// model.
type Evaluator struct {
	catalog ports.Catalog
	model   ports.DialogueModel
}

// New creates an Evaluator.
func New(catalog ports.Catalog, model ports.DialogueModel) *Evaluator {
	return &Evaluator{catalog: catalog, model: model}
}

// Evaluate produces a verdict for the answer to the given step.
// Returns domain.ErrStepNotFound for unknown step ids.
func (e *Evaluator) Evaluate(ctx context.Context, stepID int, answer string) (*domain.EvaluationResult, error) {
	step := e.catalog.Step(stepID)
	if step == nil {
		return nil, fmt.Errorf("step %d: %w", stepID, domain.ErrStepNotFound)
	}

	switch step.Type {
	case domain.StepRecognition:
		return e.evaluateRecognition(step, answer), nil
	case domain.StepTransition, domain.StepProduction:
		return e.evaluateFreeForm(ctx, step, answer)
	default:
		return nil, fmt.Errorf("step %d: unknown step type %q", stepID, step.Type)
	}
}

func (e *Evaluator) evaluateRecognition(step *domain.Step, answer string) *domain.EvaluationResult {
	normalized := strings.ToUpper(strings.TrimSpace(answer))

	if normalized == step.CorrectAnswer {
		return &domain.EvaluationResult{
			Passed:    true,
			Score:     10.0,
			Feedback:  "Correct! This is the best response that balances accountability with autonomy.",
			Threshold: recognitionThreshold,
		}
	}

	feedback := "Incorrect answer. Please select one of the provided options (A-D)."
	if text, ok := step.Options[normalized]; ok {
		feedback = fmt.Sprintf(
			"Incorrect. You selected: '%s'. This approach doesn't effectively balance autonomy and accountability. Try again.",
			text,
		)
	}

	return &domain.EvaluationResult{
		Passed:    false,
		Score:     0.0,
		Feedback:  feedback,
		Threshold: recognitionThreshold,
	}
}

func (e *Evaluator) evaluateFreeForm(ctx context.Context, step *domain.Step, answer string) (*domain.EvaluationResult, error) {
	// Decoy options are always wrong regardless of remediation tier. Picking
	// one never reaches the remote model.
	if len(step.Options) > 0 {
		if _, isOption := step.Options[strings.ToUpper(strings.TrimSpace(answer))]; isOption {
			return &domain.EvaluationResult{
				Passed: false,
				Score:  0.0,
				Feedback: "You selected a predefined option, but none of them are effective for this situation. " +
					"Please provide a free-form response that balances autonomy and accountability.",
				Threshold: step.PassThreshold,
			}, nil
		}
	}

	if len(strings.TrimSpace(answer)) < minFreeFormLength {
		return &domain.EvaluationResult{
			Passed:    false,
			Score:     0.0,
			Feedback:  "Your response is too short. Please provide a thoughtful, complete response.",
			Threshold: step.PassThreshold,
		}, nil
	}

	if step.GoldResponse == "" {
		return nil, fmt.Errorf("step %d missing gold response for evaluation", step.ID)
	}

	return e.model.EvaluateFreeForm(ctx, answer, step.Scenario, step.GoldResponse, step.ID)
}

// Rubric describes the scoring dimensions applied to free-form answers.
func Rubric() map[string]string {
	return map[string]string{
		"De-escalation": "Reduces threat (0-2)",
		"Validation":    "Acknowledges concern (0-2)",
		"Clarity":       "States what/when/why (0-2)",
		"Autonomy":      "Preserves ownership (0-2)",
		"Next step":     "Concrete action (0-2)",
	}
}
