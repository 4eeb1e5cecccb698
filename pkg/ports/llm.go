package ports

import (
	"context"

	"github.com/parley-labs/parley/pkg/domain"
)

// DialogueModel is the remote language-model collaborator. Each call is a
// blocking network request; retry and backoff, if any, belong to the
// implementation. Failures are classified as domain.ErrRemoteUnavailable or
// domain.ErrMalformedResponse.
type DialogueModel interface {
	// GenerateRemediation synthesizes a remedial multiple-choice exercise
	// tailored to the user's failed answer.
	GenerateRemediation(ctx context.Context, topic, userAnswer, failureReason string, failureCount int) (*domain.Remediation, error)

	// GenerateMiniLesson produces a longer-form lesson on the module topic.
	GenerateMiniLesson(ctx context.Context, topic string) (*domain.MiniLesson, error)

	// EvaluateFreeForm scores a free-form answer against the scenario and
	// gold response using the five-dimension rubric.
	EvaluateFreeForm(ctx context.Context, userAnswer, scenario, goldResponse string, stepID int) (*domain.EvaluationResult, error)
}

// Evaluator produces a verdict for a raw answer against a catalog step.
type Evaluator interface {
	Evaluate(ctx context.Context, stepID int, answer string) (*domain.EvaluationResult, error)
}
