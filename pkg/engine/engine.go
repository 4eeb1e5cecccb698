// Package engine implements the training state machine: step progression,
// two-tier remediation, failure escalation, and completion.
//
// Sessions move between three observable modes: answering a main step,
// answering a generated remedial question, and completed. Failures on a main
// step escalate by consecutive count: the first failure generates a remedial
// exercise, the second and later additionally generate a mini-lesson.
// Passing the remedial question restores the interrupted step.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-labs/parley/internal/logging"
	"github.com/parley-labs/parley/pkg/domain"
	"github.com/parley-labs/parley/pkg/ports"
	"github.com/parley-labs/parley/pkg/session"
)

const lastStep = 5

// Engine owns the transition logic between steps, remediation tiers, and
// completion. Every mutating operation runs under the per-user lock, so two
// near-simultaneous submissions for one user serialize even across the
// remote dialogue model call.
//
// State mutation is all-or-nothing per submission: the engine mutates a deep
// copy of the session and only saves it once every remote call has
// succeeded. A failed evaluation or generation leaves the stored session
// untouched.
type Engine struct {
	store     ports.SessionStore
	locks     *session.Manager
	catalog   ports.Catalog
	evaluator ports.Evaluator
	model     ports.DialogueModel
	logger    *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a training engine with explicit dependencies. There is no
// ambient global state; callers construct everything once at startup.
func New(store ports.SessionStore, catalog ports.Catalog, evaluator ports.Evaluator, model ports.DialogueModel, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		locks:     session.NewManager(),
		catalog:   catalog,
		evaluator: evaluator,
		model:     model,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins the module for a user, unconditionally discarding any prior
// session. There is no confirmation; starting over always discards history.
func (e *Engine) Start(ctx context.Context, userID string) (*domain.Session, error) {
	var sess *domain.Session
	err := e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		sess = e.store.Create(userID)
		e.logger.Info("module started", "user_id", userID)
		return nil
	})
	return sess, err
}

// Reset is an alias for Start: delete-and-recreate semantics.
func (e *Engine) Reset(ctx context.Context, userID string) (*domain.Session, error) {
	return e.Start(ctx, userID)
}

// Session returns the full session state for a user.
func (e *Engine) Session(userID string) (*domain.Session, error) {
	return e.store.Get(userID)
}

// CurrentState projects the session into a step, remediation, or completed
// view. It never mutates state beyond the store's lazy expiry eviction.
func (e *Engine) CurrentState(userID string) (*StateView, error) {
	sess, err := e.store.Get(userID)
	if err != nil {
		return nil, err
	}

	if sess.InRemediation {
		return &StateView{
			Kind:          ViewRemediation,
			Content:       sess.RemediationContent,
			Question:      sess.RemediationQuestion,
			Options:       sess.RemediationOptions,
			CorrectAnswer: sess.RemediationCorrect,
			FailureCount:  sess.FailureCount,
			OriginalStep:  sess.OriginalStep,
		}, nil
	}

	if sess.Completed {
		return &StateView{
			Kind:        ViewCompleted,
			History:     sess.History,
			CompletedAt: sess.CompletedAt,
		}, nil
	}

	step := e.catalog.Step(sess.CurrentStep)
	if step == nil {
		return nil, fmt.Errorf("step %d: %w", sess.CurrentStep, domain.ErrStepNotFound)
	}
	return &StateView{
		Kind:         ViewStep,
		Step:         step,
		FailureCount: sess.FailureCount,
	}, nil
}

// SubmitAnswer evaluates an answer against the session's current position,
// either the main step or, when isRemediation is set, the active remedial
// question.
func (e *Engine) SubmitAnswer(ctx context.Context, userID, answer string, isRemediation bool) (*SubmitResult, error) {
	var result *SubmitResult
	err := e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		sess, err := e.store.Get(userID)
		if err != nil {
			return err
		}
		if sess.Completed {
			return domain.ErrModuleCompleted
		}

		if isRemediation {
			result, err = e.handleRemediationAnswer(ctx, sess, answer)
		} else {
			result, err = e.handleStepAnswer(ctx, sess, answer)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Advance moves the user to the next step without evaluation, zeroing the
// failure count. Administrative override for manual navigation; no-op past
// the last step or once completed.
func (e *Engine) Advance(ctx context.Context, userID string) (*domain.Step, error) {
	var step *domain.Step
	err := e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		sess, err := e.store.Get(userID)
		if err != nil {
			return err
		}
		if sess.Completed || sess.CurrentStep >= lastStep {
			return nil
		}

		sess.CurrentStep++
		sess.FailureCount = 0
		if err := e.store.Save(userID, sess); err != nil {
			return err
		}
		step = e.catalog.Step(sess.CurrentStep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

func (e *Engine) handleStepAnswer(ctx context.Context, sess *domain.Session, answer string) (*SubmitResult, error) {
	stepID := sess.CurrentStep
	step := e.catalog.Step(stepID)
	if step == nil {
		return nil, fmt.Errorf("step %d: %w", stepID, domain.ErrStepNotFound)
	}

	evaluation, err := e.evaluator.Evaluate(ctx, stepID, answer)
	if err != nil {
		return nil, err
	}

	sess.AddAnswer(stepID, answer, evaluation.Passed, &evaluation.Score)

	if evaluation.Passed {
		return e.handlePass(sess, step, evaluation)
	}
	return e.handleFailure(ctx, sess, evaluation, answer)
}

func (e *Engine) handlePass(sess *domain.Session, step *domain.Step, evaluation *domain.EvaluationResult) (*SubmitResult, error) {
	sess.FailureCount = 0

	if sess.CurrentStep >= lastStep {
		sess.MarkCompleted()
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		e.logger.Info("module completed", "user_id", sess.UserID, "answers", len(sess.History))
		return &SubmitResult{
			Outcome:    OutcomeModuleCompleted,
			Evaluation: evaluation,
			Message:    "Congratulations! You've completed Module 1: Autonomy vs Accountability.",
			History:    sess.History,
		}, nil
	}

	sess.CurrentStep++
	if err := e.store.Save(sess.UserID, sess); err != nil {
		return nil, err
	}
	e.logger.Debug("step passed", "user_id", sess.UserID, "step", step.ID, "score", evaluation.Score)

	result := &SubmitResult{
		Outcome:    OutcomePassed,
		Evaluation: evaluation,
		NextStep:   e.catalog.Step(sess.CurrentStep),
	}
	// The UI shows the model answer when leaving a free-form step.
	if step.GoldResponse != "" {
		result.GoldResponse = step.GoldResponse
	}
	return result, nil
}

func (e *Engine) handleFailure(ctx context.Context, sess *domain.Session, evaluation *domain.EvaluationResult, answer string) (*SubmitResult, error) {
	sess.FailureCount++

	switch {
	case sess.FailureCount == 1:
		remediation, err := e.model.GenerateRemediation(ctx, e.catalog.Topic(), answer, evaluation.Feedback, sess.FailureCount)
		if err != nil {
			return nil, err
		}

		sess.EnterRemediation(
			remediation.Explanation,
			remediation.Scenario,
			letterOptions(remediation.Options),
			remediation.CorrectAnswer,
		)
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		e.logger.Debug("entering remediation", "user_id", sess.UserID, "step", *sess.OriginalStep)

		return &SubmitResult{
			Outcome:    OutcomeFailedFirstAttempt,
			Evaluation: evaluation,
			Remediation: &RemediationView{
				Explanation: remediation.Explanation,
				Scenario:    remediation.Scenario,
				Options:     remediation.Options,
				Hint:        remediation.Hint,
			},
		}, nil

	case sess.FailureCount >= 2:
		lesson, err := e.model.GenerateMiniLesson(ctx, e.catalog.Topic())
		if err != nil {
			return nil, err
		}
		remediation, err := e.model.GenerateRemediation(ctx, e.catalog.Topic(), answer, evaluation.Feedback, sess.FailureCount)
		if err != nil {
			return nil, err
		}

		// Content is refreshed in place. The in-remediation flag is already
		// true when tier 1 preceded this; escalation changes content
		// richness, not state.
		sess.RemediationContent = FormatMiniLesson(lesson)
		sess.RemediationQuestion = remediation.Scenario
		sess.RemediationOptions = letterOptions(remediation.Options)
		sess.RemediationCorrect = remediation.CorrectAnswer
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		e.logger.Debug("remediation escalated", "user_id", sess.UserID, "failures", sess.FailureCount)

		return &SubmitResult{
			Outcome:    OutcomeFailedSecondAttempt,
			Evaluation: evaluation,
			MiniLesson: lesson,
			Remediation: &RemediationView{
				Explanation: remediation.Explanation,
				Scenario:    remediation.Scenario,
				Options:     remediation.Options,
				Hint:        remediation.Hint,
			},
		}, nil

	default:
		// The two branches above partition every positive count. Reaching
		// here means a future change broke that partition.
		e.logger.Error("unreachable failure count branch", "user_id", sess.UserID, "failures", sess.FailureCount)
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		return &SubmitResult{Outcome: OutcomeFailed, Evaluation: evaluation}, nil
	}
}

func (e *Engine) handleRemediationAnswer(ctx context.Context, sess *domain.Session, answer string) (*SubmitResult, error) {
	if !sess.InRemediation {
		return nil, domain.ErrNotInRemediation
	}

	normalized := strings.ToUpper(strings.TrimSpace(answer))
	if normalized != "A" && normalized != "B" && normalized != "C" && normalized != "D" {
		// Advisory only: no state change, no failure-count increment.
		return &SubmitResult{
			Outcome: OutcomeInvalidAnswer,
			Message: "Please select one of the options (A, B, C, or D).",
		}, nil
	}

	recordStep := sess.CurrentStep
	if sess.OriginalStep != nil {
		recordStep = *sess.OriginalStep
	}

	if normalized == sess.RemediationCorrect {
		sess.AddAnswer(recordStep, answer, true, nil)
		sess.ExitRemediation()
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		e.logger.Debug("remediation passed", "user_id", sess.UserID, "step", sess.CurrentStep)

		return &SubmitResult{
			Outcome:  OutcomeRemediationPassed,
			Message:  "Good! You've understood the concept. Now try the original question again.",
			NextStep: e.catalog.Step(sess.CurrentStep),
		}, nil
	}

	sess.FailureCount++
	sess.AddAnswer(recordStep, answer, false, nil)

	if sess.FailureCount > 2 {
		lesson, err := e.model.GenerateMiniLesson(ctx, e.catalog.Topic())
		if err != nil {
			return nil, err
		}

		// Only the explanatory content changes; the question and options
		// stay so the user can still answer the same exercise.
		sess.RemediationContent = FormatMiniLesson(lesson)
		if err := e.store.Save(sess.UserID, sess); err != nil {
			return nil, err
		}
		e.logger.Debug("remediation mini-lesson shown", "user_id", sess.UserID, "failures", sess.FailureCount)

		return &SubmitResult{
			Outcome:       OutcomeRemediationFailedMultiple,
			Message:       "Let's review the core concepts.",
			MiniLesson:    lesson,
			LessonContent: sess.RemediationContent,
		}, nil
	}

	if err := e.store.Save(sess.UserID, sess); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Outcome: OutcomeRemediationFailed,
		Message: "Not quite. The option you selected doesn't best demonstrate the principle of " +
			"balancing autonomy and accountability. Review the explanation above and try again.",
		SelectedOption: sess.RemediationOptions[normalized],
	}, nil
}
