package evaluate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/parley/pkg/catalog"
	"github.com/parley-labs/parley/pkg/domain"
	"github.com/parley-labs/parley/pkg/evaluate"
)

// fakeModel records EvaluateFreeForm calls and replays a canned result.
type fakeModel struct {
	result    *domain.EvaluationResult
	err       error
	calls     int
	lastText  string
	lastGold  string
	lastStep  int
	lastScene string
}

func (f *fakeModel) GenerateRemediation(ctx context.Context, topic, userAnswer, failureReason string, failureCount int) (*domain.Remediation, error) {
	panic("unexpected GenerateRemediation call")
}

func (f *fakeModel) GenerateMiniLesson(ctx context.Context, topic string) (*domain.MiniLesson, error) {
	panic("unexpected GenerateMiniLesson call")
}

func (f *fakeModel) EvaluateFreeForm(ctx context.Context, userAnswer, scenario, goldResponse string, stepID int) (*domain.EvaluationResult, error) {
	f.calls++
	f.lastText = userAnswer
	f.lastScene = scenario
	f.lastGold = goldResponse
	f.lastStep = stepID
	return f.result, f.err
}

func TestEvaluate_Recognition(t *testing.T) {
	eval := evaluate.New(catalog.Module1(), &fakeModel{})

	t.Run("correct answer", func(t *testing.T) {
		res, err := eval.Evaluate(context.Background(), 1, "C")
		require.NoError(t, err)
		assert.True(t, res.Passed)
		assert.Equal(t, 10.0, res.Score)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		res, err := eval.Evaluate(context.Background(), 1, "  c  ")
		require.NoError(t, err)
		assert.True(t, res.Passed)
	})

	t.Run("wrong option names the selected text", func(t *testing.T) {
		res, err := eval.Evaluate(context.Background(), 1, "A")
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Equal(t, 0.0, res.Score)
		assert.Contains(t, res.Feedback, "I trust you. I'll stop asking.")
	})

	t.Run("answer outside the option set", func(t *testing.T) {
		res, err := eval.Evaluate(context.Background(), 1, "banana")
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Feedback, "select one of the provided options")
	})
}

func TestEvaluate_FreeForm(t *testing.T) {
	longAnswer := "I hear the frustration. I'm accountable for the outcome, so let's agree on a single weekly checkpoint."

	t.Run("delegates to the dialogue model", func(t *testing.T) {
		model := &fakeModel{result: &domain.EvaluationResult{
			Passed:    true,
			Score:     8.5,
			Feedback:  "Strong response.",
			Threshold: 7.0,
		}}
		eval := evaluate.New(catalog.Module1(), model)

		res, err := eval.Evaluate(context.Background(), 5, longAnswer)
		require.NoError(t, err)
		assert.True(t, res.Passed)
		assert.Equal(t, 8.5, res.Score)

		assert.Equal(t, 1, model.calls)
		assert.Equal(t, longAnswer, model.lastText)
		assert.Equal(t, 5, model.lastStep)
		assert.Equal(t, catalog.Module1().Step(5).GoldResponse, model.lastGold)
		assert.Equal(t, catalog.Module1().Step(5).Scenario, model.lastScene)
	})

	t.Run("decoy option fails without a model call", func(t *testing.T) {
		model := &fakeModel{}
		eval := evaluate.New(catalog.Module1(), model)

		res, err := eval.Evaluate(context.Background(), 4, "b")
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Equal(t, 0.0, res.Score)
		assert.Contains(t, res.Feedback, "none of them are effective")
		assert.Equal(t, 0, model.calls)
	})

	t.Run("too short fails without a model call", func(t *testing.T) {
		model := &fakeModel{}
		eval := evaluate.New(catalog.Module1(), model)

		res, err := eval.Evaluate(context.Background(), 5, "  ok.  ")
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Feedback, "too short")
		assert.Equal(t, 0, model.calls)
	})

	t.Run("model error propagates", func(t *testing.T) {
		model := &fakeModel{err: domain.ErrRemoteUnavailable}
		eval := evaluate.New(catalog.Module1(), model)

		_, err := eval.Evaluate(context.Background(), 5, longAnswer)
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	})

	t.Run("threshold boundary comes from the model verdict", func(t *testing.T) {
		model := &fakeModel{result: &domain.EvaluationResult{
			Passed:    true,
			Score:     7.0,
			Threshold: 7.0,
			Rubric:    &domain.Rubric{DeEscalation: 2, Validation: 2, Clarity: 1, Autonomy: 1, NextStep: 1},
		}}
		eval := evaluate.New(catalog.Module1(), model)

		res, err := eval.Evaluate(context.Background(), 4, longAnswer)
		require.NoError(t, err)
		assert.True(t, res.Passed)
		assert.Equal(t, 7.0, res.Rubric.Total())
	})
}

func TestEvaluate_UnknownStep(t *testing.T) {
	eval := evaluate.New(catalog.Module1(), &fakeModel{})

	_, err := eval.Evaluate(context.Background(), 9, "C")
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}
