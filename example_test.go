package parley_test

import (
	"context"
	"fmt"
	"log"

	"github.com/parley-labs/parley"
	"github.com/parley-labs/parley/pkg/domain"
)

// scriptedModel is a stand-in dialogue model for examples and offline use. A
// real deployment uses internal/llm against an OpenAI-compatible endpoint.
type scriptedModel struct{}

func (scriptedModel) GenerateRemediation(ctx context.Context, topic, userAnswer, failureReason string, failureCount int) (*domain.Remediation, error) {
	return &domain.Remediation{
		Explanation:   "The answer dismissed the concern instead of validating it.",
		Scenario:      "A teammate calls the new check-ins surveillance. What do you say?",
		Options:       []string{"They're mandatory.", "I hear you; the format is yours to choose.", "Everyone is fine with them.", "Let's move on."},
		CorrectAnswer: "B",
		Hint:          "Validate first.",
	}, nil
}

func (scriptedModel) GenerateMiniLesson(ctx context.Context, topic string) (*domain.MiniLesson, error) {
	return &domain.MiniLesson{
		Title:         topic,
		CorePrinciple: "Own the what and when; hand over the how.",
		Examples: []domain.LessonExample{{
			Situation:     "A report pushes back on status updates.",
			WrongApproach: "Insist harder.",
			RightApproach: "Name your accountability, offer format choice.",
			WhyItWorks:    "Separates oversight of outcomes from control of methods.",
		}},
		CommonMistakes: []string{"Arguing about trust"},
		KeyTakeaway:    "State the constraint, then return the choice.",
	}, nil
}

func (scriptedModel) EvaluateFreeForm(ctx context.Context, userAnswer, scenario, goldResponse string, stepID int) (*domain.EvaluationResult, error) {
	return &domain.EvaluationResult{
		Passed:    true,
		Score:     8.5,
		Feedback:  "Validates the concern and locks a concrete next step.",
		Threshold: 7.0,
	}, nil
}

// Example demonstrates a full run of the built-in module: three recognition
// steps answered by letter, two free-form steps scored by the dialogue model.
func Example() {
	trainer, err := parley.New(parley.WithDialogueModel(scriptedModel{}))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := trainer.Engine.Start(ctx, "demo"); err != nil {
		log.Fatal(err)
	}

	freeForm := "I hear that this feels controlling. I'm accountable for the outcome and timing, so let's agree on one clear checkpoint and you keep ownership of the approach."
	for _, answer := range []string{"C", "C", "C", freeForm, freeForm} {
		result, err := trainer.Engine.SubmitAnswer(ctx, "demo", answer, false)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Outcome)
	}

	// Output:
	// passed
	// passed
	// passed
	// passed
	// module_completed
}
