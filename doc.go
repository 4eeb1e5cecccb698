/*
Package parley is a guided trainer for difficult workplace conversations.

Module 1 ("Autonomy vs Accountability") walks a user through five fixed
conversational scenarios. Multiple-choice answers are scored locally; free-form
answers are scored by a remote dialogue model against a five-dimension rubric.
Failures branch into generated remediation: a remedial exercise on the first
failure, a full mini-lesson on repeated failure.

# Usage

Construct a Trainer and drive it through its engine:

	trainer, err := parley.New(parley.WithDialogueModel(model))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	trainer.Engine.Start(ctx, "user-123")
	result, err := trainer.Engine.SubmitAnswer(ctx, "user-123", "C", false)

The cmd/parley binary serves the same engine over a JSON API ("parley serve")
or plays it in the terminal ("parley run").
*/
package parley
