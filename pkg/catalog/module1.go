package catalog

import "github.com/parley-labs/parley/pkg/domain"

// Module1 returns the built-in catalog for Module 1: Autonomy vs
// Accountability. The content never fails validation; a panic here means the
// built-in content itself was edited into an invalid shape.
func Module1() *Catalog {
	c, err := New("Autonomy vs Accountability", module1Steps(), domain.MiniLessonCard{
		Principle: "Autonomy lives in the *how*.\nAccountability lives in the *what and when*.",
		Formula:   "1. Validate\n2. State constraint\n3. Offer choice\n4. Lock next step",
	})
	if err != nil {
		panic("built-in module 1 content invalid: " + err.Error())
	}
	return c
}

func module1Steps() []*domain.Step {
	return []*domain.Step{
		{
			ID:       1,
			Type:     domain.StepRecognition,
			Scenario: "Alex says:\n\"Why do you keep checking on this? I've got it under control.\"",
			Options: map[string]string{
				"A": "I trust you. I'll stop asking.",
				"B": "Because last time it slipped.",
				"C": "I'm not doubting you. I need visibility to answer stakeholders. A short weekly update would be enough.",
				"D": "This is just how we work.",
			},
			CorrectAnswer: "C",
			PassThreshold: domain.DefaultPassThreshold,
		},
		{
			ID:       2,
			Type:     domain.StepRecognition,
			Scenario: "Alex says:\n\"It feels like you don't trust me.\"",
			Options: map[string]string{
				"A": "That's not true. Don't take it personally.",
				"B": "Trust isn't the issue. Delivery is.",
				"C": "I trust your expertise. I still need a predictable way to report progress. How would you prefer we do that?",
				"D": "Let's stay professional.",
			},
			CorrectAnswer: "C",
			PassThreshold: domain.DefaultPassThreshold,
		},
		{
			ID:       3,
			Type:     domain.StepRecognition,
			Scenario: "Alex says:\n\"You're changing requirements again. That's why things slow down.\"",
			Options: map[string]string{
				"A": "Priorities change. Deal with it.",
				"B": "You're overreacting.",
				"C": "What changed is the deadline, not the scope. I should've been clearer. Given the new date, what adjustment makes sense to you?",
				"D": "Just do your best.",
			},
			CorrectAnswer: "C",
			PassThreshold: domain.DefaultPassThreshold,
		},
		{
			ID:       4,
			Type:     domain.StepTransition,
			Scenario: "Alex says:\n\"If you don't trust me, just say it.\"",
			// Decoy options: every one of them is wrong, the step expects a
			// free-form answer.
			Options: map[string]string{
				"A": "I do trust you, relax.",
				"B": "This isn't about trust.",
				"C": "You're being defensive.",
				"D": "Let's keep emotions out of this.",
			},
			GoldResponse: "I do trust how you work. What I'm accountable for is the outcome and timing. " +
				"Let's agree on one clear checkpoint so I can cover that, and you keep ownership.",
			AllowFreeForm: true,
			PassThreshold: domain.DefaultPassThreshold,
		},
		{
			ID:   5,
			Type: domain.StepProduction,
			Scenario: "Context: Deadline missed, escalation happened.\n\n" +
				"Alex says:\n\"This keeps happening because I'm being micromanaged instead of trusted.\"",
			GoldResponse: "I hear that this feels controlling. I'm accountable for delivery and escalation, " +
				"not for how you work day to day. We missed the date, so let's reset expectations " +
				"and agree on one checkpoint going forward.",
			AllowFreeForm: true,
			PassThreshold: domain.DefaultPassThreshold,
		},
	}
}
