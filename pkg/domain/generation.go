package domain

// Remediation is a generated remedial multiple-choice exercise tailored to a
// specific failure. Options arrive as a plain list; the engine keys them by
// letter before storing them on the session.
type Remediation struct {
	Explanation   string   `json:"explanation" mapstructure:"explanation"`
	Scenario      string   `json:"remedial_scenario" mapstructure:"remedial_scenario"`
	Options       []string `json:"remedial_options" mapstructure:"remedial_options"`
	CorrectAnswer string   `json:"remedial_correct_answer" mapstructure:"remedial_correct_answer"`
	Hint          string   `json:"hint" mapstructure:"hint"`
}

// LessonExample is one worked example inside a generated mini-lesson.
type LessonExample struct {
	Situation     string `json:"situation" mapstructure:"situation"`
	WrongApproach string `json:"wrong_approach" mapstructure:"wrong_approach"`
	RightApproach string `json:"right_approach" mapstructure:"right_approach"`
	WhyItWorks    string `json:"why_it_works" mapstructure:"why_it_works"`
}

// MiniLesson is the longer-form generated content shown after repeated
// failures on the same step.
type MiniLesson struct {
	Title          string          `json:"lesson_title" mapstructure:"lesson_title"`
	CorePrinciple  string          `json:"core_principle" mapstructure:"core_principle"`
	Examples       []LessonExample `json:"examples" mapstructure:"examples"`
	CommonMistakes []string        `json:"common_mistakes" mapstructure:"common_mistakes"`
	KeyTakeaway    string          `json:"key_takeaway" mapstructure:"key_takeaway"`
}
