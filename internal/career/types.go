package career

// Plan is the AI-generated set of job suggestions assigned to an account.
type Plan struct {
	// Suggestions normally holds 3 entries. The count is requested from the
	// model but not enforced.
	Suggestions []JobSuggestion `json:"suggestions"`
}

// JobSuggestion is one recommended role within a Plan.
type JobSuggestion struct {
	JobRole string `json:"jobRole"`
	Reason  string `json:"reason"`

	// MatchPercentage is the model's fit score, 0-100.
	MatchPercentage int `json:"matchPercentage"`

	// Skills normally holds 5-7 entries. Skill names are unique within a
	// suggestion and identify the skill for assessments.
	Skills []Skill `json:"skills"`

	// MarketInsight is optional; older plans and some model replies omit it.
	MarketInsight string `json:"marketInsight,omitempty"`
}

// Skill is a named competency within a job suggestion.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Completed flips to true once an assessment for this skill is passed.
	// It is never reset except by replacing the whole plan.
	Completed bool `json:"completed"`
}

// Assessment is an AI-generated quiz for one skill. It is never persisted.
type Assessment struct {
	MCQs            []MCQ            `json:"mcqs"`
	TheoryQuestions []TheoryQuestion `json:"theoryQuestions"`
}

// MCQ is a multiple-choice question with exactly four options.
type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// TheoryQuestion asks for a short free-text explanation.
type TheoryQuestion struct {
	Question string `json:"question"`
}

// Questions returns the text of every question in presentation order:
// MCQs first, then theory questions.
func (a Assessment) Questions() []string {
	out := make([]string, 0, len(a.MCQs)+len(a.TheoryQuestions))
	for _, q := range a.MCQs {
		out = append(out, q.Question)
	}
	for _, q := range a.TheoryQuestions {
		out = append(out, q.Question)
	}
	return out
}

// EvaluationResult is the graded outcome of a submitted assessment.
type EvaluationResult struct {
	Passed          bool             `json:"passed"`
	Feedback        string           `json:"feedback"`
	Score           int              `json:"score"`
	Total           int              `json:"total"`
	DetailedResults []DetailedResult `json:"detailedResults"`
}

// DetailedResult grades a single answer.
type DetailedResult struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`

	// CorrectAnswer is only expected for incorrect MCQ answers.
	CorrectAnswer string `json:"correctAnswer,omitempty"`

	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// PassThreshold is the minimum fraction of correct answers needed to pass.
const PassThreshold = 0.5

// Passed reports whether score out of total meets PassThreshold.
// An empty assessment never passes.
func Passed(score, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(score)/float64(total) >= PassThreshold
}
