package guidance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/llm"
)

// ErrMalformedResponse matches every reply that could not be turned into a
// domain object.
var ErrMalformedResponse = errors.New("malformed response from guidance service")

// MalformedResponseError carries the offending text for one operation.
type MalformedResponseError struct {
	Operation Operation
	Text      string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Operation, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedResponse) hold for any
// MalformedResponseError.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(op Operation, text string, err error) error {
	return &MalformedResponseError{Operation: op, Text: text, Err: err}
}

// decode runs the shared steps of every parser: trim, cheap leading-brace
// check, schema validation, typed decode into out.
func decode(op Operation, schema *llm.Schema, text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return malformed(op, text, errors.New("reply is not JSON"))
	}

	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return malformed(op, text, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := conform(schema, doc); err != nil {
		return malformed(op, text, err)
	}
	if err := json.Unmarshal([]byte(trimmed), out); err != nil {
		return malformed(op, text, fmt.Errorf("decode: %w", err))
	}
	return nil
}

type planOutput struct {
	Suggestions []suggestionOutput `json:"suggestions"`
}

type suggestionOutput struct {
	JobRole         string        `json:"jobRole"`
	Reason          string        `json:"reason"`
	MatchPercentage int           `json:"matchPercentage"`
	Skills          []skillOutput `json:"skills"`
	MarketInsight   string        `json:"marketInsight"`
}

// skillOutput deliberately has no completed field: whatever the model says
// about completion is dropped.
type skillOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseCareerPlan turns a career plan reply into a Plan. Every skill
// starts out not completed.
func ParseCareerPlan(text string) (career.Plan, error) {
	var out planOutput
	if err := decode(OpCareerPlan, careerPlanReplySchema, text, &out); err != nil {
		return career.Plan{}, err
	}

	plan := career.Plan{Suggestions: make([]career.JobSuggestion, len(out.Suggestions))}
	for i, s := range out.Suggestions {
		skills := make([]career.Skill, len(s.Skills))
		for j, sk := range s.Skills {
			skills[j] = career.Skill{Name: sk.Name, Description: sk.Description, Completed: false}
		}
		plan.Suggestions[i] = career.JobSuggestion{
			JobRole:         s.JobRole,
			Reason:          s.Reason,
			MatchPercentage: s.MatchPercentage,
			Skills:          skills,
			MarketInsight:   s.MarketInsight,
		}
	}
	return plan, nil
}

type assessmentOutput struct {
	MCQs []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
	} `json:"mcqs"`
	TheoryQuestions []struct {
		Question string `json:"question"`
	} `json:"theoryQuestions"`
}

// ParseAssessment turns an assessment reply into an Assessment.
func ParseAssessment(text string) (career.Assessment, error) {
	var out assessmentOutput
	if err := decode(OpAssessment, AssessmentSchema, text, &out); err != nil {
		return career.Assessment{}, err
	}

	a := career.Assessment{
		MCQs:            make([]career.MCQ, len(out.MCQs)),
		TheoryQuestions: make([]career.TheoryQuestion, len(out.TheoryQuestions)),
	}
	for i, q := range out.MCQs {
		a.MCQs[i] = career.MCQ{Question: q.Question, Options: q.Options, CorrectAnswer: q.CorrectAnswer}
	}
	for i, q := range out.TheoryQuestions {
		a.TheoryQuestions[i] = career.TheoryQuestion{Question: q.Question}
	}
	return a, nil
}

type evaluationOutput struct {
	Feedback        string `json:"feedback"`
	DetailedResults []struct {
		Question      string `json:"question"`
		UserAnswer    string `json:"userAnswer"`
		CorrectAnswer string `json:"correctAnswer"`
		IsCorrect     bool   `json:"isCorrect"`
		Explanation   string `json:"explanation"`
	} `json:"detailedResults"`
}

// ParseEvaluation turns a grading reply for assessment a into an
// EvaluationResult. The reply must grade every question. Score and total
// are counted from the per-question verdicts and Passed is derived from
// them; the model's own passed, score and total fields are not trusted.
func ParseEvaluation(text string, a career.Assessment) (career.EvaluationResult, error) {
	var out evaluationOutput
	if err := decode(OpEvaluation, EvaluationSchema, text, &out); err != nil {
		return career.EvaluationResult{}, err
	}

	if want := len(a.Questions()); len(out.DetailedResults) != want {
		return career.EvaluationResult{}, malformed(OpEvaluation, text,
			fmt.Errorf("graded %d questions, assessment has %d", len(out.DetailedResults), want))
	}

	res := career.EvaluationResult{
		Feedback:        out.Feedback,
		Total:           len(out.DetailedResults),
		DetailedResults: make([]career.DetailedResult, len(out.DetailedResults)),
	}
	for i, d := range out.DetailedResults {
		if d.IsCorrect {
			res.Score++
		}
		res.DetailedResults[i] = career.DetailedResult{
			Question:      d.Question,
			UserAnswer:    d.UserAnswer,
			CorrectAnswer: d.CorrectAnswer,
			IsCorrect:     d.IsCorrect,
			Explanation:   d.Explanation,
		}
	}
	res.Passed = career.Passed(res.Score, res.Total)
	return res, nil
}
