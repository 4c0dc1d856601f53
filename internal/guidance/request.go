package guidance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/llm"
)

// Operation names one of the three generative calls. It doubles as the
// purpose label in the LLM event log.
type Operation string

const (
	OpCareerPlan Operation = "career-plan"
	OpAssessment Operation = "assessment"
	OpEvaluation Operation = "evaluation"
)

// Request is a fully shaped generative call: prompt text plus the schema
// the reply must satisfy.
type Request struct {
	Operation Operation
	System    string
	Prompt    string
	Schema    *llm.Schema
}

// LLM converts r into a provider request.
func (r Request) LLM() llm.Request {
	req := llm.UserPrompt(r.Prompt, r.Schema)
	req.System = r.System
	return req
}

const careerPlanSystemPrompt = `You are a career advisor for people starting or growing a career in technology.

Rules:
- Suggest exactly 3 job roles.
- For each role, explain in detail why it fits the profile you are given. Base the reason only on that profile.
- Give each role a match percentage from 0 to 100.
- List 5 to 7 key skills to learn or improve for each role, each with a one-sentence description. Skills must be actionable and specific.
- Add a short insight into current market demand for each role.
- Respond only with JSON that follows the provided schema.`

const assessmentSystemPrompt = `You are an expert tech educator writing short proficiency checks.

Rules:
- The assessment must verify a foundational understanding of the skill; keep it challenging but fair.
- Write exactly 3 multiple-choice questions. Each has exactly 4 distinct options, and correctAnswer repeats the text of the right option verbatim.
- Write exactly 2 theory questions that need a short written explanation.
- Respond only with JSON that follows the provided schema.`

const evaluationSystemPrompt = `You are an expert tech instructor grading a skill assessment.

Steps:
1. For each question, compare the user's answer with the correct one.
2. Decide whether each answer is correct. For theory questions, judge the substance of the answer.
3. For each question, give a brief explanation of why the answer is correct or incorrect.
4. For incorrect multiple-choice answers, you must give correctAnswer. Omit it for correct answers and theory questions.
5. Score is the number of correctly answered questions; total is the number of questions.
6. The user passes when the score is at least 50% of the total.
7. Give overall constructive feedback.

detailedResults must contain one entry for every question in the assessment, in the order asked. Respond only with JSON that follows the provided schema.`

// BuildCareerPlanRequest shapes the career plan call for either input kind.
func BuildCareerPlanRequest(in Input) (Request, error) {
	var b strings.Builder

	switch v := in.(type) {
	case FresherInput:
		answers, err := json.MarshalIndent(v.Answers, "", "  ")
		if err != nil {
			return Request{}, fmt.Errorf("encode answers: %w", err)
		}
		fmt.Fprintf(&b, "Profile: %s development fresher\n", v.Track)
		b.WriteString("\nOnboarding answers (keyed by question):\n")
		b.Write(answers)
		b.WriteString("\n\nSuggest entry-level roles this person can grow into.")
	case ExperiencedInput:
		b.WriteString("Profile: experienced professional\n")
		fmt.Fprintf(&b, "Key skills: %q\n", v.Skills)
		fmt.Fprintf(&b, "Notable projects: %q\n", v.Projects)
		fmt.Fprintf(&b, "Key achievements: %q\n", v.Achievements)
		b.WriteString("\nSuggest advanced or specialized roles that are a logical next step in this career.")
	default:
		return Request{}, fmt.Errorf("unsupported guidance input %T", in)
	}

	return Request{
		Operation: OpCareerPlan,
		System:    careerPlanSystemPrompt,
		Prompt:    b.String(),
		Schema:    CareerPlanSchema,
	}, nil
}

// BuildAssessmentRequest shapes the assessment call for one skill.
func BuildAssessmentRequest(skillName string) Request {
	return Request{
		Operation: OpAssessment,
		System:    assessmentSystemPrompt,
		Prompt:    fmt.Sprintf("Skill: %q", skillName),
		Schema:    AssessmentSchema,
	}
}

// BuildEvaluationRequest shapes the grading call. answers maps question
// text to the user's answer; unanswered questions are sent as empty
// strings so the grader still returns a result for them.
func BuildEvaluationRequest(skillName string, a career.Assessment, answers map[string]string) (Request, error) {
	questions, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return Request{}, fmt.Errorf("encode assessment: %w", err)
	}

	submitted := make(map[string]string, len(answers))
	for _, q := range a.Questions() {
		submitted[q] = answers[q]
	}
	answerJSON, err := json.MarshalIndent(submitted, "", "  ")
	if err != nil {
		return Request{}, fmt.Errorf("encode answers: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %q\n", skillName)
	b.WriteString("\nQuestions asked:\n")
	b.Write(questions)
	b.WriteString("\n\nUser's submitted answers (keyed by question):\n")
	b.Write(answerJSON)

	return Request{
		Operation: OpEvaluation,
		System:    evaluationSystemPrompt,
		Prompt:    b.String(),
		Schema:    EvaluationSchema,
	}, nil
}
