package guidance

import "github.com/careerpilot/careerpilot/internal/llm"

// CareerPlanSchema defines the reply for career plan generation. The 3
// suggestions and 5-7 skills are asked for in the descriptions but not
// enforced, so a plan with a different count still parses.
var CareerPlanSchema = &llm.Schema{
	Name:        "career-plan",
	Description: "Three tailored job suggestions with the skills to learn for each",
	Definition:  careerPlanDefinition("jobRole", "reason", "matchPercentage", "skills", "marketInsight"),
}

// careerPlanReplySchema checks what comes back. The model is asked for a
// marketInsight, but a suggestion without one is still usable.
var careerPlanReplySchema = &llm.Schema{
	Name:       "career-plan-reply",
	Definition: careerPlanDefinition("jobRole", "reason", "matchPercentage", "skills"),
}

func careerPlanDefinition(suggestionRequired ...string) map[string]any {
	required := make([]any, len(suggestionRequired))
	for i, name := range suggestionRequired {
		required[i] = name
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"description": "A list of 3 tailored job suggestions.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"jobRole": map[string]any{
							"type":        "string",
							"description": "The title of the suggested job role.",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "A detailed explanation of why this role fits the user's input.",
						},
						"matchPercentage": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     100,
							"description": "How good a match this role is, from 0 to 100.",
						},
						"skills": map[string]any{
							"type":        "array",
							"description": "A list of 5-7 key skills required for this job role.",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"name": map[string]any{
										"type":        "string",
										"description": "The name of the skill.",
									},
									"description": map[string]any{
										"type":        "string",
										"description": "A brief, one-sentence description of the skill.",
									},
								},
								"required": []any{"name", "description"},
							},
						},
						"marketInsight": map[string]any{
							"type":        "string",
							"description": "A brief insight into the current market demand for this role.",
						},
					},
					"required": required,
				},
			},
		},
		"required": []any{"suggestions"},
	}
}

// AssessmentSchema defines the reply for assessment generation: exactly 3
// multiple-choice questions with 4 options each and exactly 2 theory
// questions.
var AssessmentSchema = &llm.Schema{
	Name:        "assessment",
	Description: "A short proficiency assessment for one skill",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mcqs": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"minItems": 4,
							"maxItems": 4,
							"items":    map[string]any{"type": "string"},
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The text of the correct option.",
						},
					},
					"required": []any{"question", "options", "correctAnswer"},
				},
			},
			"theoryQuestions": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 2,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
					},
					"required": []any{"question"},
				},
			},
		},
		"required": []any{"mcqs", "theoryQuestions"},
	},
}

// EvaluationSchema defines the reply for grading a submitted assessment.
var EvaluationSchema = &llm.Schema{
	Name:        "evaluation",
	Description: "Graded results of a submitted skill assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passed":   map[string]any{"type": "boolean"},
			"feedback": map[string]any{"type": "string"},
			"score":    map[string]any{"type": "integer", "minimum": 0},
			"total":    map[string]any{"type": "integer", "minimum": 0},
			"detailedResults": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string"},
						"userAnswer": map[string]any{"type": "string"},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The correct answer for incorrect MCQs. Can be omitted otherwise.",
						},
						"isCorrect": map[string]any{"type": "boolean"},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A brief explanation for why the user's answer was right or wrong.",
						},
					},
					"required": []any{"question", "userAnswer", "isCorrect", "explanation"},
				},
			},
		},
		"required": []any{"passed", "feedback", "score", "total", "detailedResults"},
	},
}
