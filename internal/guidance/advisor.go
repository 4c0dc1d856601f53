package guidance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/career"
	"github.com/careerpilot/careerpilot/internal/llm"
)

// ErrServiceUnavailable wraps any failure to get a reply from the
// generative service (network, quota, provider outage, cancellation).
var ErrServiceUnavailable = errors.New("guidance service unavailable")

// Config tunes the generative calls.
type Config struct {
	// MaxTokens is the reply budget. Zero leaves the provider default,
	// which matters for models that spend output tokens on reasoning.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// DefaultConfig returns provider defaults for every call.
func DefaultConfig() Config {
	return Config{}
}

// Advisor runs the three guidance operations against an llm.Provider.
// Each call is sent once; failures are returned, not retried here.
type Advisor struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// NewAdvisor creates an Advisor. log may be nil.
func NewAdvisor(provider llm.Provider, cfg Config, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Advisor{provider: provider, config: cfg, log: log}
}

// CareerPlan generates a plan from onboarding input. The input's form
// checks run first and short-circuit with ErrIncompleteInput.
func (a *Advisor) CareerPlan(ctx context.Context, in Input) (career.Plan, error) {
	if err := in.Validate(); err != nil {
		return career.Plan{}, err
	}
	req, err := BuildCareerPlanRequest(in)
	if err != nil {
		return career.Plan{}, err
	}

	text, err := a.generate(ctx, req)
	if err != nil {
		return career.Plan{}, err
	}
	plan, err := ParseCareerPlan(text)
	if err != nil {
		a.logMalformed(req.Operation, err)
		return career.Plan{}, err
	}
	return plan, nil
}

// Assessment generates a quiz for skillName.
func (a *Advisor) Assessment(ctx context.Context, skillName string) (career.Assessment, error) {
	req := BuildAssessmentRequest(skillName)

	text, err := a.generate(ctx, req)
	if err != nil {
		return career.Assessment{}, err
	}
	assessment, err := ParseAssessment(text)
	if err != nil {
		a.logMalformed(req.Operation, err)
		return career.Assessment{}, err
	}
	return assessment, nil
}

// Evaluate grades answers (question text to answer) for an assessment.
func (a *Advisor) Evaluate(ctx context.Context, skillName string, assessment career.Assessment, answers map[string]string) (career.EvaluationResult, error) {
	req, err := BuildEvaluationRequest(skillName, assessment, answers)
	if err != nil {
		return career.EvaluationResult{}, err
	}

	text, err := a.generate(ctx, req)
	if err != nil {
		return career.EvaluationResult{}, err
	}
	result, err := ParseEvaluation(text, assessment)
	if err != nil {
		a.logMalformed(req.Operation, err)
		return career.EvaluationResult{}, err
	}
	return result, nil
}

func (a *Advisor) generate(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, string(req.Operation))

	llmReq := req.LLM()
	llmReq.MaxTokens = a.config.MaxTokens
	llmReq.Temperature = a.config.Temperature

	resp, err := a.provider.Generate(ctx, llmReq)
	if err != nil {
		return "", classify(req.Operation, err)
	}
	return resp.Text, nil
}

// classify maps transport errors onto the guidance taxonomy. Replies that
// arrived but were unusable count as malformed; everything else means the
// service could not be reached.
func classify(op Operation, err error) error {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return malformed(op, invalid.Text, err)
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return malformed(op, truncated.Text, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, op, err)
}

func (a *Advisor) logMalformed(op Operation, err error) {
	var m *MalformedResponseError
	if errors.As(err, &m) {
		a.log.Warn("discarding malformed guidance reply",
			zap.String("operation", string(op)),
			zap.Int("length", len(m.Text)),
			zap.Error(m.Err),
		)
	}
}
