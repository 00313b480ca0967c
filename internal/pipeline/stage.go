package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/commerceprecision/cpe-api/internal/llm"
)

// Stage is one of the four verification layers. All stages share the same
// invoke shape so the orchestrator's control flow stays uniform: build a
// prompt from the run, call the model client, parse the structured output
// into the run.
type Stage interface {
	// Name identifies the stage for logging and error messages.
	Name() string

	// Run executes the stage against the current run state, storing its
	// output on the run. A returned error means the model call failed even
	// after the client's internal retries; quality judgments are not errors.
	Run(ctx context.Context, run *Run) error
}

// Sampling temperatures per stage. Generation benefits from some variety;
// the review stages are kept close to deterministic.
const (
	generatorTemperature = 0.4
	validatorTemperature = 0.3
	auditorTemperature   = 0.3
	scorerTemperature    = 0.2
)

// invokeStage performs the shared model-call-and-parse step for a stage.
// A response that does not unmarshal into the stage's output schema is a
// model client error, not a quality shortfall.
func invokeStage(ctx context.Context, client llm.Client, req llm.Request, out any) error {
	raw, err := client.GenerateJSON(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}

	return nil
}

// generatorStage produces the initial answer along with extracted key points
// and referenced concepts.
type generatorStage struct {
	client llm.Client
}

func (s *generatorStage) Name() string { return "generator" }

func (s *generatorStage) Run(ctx context.Context, run *Run) error {
	var out GeneratorOutput
	req := llm.Request{
		System:      generatorSystemPrompt,
		Prompt:      generatorPrompt(run.Input, run.Feedback),
		Temperature: generatorTemperature,
	}

	if err := invokeStage(ctx, s.client, req, &out); err != nil {
		return fmt.Errorf("generator stage: %w", err)
	}

	out.normalize()
	run.Generator = &out
	return nil
}

// validatorStage checks the generated answer against the user's syllabus
// context. When no syllabus context was supplied the stage short-circuits to
// a neutral result: the absence of a syllabus must not penalize the answer.
type validatorStage struct {
	client           llm.Client
	neutralAlignment float64
}

func (s *validatorStage) Name() string { return "validator" }

func (s *validatorStage) Run(ctx context.Context, run *Run) error {
	if run.Generator == nil {
		return fmt.Errorf("validator stage: no generator output to validate")
	}

	if run.Input.SyllabusContext == "" {
		run.Validator = &ValidatorOutput{
			SyllabusAlignment: "No syllabus context supplied; alignment not evaluated.",
			MissingKeywords:   []string{},
			IrrelevantPoints:  []string{},
			AlignmentScore:    s.neutralAlignment,
		}
		return nil
	}

	var out ValidatorOutput
	req := llm.Request{
		System:      validatorSystemPrompt,
		Prompt:      validatorPrompt(run.Input, run.Generator.Answer),
		Temperature: validatorTemperature,
	}

	if err := invokeStage(ctx, s.client, req, &out); err != nil {
		return fmt.Errorf("validator stage: %w", err)
	}

	out.normalize()
	run.Validator = &out
	return nil
}

// auditorStage reviews the answer for internal logical and factual defects.
type auditorStage struct {
	client llm.Client
}

func (s *auditorStage) Name() string { return "auditor" }

func (s *auditorStage) Run(ctx context.Context, run *Run) error {
	if run.Generator == nil {
		return fmt.Errorf("auditor stage: no generator output to audit")
	}

	var out AuditorOutput
	req := llm.Request{
		System:      auditorSystemPrompt,
		Prompt:      auditorPrompt(run.Input, run.Generator.Answer),
		Temperature: auditorTemperature,
	}

	if err := invokeStage(ctx, s.client, req, &out); err != nil {
		return fmt.Errorf("auditor stage: %w", err)
	}

	out.normalize()
	run.Auditor = &out
	return nil
}

// scorerStage predicts the exam marks the answer would earn.
type scorerStage struct {
	client llm.Client
}

func (s *scorerStage) Name() string { return "scorer" }

func (s *scorerStage) Run(ctx context.Context, run *Run) error {
	if run.Generator == nil {
		return fmt.Errorf("scorer stage: no generator output to score")
	}

	maxMarks := run.Input.MaxMarks
	if maxMarks <= 0 {
		maxMarks = DefaultMaxMarks
	}

	var out ScorerOutput
	req := llm.Request{
		System:      scorerSystemPrompt,
		Prompt:      scorerPrompt(run.Input, run.Generator.Answer, maxMarks),
		Temperature: scorerTemperature,
	}

	if err := invokeStage(ctx, s.client, req, &out); err != nil {
		return fmt.Errorf("scorer stage: %w", err)
	}

	out.normalize(maxMarks)
	run.Scorer = &out
	return nil
}
