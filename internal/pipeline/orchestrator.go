package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/commerceprecision/cpe-api/internal/llm"
)

// MinGeneratorConfidence is the floor below which a first-attempt answer is
// regenerated immediately, before spending a model call on validation.
const MinGeneratorConfidence = 0.6

// Config holds the orchestrator's retry and quality policy. Numeric defaults
// are policy, not contract; they are configurable through the application
// config layer.
type Config struct {
	// QualityThreshold is the percentage below which alignment and
	// predicted-score checks trigger a corrective retry.
	QualityThreshold float64

	// MaxRetries is the shared budget of corrective retries per run,
	// across all retry causes.
	MaxRetries int

	// StageTimeout bounds each individual model call.
	StageTimeout time.Duration

	// RunTimeout bounds the whole pipeline run. End users wait
	// synchronously, so this stays in the low minutes.
	RunTimeout time.Duration
}

// DefaultConfig returns the orchestrator policy defaults.
func DefaultConfig() Config {
	return Config{
		QualityThreshold: 75,
		MaxRetries:       2,
		StageTimeout:     45 * time.Second,
		RunTimeout:       3 * time.Minute,
	}
}

// Orchestrator runs the four verification stages in fixed order against one
// question and produces exactly one FinalAnswer per Process call. One
// orchestrator instance serves concurrent runs; all per-run state lives in
// the Run owned by each Process invocation.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger

	generator Stage
	validator Stage
	auditor   Stage
	scorer    Stage
}

// NewOrchestrator creates an Orchestrator over the given model client.
// Unset threshold and timeout fields fall back to DefaultConfig values;
// MaxRetries of zero is honored as "no corrective retries".
func NewOrchestrator(client llm.Client, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.New("model client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	defaults := DefaultConfig()
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = defaults.QualityThreshold
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = defaults.StageTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaults.RunTimeout
	}

	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		generator: &generatorStage{client: client},
		validator: &validatorStage{client: client, neutralAlignment: cfg.QualityThreshold},
		auditor:   &auditorStage{client: client},
		scorer:    &scorerStage{client: client},
	}, nil
}

// Process runs the pipeline for one question. It always returns a non-nil
// FinalAnswer: quality shortfalls and budget exhaustion produce a structured
// failed result rather than an error. The returned error is non-nil only
// when the caller's context was cancelled mid-run.
func (o *Orchestrator) Process(ctx context.Context, in Input) (*FinalAnswer, error) {
	if in.MaxMarks <= 0 {
		in.MaxMarks = DefaultMaxMarks
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, o.cfg.RunTimeout)
	defer cancel()

	run := &Run{Input: in, StartedAt: time.Now()}
	log := o.logger.With("subject", in.Subject)

	for {
		run.Attempt++
		log.InfoContext(ctx, "starting pipeline attempt",
			"attempt", run.Attempt,
			"retries", run.Retries,
			"has_feedback", !run.Feedback.Empty())

		if err := o.runStage(ctx, o.generator, run); err != nil {
			return o.abort(parent, run, log, err)
		}

		// Regenerate immediately when the model itself is not confident in
		// its first answer, before spending calls on the review stages.
		if run.Generator.Confidence < MinGeneratorConfidence && run.Retries < o.cfg.MaxRetries {
			run.Retries++
			log.InfoContext(ctx, "generator confidence below floor, regenerating",
				"confidence", run.Generator.Confidence)
			continue
		}

		if err := o.runStage(ctx, o.validator, run); err != nil {
			return o.abort(parent, run, log, err)
		}

		if run.Validator.AlignmentScore < o.cfg.QualityThreshold {
			if run.Retries < o.cfg.MaxRetries {
				run.Retries++
				run.Feedback = Feedback{
					MissingKeywords:  run.Validator.MissingKeywords,
					IrrelevantPoints: run.Validator.IrrelevantPoints,
				}
				log.InfoContext(ctx, "alignment below threshold, retrying from generator",
					"alignment_score", run.Validator.AlignmentScore,
					"threshold", o.cfg.QualityThreshold)
				continue
			}
			// Alignment shortfall alone never hard-fails the run.
			run.LowConfidence = true
			log.WarnContext(ctx, "alignment below threshold after exhausting retries, proceeding low-confidence",
				"alignment_score", run.Validator.AlignmentScore)
		}

		if err := o.runStage(ctx, o.auditor, run); err != nil {
			return o.abort(parent, run, log, err)
		}

		if run.Auditor.Severity == SeverityHigh {
			if run.Retries < o.cfg.MaxRetries {
				run.Retries++
				run.Feedback = Feedback{LogicalErrors: run.Auditor.LogicalErrors}
				log.InfoContext(ctx, "high audit severity, retrying from generator",
					"logical_errors", len(run.Auditor.LogicalErrors))
				continue
			}
			log.WarnContext(ctx, "high audit severity persisted through retry budget, failing run")
			return o.failure(run, "the answer contained serious logical defects that persisted through every attempt"), nil
		}

		if err := o.runStage(ctx, o.scorer, run); err != nil {
			return o.abort(parent, run, log, err)
		}

		if run.Scorer.ScorePercentage() < o.cfg.QualityThreshold {
			if run.Retries < o.cfg.MaxRetries {
				run.Retries++
				run.Feedback = Feedback{MissingComponents: run.Scorer.MissingComponents}
				log.InfoContext(ctx, "predicted score below threshold, retrying from generator",
					"score_percentage", run.Scorer.ScorePercentage(),
					"threshold", o.cfg.QualityThreshold)
				continue
			}
			run.LowConfidence = true
			log.WarnContext(ctx, "predicted score below threshold after exhausting retries, proceeding low-confidence",
				"score_percentage", run.Scorer.ScorePercentage())
		}

		return o.success(run, log), nil
	}
}

// runStage executes one stage under the per-stage timeout.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, run *Run) error {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	start := time.Now()
	err := stage.Run(stageCtx, run)
	o.logger.DebugContext(ctx, "stage finished",
		"stage", stage.Name(),
		"attempt", run.Attempt,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err)
	return err
}

// success builds the FinalAnswer for a run whose quality checks passed (or
// were waived after the retry budget).
func (o *Orchestrator) success(run *Run, log *slog.Logger) *FinalAnswer {
	elapsed := time.Since(run.StartedAt)
	answer := &FinalAnswer{
		FinalAnswer:        buildFinalText(run.Generator, run.Scorer),
		Generator:          *run.Generator,
		Validator:          *run.Validator,
		Auditor:            *run.Auditor,
		Scorer:             *run.Scorer,
		ReferencedConcepts: run.Generator.ReferencedConcepts,
		ConfidenceScore:    confidenceScore(run.Generator, run.Validator, run.Auditor, run.Scorer),
		Retries:            run.Retries,
		ProcessingTime:     elapsed,
		ProcessingTimeMs:   elapsed.Milliseconds(),
		Status:             StatusSucceeded,
		LowConfidence:      run.LowConfidence,
	}

	log.Info("pipeline run succeeded",
		"confidence_score", answer.ConfidenceScore,
		"retries", answer.Retries,
		"low_confidence", answer.LowConfidence,
		"processing_time_ms", answer.ProcessingTimeMs)

	return answer
}

// failure builds the terminal failed FinalAnswer. The last available stage
// outputs are attached for diagnostics; the answer text explains the failure
// rather than presenting an unreliable result as confident.
func (o *Orchestrator) failure(run *Run, reason string) *FinalAnswer {
	elapsed := time.Since(run.StartedAt)
	answer := &FinalAnswer{
		FinalAnswer:      failureText(run.Input, run.Retries, reason),
		ConfidenceScore:  0,
		Retries:          run.Retries,
		ProcessingTime:   elapsed,
		ProcessingTimeMs: elapsed.Milliseconds(),
		Status:           StatusFailed,
	}

	if run.Generator != nil {
		answer.Generator = *run.Generator
		answer.ReferencedConcepts = run.Generator.ReferencedConcepts
	}
	if run.Validator != nil {
		answer.Validator = *run.Validator
	}
	if run.Auditor != nil {
		answer.Auditor = *run.Auditor
	}
	if run.Scorer != nil {
		answer.Scorer = *run.Scorer
	}

	return answer
}

// abort handles a stage failure: a model call that errored through every
// provider retry. The run terminates as failed with a diagnostic answer.
// Caller cancellation is the one case surfaced as an error.
func (o *Orchestrator) abort(parent context.Context, run *Run, log *slog.Logger, err error) (*FinalAnswer, error) {
	log.ErrorContext(parent, "pipeline run aborted on stage failure",
		"attempt", run.Attempt,
		"retries", run.Retries,
		"error", err)

	reason := "the answer service was unavailable"
	if errors.Is(err, llm.ErrContentBlocked) {
		reason = "the question was declined by the model's safety filters"
	} else if errors.Is(err, llm.ErrInvalidResponse) {
		reason = "the model returned an unusable response"
	}

	answer := o.failure(run, reason)
	if parent.Err() != nil {
		return answer, fmt.Errorf("pipeline run cancelled: %w", parent.Err())
	}
	return answer, nil
}

// buildFinalText assembles the user-facing answer, appending up to three of
// the scorer's missing components when the predicted score leaves room for
// improvement.
func buildFinalText(gen *GeneratorOutput, sco *ScorerOutput) string {
	text := strings.TrimSpace(gen.Answer)

	if len(sco.MissingComponents) > 0 && sco.ScorePercentage() < 90 {
		components := sco.MissingComponents
		if len(components) > 3 {
			components = components[:3]
		}
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n\n---\n**Additional Points for Higher Score:**\n")
		for _, component := range components {
			b.WriteString("- ")
			b.WriteString(component)
			b.WriteString("\n")
		}
		text = strings.TrimSpace(b.String())
	}

	return text
}

// failureText builds the human-readable explanation carried by a failed run.
func failureText(in Input, retries int, reason string) string {
	return fmt.Sprintf(`We apologize, but we were unable to generate a reliable answer for your question after %d retries: %s.

**Your Question:** %s

**What you can try:**
1. Rephrase your question with more specific terms
2. Break down complex questions into simpler parts
3. Check that your question relates to the CBSE Class 12 Commerce syllabus

If the problem persists, please try again later.`, retries, reason, in.Question)
}
