package pipeline

import (
	"strings"
	"time"
)

// DefaultMaxMarks is assumed when the caller does not state how many marks
// the question carries. CBSE long-answer questions are typically worth 3-6.
const DefaultMaxMarks = 5

// Severity is the Auditor's ordinal rating of how bad the detected logical
// defects are. Only the comparison against SeverityHigh drives retries.
type Severity string

// Possible severity values, ordered from best to worst.
const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is one of the defined severity values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// GeneratorOutput is the structured result of the Generator stage.
type GeneratorOutput struct {
	Answer             string   `json:"answer"`
	KeyPoints          []string `json:"key_points"`
	ReferencedConcepts []string `json:"referenced_concepts"`
	Confidence         float64  `json:"confidence"`
}

// normalize clamps model-reported values into their contractual ranges.
func (o *GeneratorOutput) normalize() {
	o.Confidence = clamp(o.Confidence, 0, 1)
}

// ValidatorOutput is the structured result of the Validator stage.
type ValidatorOutput struct {
	SyllabusAlignment string   `json:"syllabus_alignment"`
	MissingKeywords   []string `json:"missing_keywords"`
	IrrelevantPoints  []string `json:"irrelevant_points"`
	AlignmentScore    float64  `json:"alignment_score"`
}

func (o *ValidatorOutput) normalize() {
	o.AlignmentScore = clamp(o.AlignmentScore, 0, 100)
}

// AuditorOutput is the structured result of the Auditor stage.
type AuditorOutput struct {
	LogicalErrors []string `json:"logical_errors"`
	Severity      Severity `json:"severity"`
}

// normalize maps unknown severity strings to the worst defined value so a
// misbehaving model cannot talk its way past the audit check.
func (o *AuditorOutput) normalize() {
	o.Severity = Severity(strings.ToLower(string(o.Severity)))
	if !o.Severity.Valid() {
		o.Severity = SeverityHigh
	}
}

// ScorerOutput is the structured result of the Scorer stage.
type ScorerOutput struct {
	PredictedScore    float64  `json:"predicted_score"`
	MaxMarks          float64  `json:"max_marks"`
	MissingComponents []string `json:"missing_components"`
}

// normalize enforces predicted_score ∈ [0, max_marks], substituting the
// requested marks weight when the model returns a nonsensical maximum.
func (o *ScorerOutput) normalize(requestedMaxMarks float64) {
	if o.MaxMarks <= 0 {
		o.MaxMarks = requestedMaxMarks
	}
	if o.MaxMarks <= 0 {
		o.MaxMarks = DefaultMaxMarks
	}
	o.PredictedScore = clamp(o.PredictedScore, 0, o.MaxMarks)
}

// ScorePercentage returns the predicted score as a percentage of max marks.
func (o *ScorerOutput) ScorePercentage() float64 {
	if o.MaxMarks <= 0 {
		return 0
	}
	return o.PredictedScore / o.MaxMarks * 100
}

// Input is the immutable description of one question to verify.
type Input struct {
	// Question is the question text (validated upstream, ≥10 characters).
	Question string

	// Subject names the CBSE subject, e.g. "Business Studies".
	Subject string

	// Chapter optionally narrows the question to one chapter.
	Chapter string

	// SyllabusContext is the user-supplied syllabus or study material the
	// Validator checks the answer against. May be empty.
	SyllabusContext string

	// MaxMarks is the marks weight of the question. Zero means DefaultMaxMarks.
	MaxMarks float64
}

// Feedback carries corrective instructions from a failed quality check back
// into the Generator on the next attempt.
type Feedback struct {
	MissingKeywords   []string
	IrrelevantPoints  []string
	LogicalErrors     []string
	MissingComponents []string
}

// Empty reports whether there is no corrective feedback to apply.
func (f Feedback) Empty() bool {
	return len(f.MissingKeywords) == 0 &&
		len(f.IrrelevantPoints) == 0 &&
		len(f.LogicalErrors) == 0 &&
		len(f.MissingComponents) == 0
}

// Render formats the feedback as prompt instructions for the Generator.
func (f Feedback) Render() string {
	if f.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("A previous attempt at this answer failed quality review. Correct it as follows:\n")
	if len(f.MissingKeywords) > 0 {
		b.WriteString("- Include these syllabus keywords: " + strings.Join(f.MissingKeywords, ", ") + "\n")
	}
	if len(f.IrrelevantPoints) > 0 {
		b.WriteString("- Remove these irrelevant points: " + strings.Join(f.IrrelevantPoints, "; ") + "\n")
	}
	if len(f.LogicalErrors) > 0 {
		b.WriteString("- Fix these logical errors: " + strings.Join(f.LogicalErrors, "; ") + "\n")
	}
	if len(f.MissingComponents) > 0 {
		b.WriteString("- Add these components the marking scheme expects: " + strings.Join(f.MissingComponents, "; ") + "\n")
	}
	return b.String()
}

// Run is the mutable execution record for one question moving through the
// pipeline. It is owned exclusively by the orchestrator for the duration of
// one Process call and is never shared across goroutines.
type Run struct {
	Input    Input
	Feedback Feedback

	Generator *GeneratorOutput
	Validator *ValidatorOutput
	Auditor   *AuditorOutput
	Scorer    *ScorerOutput

	// Attempt is the zero-based index of the current pipeline attempt.
	Attempt int

	// Retries counts corrective retries performed so far, shared across all
	// retry causes.
	Retries int

	// LowConfidence is set when a quality check failed after the retry
	// budget was exhausted but the run proceeded anyway.
	LowConfidence bool

	StartedAt time.Time
}

// Status is the terminal state of a pipeline run.
type Status string

// Possible terminal statuses.
const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FinalAnswer is the aggregated result of one pipeline run. It combines the
// last Generator answer with the most recent outputs of the other stages and
// a derived overall confidence score.
type FinalAnswer struct {
	FinalAnswer        string          `json:"final_answer"`
	Generator          GeneratorOutput `json:"generator_output"`
	Validator          ValidatorOutput `json:"validator_output"`
	Auditor            AuditorOutput   `json:"auditor_output"`
	Scorer             ScorerOutput    `json:"scorer_output"`
	ReferencedConcepts []string        `json:"referenced_concepts"`
	ConfidenceScore    float64         `json:"confidence_score"`
	Retries            int             `json:"retries"`
	ProcessingTime     time.Duration   `json:"-"`
	ProcessingTimeMs   int64           `json:"processing_time_ms"`
	Status             Status          `json:"status"`
	LowConfidence      bool            `json:"low_confidence,omitempty"`
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
