package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseOutputs() (*GeneratorOutput, *ValidatorOutput, *AuditorOutput, *ScorerOutput) {
	gen := &GeneratorOutput{Confidence: 0.7}
	val := &ValidatorOutput{AlignmentScore: 70}
	aud := &AuditorOutput{Severity: SeverityLow}
	sco := &ScorerOutput{PredictedScore: 3.5, MaxMarks: 5}
	return gen, val, aud, sco
}

func TestConfidenceScoreBounds(t *testing.T) {
	t.Parallel()

	gen := &GeneratorOutput{Confidence: 1}
	val := &ValidatorOutput{AlignmentScore: 100}
	aud := &AuditorOutput{Severity: SeverityNone}
	sco := &ScorerOutput{PredictedScore: 5, MaxMarks: 5}
	assert.Equal(t, float64(100), confidenceScore(gen, val, aud, sco))

	gen.Confidence = 0
	val.AlignmentScore = 0
	aud.Severity = SeverityHigh
	sco.PredictedScore = 0
	assert.Equal(t, float64(0), confidenceScore(gen, val, aud, sco))
}

// The confidence score must be monotonically non-decreasing in each of its
// four inputs, holding the others fixed.
func TestConfidenceScoreMonotonicInGeneratorConfidence(t *testing.T) {
	t.Parallel()

	gen, val, aud, sco := baseOutputs()
	prev := -1.0
	for _, c := range []float64{0, 0.2, 0.5, 0.8, 1.0} {
		gen.Confidence = c
		score := confidenceScore(gen, val, aud, sco)
		assert.GreaterOrEqual(t, score, prev, "confidence %v", c)
		prev = score
	}
}

func TestConfidenceScoreMonotonicInAlignment(t *testing.T) {
	t.Parallel()

	gen, val, aud, sco := baseOutputs()
	prev := -1.0
	for _, a := range []float64{0, 25, 50, 75, 100} {
		val.AlignmentScore = a
		score := confidenceScore(gen, val, aud, sco)
		assert.GreaterOrEqual(t, score, prev, "alignment %v", a)
		prev = score
	}
}

func TestConfidenceScoreMonotonicInSeverity(t *testing.T) {
	t.Parallel()

	gen, val, aud, sco := baseOutputs()
	prev := -1.0
	// Worst to best severity.
	for _, s := range []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityNone} {
		aud.Severity = s
		score := confidenceScore(gen, val, aud, sco)
		assert.GreaterOrEqual(t, score, prev, "severity %v", s)
		prev = score
	}
}

func TestConfidenceScoreMonotonicInPredictedScore(t *testing.T) {
	t.Parallel()

	gen, val, aud, sco := baseOutputs()
	prev := -1.0
	for _, p := range []float64{0, 1, 2.5, 4, 5} {
		sco.PredictedScore = p
		score := confidenceScore(gen, val, aud, sco)
		assert.GreaterOrEqual(t, score, prev, "predicted score %v", p)
		prev = score
	}
}

func TestSeverityScoreOrdering(t *testing.T) {
	t.Parallel()

	assert.Equal(t, float64(100), severityScore(SeverityNone))
	assert.Equal(t, float64(75), severityScore(SeverityLow))
	assert.Equal(t, float64(50), severityScore(SeverityMedium))
	assert.Equal(t, float64(0), severityScore(SeverityHigh))
	// Unknown values score worst; normalize() should have caught them anyway.
	assert.Equal(t, float64(0), severityScore(Severity("catastrophic")))
}
