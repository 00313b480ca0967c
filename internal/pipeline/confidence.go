package pipeline

import "math"

// Weights for the overall confidence score. The four inputs are normalized
// to [0,100] and combined as a weighted mean, which keeps the result
// monotonic in each input and deterministic.
const (
	generatorWeight = 0.20
	validatorWeight = 0.30
	auditorWeight   = 0.25
	scorerWeight    = 0.25
)

// severityScore maps the Auditor's ordinal severity to a [0,100] scale.
func severityScore(s Severity) float64 {
	switch s {
	case SeverityNone:
		return 100
	case SeverityLow:
		return 75
	case SeverityMedium:
		return 50
	default:
		return 0
	}
}

// confidenceScore derives the overall [0,100] confidence of a completed run
// from all four stage outputs, rounded to two decimal places.
func confidenceScore(gen *GeneratorOutput, val *ValidatorOutput, aud *AuditorOutput, sco *ScorerOutput) float64 {
	score := generatorWeight*gen.Confidence*100 +
		validatorWeight*val.AlignmentScore +
		auditorWeight*severityScore(aud.Severity) +
		scorerWeight*sco.ScorePercentage()

	return math.Round(clamp(score, 0, 100)*100) / 100
}
