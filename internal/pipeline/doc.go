// Package pipeline implements the 4-layer answer-verification pipeline:
// a Generator produces an answer, a Validator checks it against the syllabus,
// an Auditor reviews it for logical defects, and a Scorer predicts the exam
// marks it would earn. The Orchestrator runs the four stages in fixed order
// against one question, feeding quality shortfalls back into the Generator
// as corrective instructions, bounded by a shared retry budget.
//
// The pipeline holds no state beyond a single run. Concurrent questions are
// processed by calling Process concurrently; the orchestrator and the shared
// model client are safe for concurrent use.
package pipeline
