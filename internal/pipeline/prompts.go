package pipeline

import (
	"fmt"
	"strings"
)

// System prompts for the four verification layers. Each establishes the
// model's role and the JSON output contract for that stage.

const generatorSystemPrompt = `You are an expert CBSE Class 12 Commerce teacher with 20+ years of experience.
Your task is to generate a comprehensive, accurate, and well-structured answer for the given question.
The answer should follow CBSE marking scheme standards and include relevant examples, definitions, and explanations.

Respond in JSON format with these fields:
- answer: The complete answer text (comprehensive but concise)
- key_points: Array of main points covered in the answer
- referenced_concepts: Array of specific concepts/theories mentioned
- confidence: Float between 0 and 1 indicating confidence in the answer`

const validatorSystemPrompt = `You are a CBSE syllabus expert. Review the given answer against the supplied syllabus material.
Check if all relevant keywords are included and if there are any irrelevant points.

Respond in JSON format with these fields:
- syllabus_alignment: Brief description of how well the answer aligns with the syllabus
- missing_keywords: Array of important syllabus keywords that should be included
- irrelevant_points: Array of any points not relevant to the syllabus
- alignment_score: Float 0-100 indicating percentage alignment with the syllabus`

const auditorSystemPrompt = `You are a logical reasoning expert. Review the answer for logical errors,
inconsistencies, or incorrect statements. Check for factual accuracy regarding commerce concepts.

Respond in JSON format with these fields:
- logical_errors: Array of identified errors or inconsistencies
- severity: One of "none", "low", "medium", or "high" indicating overall error severity`

const scorerSystemPrompt = `You are a CBSE examiner with expertise in marking schemes. Evaluate the answer
as if it's a student's response worth maximum marks. Apply CBSE marking criteria strictly.

Respond in JSON format with these fields:
- predicted_score: Float indicating marks obtained
- max_marks: Integer indicating maximum possible marks
- missing_components: Array of components that would improve the score`

// contextLine renders the subject/chapter context shared by all prompts.
func contextLine(in Input) string {
	ctx := "Subject: " + in.Subject
	if in.Chapter != "" {
		ctx += ", Chapter: " + in.Chapter
	}
	return ctx
}

// generatorPrompt builds the Generator stage prompt, injecting corrective
// feedback from a prior failed attempt when present.
func generatorPrompt(in Input, feedback Feedback) string {
	var b strings.Builder
	b.WriteString(contextLine(in))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(in.Question)
	b.WriteString("\n\n")

	if fb := feedback.Render(); fb != "" {
		b.WriteString(fb)
		b.WriteString("\n")
	}

	b.WriteString("Generate a comprehensive answer following CBSE Class 12 standards. ")
	b.WriteString("Include definitions, examples, and proper formatting.\n\n")
	b.WriteString("Respond with JSON containing: answer, key_points, referenced_concepts, confidence")
	return b.String()
}

// validatorPrompt builds the Validator stage prompt.
func validatorPrompt(in Input, answer string) string {
	var b strings.Builder
	b.WriteString(contextLine(in))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(in.Question)
	b.WriteString("\n\nSyllabus material:\n")
	b.WriteString(in.SyllabusContext)
	b.WriteString("\n\nAnswer to evaluate:\n")
	b.WriteString(answer)
	b.WriteString("\n\nEvaluate this answer against the syllabus material. ")
	b.WriteString("Identify missing keywords and irrelevant points.\n\n")
	b.WriteString("Respond with JSON containing: syllabus_alignment, missing_keywords, irrelevant_points, alignment_score")
	return b.String()
}

// auditorPrompt builds the Auditor stage prompt.
func auditorPrompt(in Input, answer string) string {
	var b strings.Builder
	b.WriteString(contextLine(in))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(in.Question)
	b.WriteString("\n\nAnswer to audit:\n")
	b.WriteString(answer)
	b.WriteString("\n\nCheck for logical errors, inconsistencies, or factual inaccuracies in this answer.\n\n")
	b.WriteString("Respond with JSON containing: logical_errors, severity")
	return b.String()
}

// scorerPrompt builds the Scorer stage prompt.
func scorerPrompt(in Input, answer string, maxMarks float64) string {
	var b strings.Builder
	b.WriteString(contextLine(in))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(in.Question)
	b.WriteString(fmt.Sprintf("\n\nThis question is worth %.0f marks.", maxMarks))
	b.WriteString("\n\nAnswer to score:\n")
	b.WriteString(answer)
	b.WriteString("\n\nEvaluate this answer using the CBSE marking scheme. Provide a detailed scoring breakdown.\n\n")
	b.WriteString("Respond with JSON containing: predicted_score, max_marks, missing_components")
	return b.String()
}
