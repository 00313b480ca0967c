// Package llm defines the model client capability used by the verification
// pipeline. It is the boundary between the application core and external
// LLM providers: the pipeline depends only on the Client interface, while
// concrete providers live under internal/platform (gemini, groq).
//
// Provider availability concerns (rate limits, outages) are handled here by
// the Fallback decorator; quality concerns (retrying a poor answer) belong
// to the pipeline orchestrator. Keeping the two apart means neither has to
// know about the other's retry policy.
package llm
