// Package gemini implements the llm.Client interface on top of Google's
// Gemini API. It is the primary model provider for the answer pipeline:
// every request asks for a JSON response body and transient API failures
// are retried with exponential backoff before the error escalates to the
// caller.
package gemini
