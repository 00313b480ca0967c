// Package groq implements the llm.Client interface against Groq's
// OpenAI-compatible chat completions endpoint. It serves as the fallback
// provider behind the Gemini client and speaks plain HTTP: the request asks
// for a json_object response and the completion body is returned verbatim.
package groq
