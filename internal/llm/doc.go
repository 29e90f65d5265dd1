// Package llm turns free-form attendance text and images into structured
// candidate records. It wraps Gemini, OpenAI and Anthropic behind a single
// Gateway with rate limiting, result caching and tolerant response parsing.
package llm
