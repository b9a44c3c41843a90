// Package llm provides a minimal OpenRouter chat-completion client used by
// the remote classification stage. It handles retries with backoff, tolerant
// response parsing across provider schema quirks, and batched filename
// classification requests.
package llm
