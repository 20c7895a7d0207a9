package domain

import "errors"

var (
	// ErrSourceUnavailable marks a scrape failure: network error, non-200
	// response, or a page whose layout no longer matches. Non-fatal; a
	// report may still be built from the remaining sources.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSummarizerUnavailable marks an LLM failure. The caller substitutes
	// the plain-formatted text instead of failing the command.
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")

	// ErrInvalidInput marks rejected user input (bad time, unknown timezone,
	// malformed coordinates). No state is mutated.
	ErrInvalidInput = errors.New("invalid input")
)
