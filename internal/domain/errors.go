package domain

import "errors"

var (
	// ErrInvalidConstraints signals a malformed constraint set. Fatal to the
	// request: continuing would silently produce wrong rankings.
	ErrInvalidConstraints = errors.New("invalid constraint set")
	// ErrInvalidWeights signals a ranking weight vector that does not sum to 1.
	ErrInvalidWeights = errors.New("invalid weight vector")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Recoverable: the affected query contributes zero candidates.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals an embedding provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrIndexUnavailable signals an ANN index call failure.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrStageFailed signals that every query in a stage failed. The stage
	// contributes an empty candidate set; the request proceeds.
	ErrStageFailed = errors.New("all stage queries failed")
)
