package stage

import (
	"context"

	"github.com/supriyavikramsingh-sudo/sakhee-sub001/internal/domain"
)

// Embedder vectorizes query text (cache-backed in production wiring).
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher is the ANN index the stage retrieves from.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.Candidate, error)
}
