package domain

import "context"

// IndexSearcher is the contract to the external ANN index. The index is
// read-only during a request and safely concurrent; no local locking is
// needed around it.
type IndexSearcher interface {
	// Search returns up to k candidates most similar to the query vector,
	// with Similarity in [0,1] as reported by the index.
	Search(ctx context.Context, vector []float32, k int) ([]Candidate, error)
}
