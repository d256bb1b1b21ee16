package domain

// ContextItem is one selected candidate plus its serialized summary. The
// summary is what gets handed to the generation prompt; size accounting
// is over summaries, not raw content.
type ContextItem struct {
	ScoredCandidate
	Stage   string
	Summary string
}

// AggregatedContext is the final deduplicated, size-bounded unit handed to
// the downstream generation component. It lives only for one request.
type AggregatedContext struct {
	Items          []ContextItem
	TotalSizeBytes int
	Truncated      bool

	// StageErrors maps stage name to its failed-query count, so the caller
	// can judge result quality. Degraded is set when one or more stages were
	// lost entirely, so a partial result is never presented as complete.
	StageErrors map[string]int
	Degraded    bool
}
