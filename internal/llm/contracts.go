package llm

import "context"

// Candidate is a parsed name whose room-ness keyword heuristics could not decide.
type Candidate struct {
	Name string  `json:"name"`
	Area float64 `json:"area"`
}

// AmbiguousClassifier decides, for each candidate, whether it is a real room.
// The result must have the same length and order as the input. Implementations
// enforce their own latency bounds and retry policy.
type AmbiguousClassifier interface {
	ClassifyAmbiguous(ctx context.Context, candidates []Candidate) ([]bool, error)
}

// ClassifierFunc adapts a function to AmbiguousClassifier.
type ClassifierFunc func(ctx context.Context, candidates []Candidate) ([]bool, error)

func (f ClassifierFunc) ClassifyAmbiguous(ctx context.Context, candidates []Candidate) ([]bool, error) {
	return f(ctx, candidates)
}

// ClassifyResult is the JSON shape the remote classifier must return.
type ClassifyResult struct {
	IsRoom []bool `json:"is_room"`
}
