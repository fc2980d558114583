package port

import "ragtour/internal/domain"

// LLM produces the answer text for a query.
type LLM interface {
	// Generate returns the answer for the query.
	Generate(query string) string

	// ModelName returns the name of the model.
	ModelName() string
}

// Evaluator scores a generated answer for display.
type Evaluator interface {
	Evaluate() domain.Evaluation
}
