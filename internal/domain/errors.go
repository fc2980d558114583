package domain

import "errors"

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmptyStore        = errors.New("vector store is empty: ingestion required first")
	ErrEmptyQuery        = errors.New("query is empty")
	ErrUnresolvedFixture = errors.New("fixture is malformed")
	ErrFlowInProgress    = errors.New("another flow is already running")
	ErrNoSession         = errors.New("no completed query flow")
)
