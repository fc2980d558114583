package port

import (
	"context"

	"ragtour/internal/domain"
)

// Presenter receives each stage record between stages. A returned error
// aborts the running flow.
type Presenter interface {
	Present(ctx context.Context, rec domain.StageRecord) error
}
