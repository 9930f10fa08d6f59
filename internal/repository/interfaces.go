package repository

import (
	"context"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// DatasetSource loads a complete dashboard dataset snapshot. The engine
// re-derives everything from the full snapshot; there is no incremental
// update path.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}
