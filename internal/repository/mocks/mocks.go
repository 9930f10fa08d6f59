package mocks

import (
	"context"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
	"github.com/stretchr/testify/mock"
)

// DatasetSource is a mock for repository.DatasetSource.
type DatasetSource struct {
	mock.Mock
}

func (m *DatasetSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	args := m.Called(ctx)
	if d, ok := args.Get(0).(*dataset.Dataset); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
