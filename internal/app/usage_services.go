package app

import (
	"context"
	"fmt"

	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// usageMetadataService implements the usage.MetadataService interface
type usageMetadataService struct {
	repo   usage.Repository
	logger logger.Logger
}

// NewUsageMetadataService creates a new usageMetadataService instance
func NewUsageMetadataService(repo usage.Repository, logger logger.Logger) (usage.MetadataService, error) {
	return &usageMetadataService{
		repo:   repo,
		logger: logger,
	}, nil
}

// List returns the usage records matching the query.
func (s *usageMetadataService) List(ctx context.Context, query *usage.Query) ([]*usage.Record, error) {
	records, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage records: %w", err)
	}
	return records, nil
}

// GetByID returns the usage record with the given id.
func (s *usageMetadataService) GetByID(ctx context.Context, id string) (*usage.Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve usage record: %w", err)
	}
	return record, nil
}
