package app

import (
	"context"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// clientService implements the llm.ClientService interface
type clientService struct {
	registry *llm.Registry
	logger   logger.Logger
}

// NewClientService creates a new clientService instance
func NewClientService(registry *llm.Registry, logger logger.Logger) (llm.ClientService, error) {
	return &clientService{
		registry: registry,
		logger:   logger,
	}, nil
}

// List returns the info of every configured client keyed by client id.
func (s *clientService) List(_ context.Context) (map[string]llm.ClientInfo, error) {
	return s.registry.Info(), nil
}
