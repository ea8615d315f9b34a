//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
)

// MockPromptService is a mock implementation of PromptService
type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) Run(ctx context.Context, clientID string, params *llm.PromptParams) (any, error) {
	args := m.Called(ctx, clientID, params)
	return args.Get(0), args.Error(1)
}

func (m *MockPromptService) RunInstructor(ctx context.Context, clientID string, params *llm.InstructorParams) (any, error) {
	args := m.Called(ctx, clientID, params)
	return args.Get(0), args.Error(1)
}

func (m *MockPromptService) ChainOfVerification(ctx context.Context, clientID string, params *llm.VerificationParams) (any, error) {
	args := m.Called(ctx, clientID, params)
	return args.Get(0), args.Error(1)
}

// MockClientService is a mock implementation of ClientService
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) List(ctx context.Context) (map[string]llm.ClientInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]llm.ClientInfo), args.Error(1)
}

// MockUsageMetadataService is a mock implementation of usage.MetadataService
type MockUsageMetadataService struct {
	mock.Mock
}

func (m *MockUsageMetadataService) List(ctx context.Context, query *usage.Query) ([]*usage.Record, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usage.Record), args.Error(1)
}

func (m *MockUsageMetadataService) GetByID(ctx context.Context, recordID string) (*usage.Record, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usage.Record), args.Error(1)
}
