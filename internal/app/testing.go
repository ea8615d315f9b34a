//go:build integration
// +build integration

package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/persistence"
	"github.com/childmindresearch/cloai-service/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// Test constants matching the persistence test fixtures
const (
	TestClientID = persistence.TestClientID
	TestModel    = persistence.TestModel
)

// scriptedClient replies with canned results so service integration tests
// run without a provider backend. Structured replies are consumed in order.
type scriptedClient struct {
	info       llm.ClientInfo
	text       string
	structured []any
}

func (c *scriptedClient) Run(_ context.Context, _, _ string) (*llm.RunResult, error) {
	return &llm.RunResult{
		Text:  c.text,
		Usage: llm.Usage{InputTokens: 128, OutputTokens: 64},
	}, nil
}

func (c *scriptedClient) RunStructured(_ context.Context, _, _ string, _ *schema.Schema, _ int) (*llm.StructuredResult, error) {
	if len(c.structured) == 0 {
		return nil, fmt.Errorf("scripted client has no structured replies left")
	}
	value := c.structured[0]
	c.structured = c.structured[1:]
	return &llm.StructuredResult{
		Value: value,
		Usage: llm.Usage{InputTokens: 128, OutputTokens: 64},
	}, nil
}

func (c *scriptedClient) Info() llm.ClientInfo {
	return c.info
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	PromptService        llm.PromptService
	ClientService        llm.ClientService
	UsageMetadataService usage.MetadataService

	// Infrastructure
	Client    *scriptedClient
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	// Setup database
	dbContext := persistence.SetupTestDB(t, dbType)

	client := &scriptedClient{
		info: llm.ClientInfo{
			Provider: llm.ProviderOpenAI,
			Model:    TestModel,
			Type:     llm.TypeOpenAI,
		},
		text: "canned reply",
	}
	registry := llm.NewRegistry(map[string]llm.Client{TestClientID: client})

	promptService, err := NewPromptService(registry, dbContext.UsageRepo, logger)
	require.NoError(t, err, "Failed to create PromptService")

	clientService, err := NewClientService(registry, logger)
	require.NoError(t, err, "Failed to create ClientService")

	usageMetadataService, err := NewUsageMetadataService(dbContext.UsageRepo, logger)
	require.NoError(t, err, "Failed to create UsageMetadataService")

	return &TestServices{
		PromptService:        promptService,
		ClientService:        clientService,
		UsageMetadataService: usageMetadataService,
		Client:               client,
		DBContext:            dbContext,
	}
}
