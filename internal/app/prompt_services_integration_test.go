//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
)

func TestPromptService_Run_RecordsUsage(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	result, err := services.PromptService.Run(ctx, TestClientID, &llm.PromptParams{
		SystemPrompt: "You are helpful.",
		UserPrompt:   "Say hi.",
	})
	require.NoError(t, err)
	assert.Equal(t, "canned reply", result)

	records, err := services.UsageMetadataService.List(ctx, usage.NewQuery())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, TestClientID, records[0].ClientID)
	assert.Equal(t, usage.OperationRun, records[0].Operation)
	assert.Equal(t, usage.StatusSuccess, records[0].Status)
	assert.Equal(t, int64(128), records[0].InputTokens)
	assert.Equal(t, int64(64), records[0].OutputTokens)
}

func TestPromptService_RunInstructor_RecordsUsage(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	answer := map[string]any{"answer": "42"}
	services.Client.structured = []any{answer}

	result, err := services.PromptService.RunInstructor(ctx, TestClientID, &llm.InstructorParams{
		PromptParams: llm.PromptParams{SystemPrompt: "system", UserPrompt: "user"},
		ResponseModel: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer": map[string]any{"type": "string"},
			},
			"required": []any{"answer"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, answer, result)

	records, err := services.UsageMetadataService.List(ctx, usage.NewQuery())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, usage.OperationInstructor, records[0].Operation)
}

func TestPromptService_ChainOfVerification_RecordsAggregatedUsage(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	answer := map[string]any{"answer": "Paris"}
	services.Client.structured = []any{
		answer,
		map[string]any{"verdicts": []any{
			map[string]any{"statement": "The answer names a city.", "passed": true},
		}},
	}

	result, err := services.PromptService.ChainOfVerification(ctx, TestClientID, &llm.VerificationParams{
		InstructorParams: llm.InstructorParams{
			PromptParams: llm.PromptParams{SystemPrompt: "system", UserPrompt: "user"},
			ResponseModel: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"answer": map[string]any{"type": "string"},
				},
				"required": []any{"answer"},
			},
		},
		Statements: []string{"The answer names a city."},
	})
	require.NoError(t, err)
	assert.Equal(t, answer, result)

	records, err := services.UsageMetadataService.List(ctx, usage.NewQuery())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, usage.OperationCov, records[0].Operation)
	// two structured calls at 128/64 tokens each
	assert.Equal(t, int64(256), records[0].InputTokens)
	assert.Equal(t, int64(128), records[0].OutputTokens)
}

func TestClientService_List(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	clients, err := services.ClientService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	info, ok := clients[TestClientID]
	require.True(t, ok)
	assert.Equal(t, llm.ProviderOpenAI, info.Provider)
	assert.Equal(t, TestModel, info.Model)
	assert.Equal(t, llm.TypeOpenAI, info.Type)
}

func TestUsageMetadataService_GetByID(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.PromptService.Run(ctx, TestClientID, &llm.PromptParams{
		SystemPrompt: "system",
		UserPrompt:   "user",
	})
	require.NoError(t, err)

	records, err := services.UsageMetadataService.List(ctx, usage.NewQuery())
	require.NoError(t, err)
	require.Len(t, records, 1)

	record, err := services.UsageMetadataService.GetByID(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, record.ID)
}

func TestUsageMetadataService_GetByID_NotFound(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	record, err := services.UsageMetadataService.GetByID(context.Background(), "11111111-2222-4333-8444-555555555555")
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Contains(t, err.Error(), "not found")
}
