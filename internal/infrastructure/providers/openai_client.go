package providers

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// openAIClient serves OpenAI-compatible chat completion APIs. It backs both
// the plain OpenAI and the Azure OpenAI client types.
type openAIClient struct {
	client openai.Client
	model  string
	info   llm.ClientInfo
	logger logger.Logger
}

// NewOpenAIClient creates an llm.Client talking to the OpenAI API, or any
// OpenAI-compatible endpoint when a base URL is configured.
func NewOpenAIClient(settings *config.OpenAISettings, log logger.Logger) (llm.Client, error) {
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}

	return &openAIClient{
		client: openai.NewClient(opts...),
		model:  settings.Model,
		info: llm.ClientInfo{
			Provider: llm.ProviderOpenAI,
			Model:    settings.Model,
			Type:     llm.TypeOpenAI,
		},
		logger: log,
	}, nil
}

// Run sends a system and user prompt and returns the model's text reply.
func (c *openAIClient) Run(ctx context.Context, systemPrompt, userPrompt string) (*llm.RunResult, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &llm.RunResult{
		Text: completion.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

// RunStructured requests a completion constrained to the output schema using
// the API's native JSON schema response format.
func (c *openAIClient) RunStructured(ctx context.Context, systemPrompt, userPrompt string, outputSchema *schema.Schema, maxTokens int) (*llm.StructuredResult, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   outputSchema.Name(),
					Schema: outputSchema.Definition(),
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("structured completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("structured completion returned no choices")
	}

	var decoded any
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode structured completion: %w", err)
	}

	validated, err := outputSchema.Validate(decoded)
	if err != nil {
		return nil, fmt.Errorf("structured completion did not conform to schema: %w", err)
	}

	return &llm.StructuredResult{
		Value: validated,
		Usage: llm.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

// Info describes the client for the clients listing.
func (c *openAIClient) Info() llm.ClientInfo {
	return c.info
}
