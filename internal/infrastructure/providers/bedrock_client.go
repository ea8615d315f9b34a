package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// anthropicVersion is the Bedrock dialect of the Anthropic messages API.
const anthropicVersion = "bedrock-2023-05-31"

// defaultMaxTokens bounds generations when the caller does not set a limit;
// the messages API requires an explicit max_tokens.
const defaultMaxTokens = 4096

// anthropicMessage is a single turn of the Anthropic messages payload.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicRequest is the InvokeModel body for Anthropic models on Bedrock.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

// anthropicResponse is the InvokeModel response body for Anthropic models.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// Text concatenates the text blocks of the response.
func (r *anthropicResponse) Text() string {
	var builder strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}

// bedrockInvoker is the subset of the Bedrock runtime client used here.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// bedrockAnthropicClient serves Anthropic models through AWS Bedrock.
type bedrockAnthropicClient struct {
	client bedrockInvoker
	model  string
	info   llm.ClientInfo
	logger logger.Logger
}

// NewBedrockAnthropicClient creates an llm.Client invoking an Anthropic model
// on AWS Bedrock with static credentials.
func NewBedrockAnthropicClient(ctx context.Context, settings *config.BedrockAnthropicSettings, log logger.Logger) (llm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(settings.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AWSAccessKey, settings.AWSSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &bedrockAnthropicClient{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  settings.Model,
		info: llm.ClientInfo{
			Provider: llm.ProviderAnthropic,
			Model:    settings.Model,
			Type:     llm.TypeBedrock,
		},
		logger: log,
	}, nil
}

// Run sends a system and user prompt and returns the model's text reply.
func (c *bedrockAnthropicClient) Run(ctx context.Context, systemPrompt, userPrompt string) (*llm.RunResult, error) {
	response, err := c.invoke(ctx, systemPrompt, userPrompt, defaultMaxTokens)
	if err != nil {
		return nil, err
	}

	return &llm.RunResult{
		Text: response.Text(),
		Usage: llm.Usage{
			InputTokens:  response.Usage.InputTokens,
			OutputTokens: response.Usage.OutputTokens,
		},
	}, nil
}

// RunStructured embeds the schema in the system prompt, extracts the JSON
// object from the reply and validates it. Bedrock's InvokeModel has no native
// structured output support for Anthropic models.
func (c *bedrockAnthropicClient) RunStructured(ctx context.Context, systemPrompt, userPrompt string, outputSchema *schema.Schema, maxTokens int) (*llm.StructuredResult, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	definition, err := json.Marshal(outputSchema.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output schema: %w", err)
	}

	instructedSystem := fmt.Sprintf(
		"%s\n\nRespond with a single JSON object conforming to this JSON Schema and nothing else:\n%s",
		systemPrompt, definition)

	response, err := c.invoke(ctx, instructedSystem, userPrompt, maxTokens)
	if err != nil {
		return nil, err
	}

	payload, err := extractJSONObject(response.Text())
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode structured reply: %w", err)
	}

	validated, err := outputSchema.Validate(decoded)
	if err != nil {
		return nil, fmt.Errorf("structured reply did not conform to schema: %w", err)
	}

	return &llm.StructuredResult{
		Value: validated,
		Usage: llm.Usage{
			InputTokens:  response.Usage.InputTokens,
			OutputTokens: response.Usage.OutputTokens,
		},
	}, nil
}

// Info describes the client for the clients listing.
func (c *bedrockAnthropicClient) Info() llm.ClientInfo {
	return c.info
}

func (c *bedrockAnthropicClient) invoke(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (*anthropicResponse, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model request: %w", err)
	}

	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	var response anthropicResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}

	return &response, nil
}

// extractJSONObject returns the outermost JSON object of a text reply.
// Models occasionally wrap JSON in prose or code fences.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("reply contains no JSON object")
	}
	return text[start : end+1], nil
}
