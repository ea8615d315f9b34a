package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// defaultMaxTokens bounds structured generations when the caller does not set a limit.
const defaultMaxTokens = 4096

// statementsSchema shapes the reply of verification statement generation.
var statementsSchema = map[string]any{
	"type":  "object",
	"title": "VerificationStatements",
	"properties": map[string]any{
		"statements": map[string]any{
			"type":        "array",
			"description": "Verification statements that a correct answer must satisfy",
			"items":       map[string]any{"type": "string"},
		},
	},
	"required": []any{"statements"},
}

// verdictsSchema shapes the reply of answer verification.
var verdictsSchema = map[string]any{
	"type":  "object",
	"title": "VerificationVerdicts",
	"properties": map[string]any{
		"verdicts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"statement": map[string]any{"type": "string"},
					"passed":    map[string]any{"type": "boolean"},
				},
				"required": []any{"statement", "passed"},
			},
		},
	},
	"required": []any{"verdicts"},
}

// promptService implements the llm.PromptService interface on top of the
// client registry. Every invocation is recorded through the usage repository.
type promptService struct {
	registry     *llm.Registry
	usageRepo    usage.Repository
	statementGen *schema.Schema
	verdictGen   *schema.Schema
	logger       logger.Logger
}

// NewPromptService creates a new promptService instance
func NewPromptService(registry *llm.Registry, usageRepo usage.Repository, logger logger.Logger) (llm.PromptService, error) {
	statementGen, err := schema.Compile(statementsSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile statements schema: %w", err)
	}

	verdictGen, err := schema.Compile(verdictsSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile verdicts schema: %w", err)
	}

	return &promptService{
		registry:     registry,
		usageRepo:    usageRepo,
		statementGen: statementGen,
		verdictGen:   verdictGen,
		logger:       logger,
	}, nil
}

// Run executes a basic prompt against the client with the given id.
func (s *promptService) Run(ctx context.Context, clientID string, params *llm.PromptParams) (any, error) {
	client, err := s.registry.Get(clientID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := client.Run(ctx, params.SystemPrompt, params.UserPrompt)
	if err != nil {
		s.record(ctx, clientID, client, usage.OperationRun, llm.Usage{}, started, err)
		return nil, err
	}

	s.record(ctx, clientID, client, usage.OperationRun, result.Usage, started, nil)
	return result.Text, nil
}

// RunInstructor executes a structured query constrained by the response model schema.
func (s *promptService) RunInstructor(ctx context.Context, clientID string, params *llm.InstructorParams) (any, error) {
	client, err := s.registry.Get(clientID)
	if err != nil {
		return nil, err
	}

	responseSchema, err := schema.Compile(params.ResponseModel)
	if err != nil {
		return nil, err
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	started := time.Now()
	result, err := client.RunStructured(ctx, params.SystemPrompt, params.UserPrompt, responseSchema, maxTokens)
	if err != nil {
		s.record(ctx, clientID, client, usage.OperationInstructor, llm.Usage{}, started, err)
		return nil, err
	}

	s.record(ctx, clientID, client, usage.OperationInstructor, result.Usage, started, nil)
	return result.Value, nil
}

// ChainOfVerification runs a structured query, verifies the answer against
// the verification statements and rewrites it until every statement passes
// or the iteration limit is reached.
func (s *promptService) ChainOfVerification(ctx context.Context, clientID string, params *llm.VerificationParams) (any, error) {
	client, err := s.registry.Get(clientID)
	if err != nil {
		return nil, err
	}

	responseSchema, err := schema.Compile(params.ResponseModel)
	if err != nil {
		return nil, err
	}

	statements := params.Statements
	if len(statements) == 0 && !params.CreateNewStatements {
		return nil, fmt.Errorf("chain of verification requires statements or create_new_statements")
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	maxVerifications := params.MaxVerifications
	if maxVerifications <= 0 {
		maxVerifications = 3
	}

	started := time.Now()
	var totalUsage llm.Usage

	value, err := s.runVerificationLoop(ctx, client, params, responseSchema, statements, maxTokens, maxVerifications, &totalUsage)
	if err != nil {
		s.record(ctx, clientID, client, usage.OperationCov, totalUsage, started, err)
		return nil, err
	}

	s.record(ctx, clientID, client, usage.OperationCov, totalUsage, started, nil)
	return value, nil
}

func (s *promptService) runVerificationLoop(
	ctx context.Context,
	client llm.Client,
	params *llm.VerificationParams,
	responseSchema *schema.Schema,
	statements []string,
	maxTokens, maxVerifications int,
	totalUsage *llm.Usage,
) (any, error) {
	if params.CreateNewStatements {
		generated, generationUsage, err := s.generateStatements(ctx, client, params, maxTokens)
		if err != nil {
			return nil, err
		}
		totalUsage.Add(generationUsage)
		statements = append(statements, generated...)
	}

	answer, err := client.RunStructured(ctx, params.SystemPrompt, params.UserPrompt, responseSchema, maxTokens)
	if err != nil {
		return nil, err
	}
	totalUsage.Add(answer.Usage)
	value := answer.Value

	for iteration := 0; iteration < maxVerifications; iteration++ {
		failed, verifyUsage, err := s.verifyAnswer(ctx, client, value, statements, maxTokens)
		if err != nil {
			return nil, err
		}
		totalUsage.Add(verifyUsage)

		if len(failed) == 0 {
			return value, nil
		}

		rewritten, err := s.rewriteAnswer(ctx, client, params, value, failed, responseSchema, maxTokens)
		if err != nil {
			return nil, err
		}
		totalUsage.Add(rewritten.Usage)
		value = rewritten.Value
	}

	if params.ErrorOnIterationLimit {
		return nil, fmt.Errorf("answer failed verification after %d iteration(s)", maxVerifications)
	}
	return value, nil
}

// generateStatements asks the model for verification statements fitting the prompt.
func (s *promptService) generateStatements(ctx context.Context, client llm.Client, params *llm.VerificationParams, maxTokens int) ([]string, llm.Usage, error) {
	result, err := client.RunStructured(ctx,
		"You write verification statements: short factual assertions that any correct answer to the given task must satisfy.",
		fmt.Sprintf("Task system prompt:\n%s\n\nTask user prompt:\n%s", params.SystemPrompt, params.UserPrompt),
		s.statementGen, maxTokens)
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("failed to generate verification statements: %w", err)
	}

	object, ok := result.Value.(map[string]any)
	if !ok {
		return nil, result.Usage, fmt.Errorf("unexpected statements reply shape")
	}

	var statements []string
	if rawStatements, ok := object["statements"].([]any); ok {
		for _, entry := range rawStatements {
			if statement, ok := entry.(string); ok && statement != "" {
				statements = append(statements, statement)
			}
		}
	}

	return statements, result.Usage, nil
}

// verifyAnswer checks the answer against every statement and returns the failed ones.
func (s *promptService) verifyAnswer(ctx context.Context, client llm.Client, answer any, statements []string, maxTokens int) ([]string, llm.Usage, error) {
	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("failed to marshal answer for verification: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString("Answer under review:\n")
	prompt.Write(answerJSON)
	prompt.WriteString("\n\nVerification statements:\n")
	for _, statement := range statements {
		prompt.WriteString("- ")
		prompt.WriteString(statement)
		prompt.WriteString("\n")
	}

	result, err := client.RunStructured(ctx,
		"You are a meticulous reviewer. For every verification statement, report whether the answer satisfies it.",
		prompt.String(), s.verdictGen, maxTokens)
	if err != nil {
		return nil, llm.Usage{}, fmt.Errorf("failed to verify answer: %w", err)
	}

	object, ok := result.Value.(map[string]any)
	if !ok {
		return nil, result.Usage, fmt.Errorf("unexpected verdicts reply shape")
	}

	var failed []string
	if verdicts, ok := object["verdicts"].([]any); ok {
		for _, entry := range verdicts {
			verdict, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			passed, _ := verdict["passed"].(bool)
			statement, _ := verdict["statement"].(string)
			if !passed {
				failed = append(failed, statement)
			}
		}
	}

	return failed, result.Usage, nil
}

// rewriteAnswer revises a failing answer so that it satisfies the failed statements.
func (s *promptService) rewriteAnswer(ctx context.Context, client llm.Client, params *llm.VerificationParams, answer any, failed []string, responseSchema *schema.Schema, maxTokens int) (*llm.StructuredResult, error) {
	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer for rewriting: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString(params.UserPrompt)
	prompt.WriteString("\n\nYour previous answer:\n")
	prompt.Write(answerJSON)
	prompt.WriteString("\n\nThe answer failed these verification checks:\n")
	for _, statement := range failed {
		prompt.WriteString("- ")
		prompt.WriteString(statement)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\nRevise the answer so that every check passes.")

	result, err := client.RunStructured(ctx, params.SystemPrompt, prompt.String(), responseSchema, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite answer: %w", err)
	}
	return result, nil
}

// record persists an invocation's usage. Recording is best effort: a storage
// failure must not fail the request that triggered it.
func (s *promptService) record(ctx context.Context, clientID string, client llm.Client, operation string, tokens llm.Usage, started time.Time, invocationErr error) {
	info := client.Info()

	status := usage.StatusSuccess
	errorMessage := ""
	if invocationErr != nil {
		status = usage.StatusError
		errorMessage = invocationErr.Error()
	}

	record := &usage.Record{
		ID:              uuid.New().String(),
		ClientID:        clientID,
		Operation:       operation,
		Provider:        info.Provider,
		Model:           info.Model,
		InputTokens:     tokens.InputTokens,
		OutputTokens:    tokens.OutputTokens,
		DurationMs:      time.Since(started).Milliseconds(),
		Status:          status,
		ErrorMessage:    errorMessage,
		DateTimeCreated: time.Now().UTC(),
	}

	if err := s.usageRepo.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to record usage for client ", clientID, ": ", err)
	}
}
