package llm

import (
	"context"

	"github.com/childmindresearch/cloai-service/internal/domain/schema"
)

// Client is a single configured LLM provider binding.
type Client interface {
	// Run sends a system and user prompt and returns the model's text reply.
	Run(ctx context.Context, systemPrompt, userPrompt string) (*RunResult, error)

	// RunStructured sends a system and user prompt and returns a value
	// conforming to the given schema. maxTokens bounds the generation.
	RunStructured(ctx context.Context, systemPrompt, userPrompt string, outputSchema *schema.Schema, maxTokens int) (*StructuredResult, error)

	// Info describes the client for the clients listing.
	Info() ClientInfo
}

// PromptParams carries the prompts of a basic run.
type PromptParams struct {
	SystemPrompt string
	UserPrompt   string
}

// InstructorParams carries the prompts and response model of a structured run.
type InstructorParams struct {
	PromptParams
	ResponseModel any
	MaxTokens     int
}

// VerificationParams carries the parameters of a chain of verification run.
type VerificationParams struct {
	InstructorParams
	Statements            []string
	MaxVerifications      int
	CreateNewStatements   bool
	ErrorOnIterationLimit bool
}

// PromptService defines the operations exposed by the llm endpoints.
type PromptService interface {
	// Run executes a basic prompt against the client with the given id.
	Run(ctx context.Context, clientID string, params *PromptParams) (any, error)

	// RunInstructor executes a structured query constrained by the params'
	// response model schema.
	RunInstructor(ctx context.Context, clientID string, params *InstructorParams) (any, error)

	// ChainOfVerification runs a structured query, verifies the answer
	// against the verification statements and rewrites it until it passes
	// or the iteration limit is reached.
	ChainOfVerification(ctx context.Context, clientID string, params *VerificationParams) (any, error)
}

// ClientService exposes the configured clients for listing.
type ClientService interface {
	// List returns the info of every configured client keyed by client id.
	List(ctx context.Context) (map[string]ClientInfo, error)
}
