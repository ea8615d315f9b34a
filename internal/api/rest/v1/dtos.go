package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// PromptRequest represents the request body of a basic prompt run
type PromptRequest struct {
	SystemPrompt string `json:"system_prompt" validate:"required"`
	UserPrompt   string `json:"user_prompt" validate:"required"`
}

// Validate for validating PromptRequest struct
func (r *PromptRequest) Validate() error {
	return validateStruct(r)
}

// InstructorRequest represents the request body of a structured prompt run
type InstructorRequest struct {
	SystemPrompt  string `json:"system_prompt" validate:"required"`
	UserPrompt    string `json:"user_prompt" validate:"required"`
	ResponseModel any    `json:"response_model" validate:"required"`
	MaxTokens     int    `json:"max_tokens" validate:"omitempty,min=1"`
}

// Validate for validating InstructorRequest struct
func (r *InstructorRequest) Validate() error {
	return validateStruct(r)
}

// ChainOfVerificationRequest represents the request body of a chain of
// verification run
type ChainOfVerificationRequest struct {
	SystemPrompt          string   `json:"system_prompt" validate:"required"`
	UserPrompt            string   `json:"user_prompt" validate:"required"`
	ResponseModel         any      `json:"response_model" validate:"required"`
	Statements            []string `json:"statements"`
	MaxVerifications      int      `json:"max_verifications" validate:"omitempty,min=1"`
	CreateNewStatements   bool     `json:"create_new_statements"`
	ErrorOnIterationLimit bool     `json:"error_on_iteration_limit"`
	MaxTokens             int      `json:"max_tokens" validate:"omitempty,min=1"`
}

// Validate for validating ChainOfVerificationRequest struct
func (r *ChainOfVerificationRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if len(r.Statements) == 0 && !r.CreateNewStatements {
		return errors.New("statements must not be empty unless create_new_statements is set")
	}
	return nil
}

// LLMResponse wraps the result of an llm operation
type LLMResponse struct {
	Result any `json:"result"`
}

// ClientInfoResponse describes a configured client
type ClientInfoResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Type     string `json:"type"`
}

// AvailableClientsResponse lists the configured clients keyed by client id
type AvailableClientsResponse struct {
	Clients map[string]ClientInfoResponse `json:"clients"`
}

// UsageRecordResponse describes a recorded llm invocation
type UsageRecordResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	Operation       string    `json:"operation"`
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	InputTokens     int64     `json:"input_tokens"`
	OutputTokens    int64     `json:"output_tokens"`
	DurationMs      int64     `json:"duration_ms"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	DateTimeCreated time.Time `json:"date_time_created"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse contains the error message of a failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse contains an informational message
type InfoResponse struct {
	Message string `json:"message"`
}

func validateStruct(request any) error {
	validate := validator.New()

	err := validate.Struct(request)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
