package usage

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Operation name constants recorded per invocation.
const (
	OperationRun        = "run"
	OperationInstructor = "instructor"
	OperationCov        = "cov"
)

// Status constants of a recorded invocation.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record entity describing a single LLM invocation.
type Record struct {
	ID              string `validate:"required,uuid4"`
	ClientID        string `validate:"required,min=1,max=255"`
	Operation       string `validate:"required,oneof=run instructor cov"`
	Provider        string `validate:"required"`
	Model           string `validate:"required"`
	InputTokens     int64  `validate:"min=0"`
	OutputTokens    int64  `validate:"min=0"`
	DurationMs      int64  `validate:"min=0"`
	Status          string `validate:"required,oneof=success error"`
	ErrorMessage    string
	DateTimeCreated time.Time `validate:"required"`
}

// Validate for validating Record struct
func (r *Record) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
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

// Query filters usage record listings.
type Query struct {
	ClientID        string `validate:"omitempty,max=255"`
	Operation       string `validate:"omitempty,oneof=run instructor cov"`
	Status          string `validate:"omitempty,oneof=success error"`
	DateTimeCreated time.Time

	Limit     int    `validate:"omitempty,min=1,max=1000"`
	Offset    int    `validate:"omitempty,min=0"`
	SortBy    string `validate:"omitempty,oneof=client_id operation status date_time_created duration_ms"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewQuery creates a Query with default pagination.
func NewQuery() *Query {
	return &Query{
		Limit:     100,
		Offset:    0,
		SortBy:    "date_time_created",
		SortOrder: "desc",
	}
}

// Validate for validating Query struct
func (q *Query) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
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
