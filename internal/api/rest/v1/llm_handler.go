package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
)

// LLMHandler defines the interface for handling llm operations
type LLMHandler interface {
	Run(ctx *gin.Context)
	RunInstructor(ctx *gin.Context)
	ChainOfVerification(ctx *gin.Context)
}

// llmHandler struct holds the services
type llmHandler struct {
	promptService llm.PromptService
}

// NewLLMHandler creates a new LLMHandler
func NewLLMHandler(promptService llm.PromptService) LLMHandler {
	return &llmHandler{
		promptService: promptService,
	}
}

// Run handles the POST request to execute a basic prompt
// @Summary Run a prompt against a configured client
// @Description Send a system and user prompt to the client selected by the id query parameter and return the model's text reply.
// @Tags LLM
// @Accept json
// @Produce json
// @Param id query string true "Client ID"
// @Param requestBody body PromptRequest true "Prompt Data"
// @Success 200 {object} LLMResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /llm/run [post]
func (handler *llmHandler) Run(ctx *gin.Context) {
	clientID, ok := requireClientID(ctx)
	if !ok {
		return
	}

	var request PromptRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid prompt data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	result, err := handler.promptService.Run(ctx, clientID, &llm.PromptParams{
		SystemPrompt: request.SystemPrompt,
		UserPrompt:   request.UserPrompt,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, LLMResponse{Result: result})
}

// RunInstructor handles the POST request to execute a structured prompt
// @Summary Run a structured prompt against a configured client
// @Description Send a prompt together with a restricted JSON Schema response model and return a reply conforming to it.
// @Tags LLM
// @Accept json
// @Produce json
// @Param id query string true "Client ID"
// @Param requestBody body InstructorRequest true "Structured Prompt Data"
// @Success 200 {object} LLMResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /llm/instructor [post]
func (handler *llmHandler) RunInstructor(ctx *gin.Context) {
	clientID, ok := requireClientID(ctx)
	if !ok {
		return
	}

	var request InstructorRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid prompt data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	result, err := handler.promptService.RunInstructor(ctx, clientID, &llm.InstructorParams{
		PromptParams: llm.PromptParams{
			SystemPrompt: request.SystemPrompt,
			UserPrompt:   request.UserPrompt,
		},
		ResponseModel: request.ResponseModel,
		MaxTokens:     request.MaxTokens,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, LLMResponse{Result: result})
}

// ChainOfVerification handles the POST request to execute a verified prompt
// @Summary Run a chain of verification prompt against a configured client
// @Description Run a structured prompt, verify the answer against verification statements and rewrite it until every statement passes or the iteration limit is reached.
// @Tags LLM
// @Accept json
// @Produce json
// @Param id query string true "Client ID"
// @Param requestBody body ChainOfVerificationRequest true "Chain of Verification Data"
// @Success 200 {object} LLMResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /llm/cov [post]
func (handler *llmHandler) ChainOfVerification(ctx *gin.Context) {
	clientID, ok := requireClientID(ctx)
	if !ok {
		return
	}

	var request ChainOfVerificationRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid prompt data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	result, err := handler.promptService.ChainOfVerification(ctx, clientID, &llm.VerificationParams{
		InstructorParams: llm.InstructorParams{
			PromptParams: llm.PromptParams{
				SystemPrompt: request.SystemPrompt,
				UserPrompt:   request.UserPrompt,
			},
			ResponseModel: request.ResponseModel,
			MaxTokens:     request.MaxTokens,
		},
		Statements:            request.Statements,
		MaxVerifications:      request.MaxVerifications,
		CreateNewStatements:   request.CreateNewStatements,
		ErrorOnIterationLimit: request.ErrorOnIterationLimit,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, LLMResponse{Result: result})
}

// requireClientID reads the client id from the id query parameter.
func requireClientID(ctx *gin.Context) (string, bool) {
	clientID := ctx.Query("id")
	if len(clientID) == 0 {
		var errorResponse ErrorResponse
		errorResponse.Message = "missing required query parameter: id"
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return "", false
	}
	return clientID, true
}

// respondWithServiceError maps prompt service errors to HTTP statuses.
func respondWithServiceError(ctx *gin.Context, err error) {
	var errorResponse ErrorResponse
	errorResponse.Message = err.Error()

	switch {
	case errors.Is(err, llm.ErrClientNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse)
	case errors.Is(err, schema.ErrInvalidSchema):
		ctx.JSON(http.StatusBadRequest, errorResponse)
	default:
		ctx.JSON(http.StatusInternalServerError, errorResponse)
	}
}
