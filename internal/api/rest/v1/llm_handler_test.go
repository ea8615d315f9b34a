//go:build unit
// +build unit

package v1

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/schema"
)

func newLLMTestContext(t *testing.T, method, url, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	var req *http.Request
	if len(body) > 0 {
		req, _ = http.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestLLMHandler_Run_Success(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("Run", mock.Anything, "my-client", &llm.PromptParams{
			SystemPrompt: "You are helpful.",
			UserPrompt:   "Say hi.",
		}).
		Return("hi", nil)

	requestBody := `{"system_prompt": "You are helpful.", "user_prompt": "Say hi."}`
	c, w := newLLMTestContext(t, "POST", "/llm/run?id=my-client", requestBody)

	handler.Run(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": "hi"}`, w.Body.String())
	mockPromptService.AssertExpectations(t)
}

func TestLLMHandler_Run_MissingClientID(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	requestBody := `{"system_prompt": "system", "user_prompt": "user"}`
	c, w := newLLMTestContext(t, "POST", "/llm/run", requestBody)

	handler.Run(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "id")
	mockPromptService.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestLLMHandler_Run_MissingPrompt(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	requestBody := `{"system_prompt": "system"}`
	c, w := newLLMTestContext(t, "POST", "/llm/run?id=my-client", requestBody)

	handler.Run(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	mockPromptService.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestLLMHandler_Run_UnknownClient(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("Run", mock.Anything, "missing", mock.Anything).
		Return(nil, llm.ErrClientNotFound)

	requestBody := `{"system_prompt": "system", "user_prompt": "user"}`
	c, w := newLLMTestContext(t, "POST", "/llm/run?id=missing", requestBody)

	handler.Run(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "client not found")
}

func TestLLMHandler_Run_ProviderError(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("Run", mock.Anything, "my-client", mock.Anything).
		Return(nil, errors.New("rate limited"))

	requestBody := `{"system_prompt": "system", "user_prompt": "user"}`
	c, w := newLLMTestContext(t, "POST", "/llm/run?id=my-client", requestBody)

	handler.Run(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "rate limited")
}

func TestLLMHandler_RunInstructor_Success(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("RunInstructor", mock.Anything, "my-client", mock.MatchedBy(func(params *llm.InstructorParams) bool {
			return params.SystemPrompt == "system" && params.MaxTokens == 512 && params.ResponseModel != nil
		})).
		Return(map[string]any{"answer": "42"}, nil)

	requestBody := `{
		"system_prompt": "system",
		"user_prompt": "user",
		"response_model": {"type": "object", "properties": {"answer": {"type": "string"}}, "required": ["answer"]},
		"max_tokens": 512
	}`
	c, w := newLLMTestContext(t, "POST", "/llm/instructor?id=my-client", requestBody)

	handler.RunInstructor(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": {"answer": "42"}}`, w.Body.String())
	mockPromptService.AssertExpectations(t)
}

func TestLLMHandler_RunInstructor_MissingResponseModel(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	requestBody := `{"system_prompt": "system", "user_prompt": "user"}`
	c, w := newLLMTestContext(t, "POST", "/llm/instructor?id=my-client", requestBody)

	handler.RunInstructor(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	mockPromptService.AssertNotCalled(t, "RunInstructor", mock.Anything, mock.Anything, mock.Anything)
}

func TestLLMHandler_RunInstructor_InvalidSchema(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("RunInstructor", mock.Anything, "my-client", mock.Anything).
		Return(nil, schema.ErrInvalidSchema)

	requestBody := `{"system_prompt": "system", "user_prompt": "user", "response_model": {"type": "string"}}`
	c, w := newLLMTestContext(t, "POST", "/llm/instructor?id=my-client", requestBody)

	handler.RunInstructor(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLLMHandler_ChainOfVerification_Success(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("ChainOfVerification", mock.Anything, "my-client", mock.MatchedBy(func(params *llm.VerificationParams) bool {
			return len(params.Statements) == 1 &&
				params.MaxVerifications == 5 &&
				params.ErrorOnIterationLimit
		})).
		Return(map[string]any{"answer": "Paris"}, nil)

	requestBody := `{
		"system_prompt": "system",
		"user_prompt": "user",
		"response_model": {"type": "object", "properties": {"answer": {"type": "string"}}, "required": ["answer"]},
		"statements": ["The answer names a city."],
		"max_verifications": 5,
		"error_on_iteration_limit": true
	}`
	c, w := newLLMTestContext(t, "POST", "/llm/cov?id=my-client", requestBody)

	handler.ChainOfVerification(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": {"answer": "Paris"}}`, w.Body.String())
	mockPromptService.AssertExpectations(t)
}

func TestLLMHandler_ChainOfVerification_NoStatements(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	requestBody := `{
		"system_prompt": "system",
		"user_prompt": "user",
		"response_model": {"type": "object", "properties": {}, "required": []}
	}`
	c, w := newLLMTestContext(t, "POST", "/llm/cov?id=my-client", requestBody)

	handler.ChainOfVerification(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "statements")
	mockPromptService.AssertNotCalled(t, "ChainOfVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestLLMHandler_ChainOfVerification_IterationLimit(t *testing.T) {
	mockPromptService := new(MockPromptService)
	handler := NewLLMHandler(mockPromptService)

	mockPromptService.
		On("ChainOfVerification", mock.Anything, "my-client", mock.Anything).
		Return(nil, errors.New("answer failed verification after 3 iteration(s)"))

	requestBody := `{
		"system_prompt": "system",
		"user_prompt": "user",
		"response_model": {"type": "object", "properties": {}, "required": []},
		"statements": ["statement"],
		"error_on_iteration_limit": true
	}`
	c, w := newLLMTestContext(t, "POST", "/llm/cov?id=my-client", requestBody)

	handler.ChainOfVerification(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed verification")
}
