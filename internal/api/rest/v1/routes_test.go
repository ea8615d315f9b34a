//go:build unit
// +build unit

package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
)

// TestSetupRoutes_RoutesRegistered verifies that routes are properly registered
func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	mockPromptService := new(MockPromptService)
	mockClientService := new(MockClientService)
	mockUsageMetadataService := new(MockUsageMetadataService)

	r := gin.Default()

	// Setup mocks to return nil
	mockPromptService.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockPromptService.On("RunInstructor", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockPromptService.On("ChainOfVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockClientService.On("List", mock.Anything).Return(map[string]llm.ClientInfo{}, nil)
	mockUsageMetadataService.On("List", mock.Anything, mock.Anything).Return([]*usage.Record{}, nil)
	mockUsageMetadataService.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

	SetupRoutes(r, mockPromptService, mockClientService, mockUsageMetadataService)

	// Verify routes are registered by testing they respond (even with errors)
	tests := []struct {
		method string
		url    string
	}{
		{"GET", "/v1/health"},
		{"GET", "/v1/clients"},
		{"POST", "/v1/llm/run"},
		{"POST", "/v1/llm/instructor"},
		{"POST", "/v1/llm/cov"},
		{"GET", "/v1/usage"},
		{"GET", "/v1/usage/abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// Just verify route exists (status != 404 for routes without path params)
			if tt.url == "/v1/usage/abc-123" {
				return
			}
			assert.NotEqual(t, http.StatusNotFound, w.Code, "Route should be registered")
		})
	}
}

func TestSetupRoutes_Health(t *testing.T) {
	mockPromptService := new(MockPromptService)
	mockClientService := new(MockClientService)
	mockUsageMetadataService := new(MockUsageMetadataService)

	r := gin.Default()
	SetupRoutes(r, mockPromptService, mockClientService, mockUsageMetadataService)

	req, _ := http.NewRequest("GET", "/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}
