//go:build unit
// +build unit

package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
)

func TestClientHandler_List_Success(t *testing.T) {
	mockClientService := new(MockClientService)
	handler := NewClientHandler(mockClientService)

	mockClientService.
		On("List", mock.Anything).
		Return(map[string]llm.ClientInfo{
			"gpt": {Provider: llm.ProviderOpenAI, Model: "gpt-4o", Type: llm.TypeOpenAI},
			"sonnet": {
				Provider: llm.ProviderAnthropic,
				Model:    "anthropic.claude-3-5-sonnet-20241022-v2:0",
				Type:     llm.TypeBedrock,
			},
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/clients", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gpt-4o")
	assert.Contains(t, w.Body.String(), "Anthropic")
	mockClientService.AssertExpectations(t)
}

func TestClientHandler_List_Empty(t *testing.T) {
	mockClientService := new(MockClientService)
	handler := NewClientHandler(mockClientService)

	mockClientService.
		On("List", mock.Anything).
		Return(map[string]llm.ClientInfo{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/clients", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clients": {}}`, w.Body.String())
}

func TestClientHandler_List_Error(t *testing.T) {
	mockClientService := new(MockClientService)
	handler := NewClientHandler(mockClientService)

	mockClientService.
		On("List", mock.Anything).
		Return(nil, errors.New("boom"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/clients", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error listing clients")
}
