package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	promptService llm.PromptService,
	clientService llm.ClientService,
	usageMetadataService usage.MetadataService) {

	v1 := r.Group(BasePath) // lookup in version file

	// Health Routes
	healthHandler := NewHealthHandler()
	v1.GET("/health", healthHandler.Check)

	// Client Routes
	clientHandler := NewClientHandler(clientService)
	v1.GET("/clients", clientHandler.List)

	// LLM Routes
	llmHandler := NewLLMHandler(promptService)
	v1.POST("/llm/run", llmHandler.Run)
	v1.POST("/llm/instructor", llmHandler.RunInstructor)
	v1.POST("/llm/cov", llmHandler.ChainOfVerification)

	// Usage Routes
	usageHandler := NewUsageHandler(usageMetadataService)
	v1.GET("/usage", usageHandler.ListMetadata)
	v1.GET("/usage/:id", usageHandler.GetMetadataByID)
}
