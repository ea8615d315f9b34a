package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler defines the interface for handling health checks
type HealthHandler interface {
	Check(ctx *gin.Context)
}

type healthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() HealthHandler {
	return &healthHandler{}
}

// Check handles the GET request to report service liveness
// @Summary Report service liveness
// @Description Returns a healthy status when the service accepts requests.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (handler *healthHandler) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}
