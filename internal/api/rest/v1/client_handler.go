package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/childmindresearch/cloai-service/internal/domain/llm"
)

// ClientHandler defines the interface for handling client listing operations
type ClientHandler interface {
	List(ctx *gin.Context)
}

// clientHandler struct holds the services
type clientHandler struct {
	clientService llm.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService llm.ClientService) ClientHandler {
	return &clientHandler{
		clientService: clientService,
	}
}

// List handles the GET request to list the configured clients
// @Summary List the configured clients
// @Description Fetch the provider, model and type of every configured client keyed by client id.
// @Tags Client
// @Accept json
// @Produce json
// @Success 200 {object} AvailableClientsResponse
// @Failure 500 {object} ErrorResponse
// @Router /clients [get]
func (handler *clientHandler) List(ctx *gin.Context) {
	infos, err := handler.clientService.List(ctx)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error listing clients: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	clients := make(map[string]ClientInfoResponse, len(infos))
	for id, info := range infos {
		clients[id] = ClientInfoResponse{
			Provider: info.Provider,
			Model:    info.Model,
			Type:     info.Type,
		}
	}

	ctx.JSON(http.StatusOK, AvailableClientsResponse{Clients: clients})
}
