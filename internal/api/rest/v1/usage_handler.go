package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/pkg/strutil"
)

// UsageHandler defines the interface for handling usage record operations
type UsageHandler interface {
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
}

// usageHandler struct holds the services
type usageHandler struct {
	usageMetadataService usage.MetadataService
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(usageMetadataService usage.MetadataService) UsageHandler {
	return &usageHandler{
		usageMetadataService: usageMetadataService,
	}
}

// ListMetadata handles the GET request to list usage records with optional query parameters
// @Summary List usage records based on query parameters
// @Description Fetch recorded llm invocations filtered by client, operation, status and creation date, with pagination and sorting options.
// @Tags Usage
// @Accept json
// @Produce json
// @Param clientId query string false "Client ID"
// @Param operation query string false "Operation (run/instructor/cov)"
// @Param status query string false "Status (success/error)"
// @Param dateTimeCreated query string false "Record Creation Date (RFC3339)"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "Sort by a specific field"
// @Param sortOrder query string false "Sort order (asc/desc)"
// @Success 200 {array} UsageRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /usage [get]
func (handler *usageHandler) ListMetadata(ctx *gin.Context) {
	query := usage.NewQuery()

	if clientID := ctx.Query("clientId"); len(clientID) > 0 {
		query.ClientID = clientID
	}

	if operation := ctx.Query("operation"); len(operation) > 0 {
		query.Operation = operation
	}

	if status := ctx.Query("status"); len(status) > 0 {
		query.Status = status
	}

	if dateTimeCreated := ctx.Query("dateTimeCreated"); len(dateTimeCreated) > 0 {
		parsedTime, err := time.Parse(time.RFC3339, dateTimeCreated)
		if err == nil {
			query.DateTimeCreated = parsedTime
		}
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		query.Limit = strutil.ConvertToInt(limit)
	}

	if offset := ctx.Query("offset"); len(offset) > 0 {
		query.Offset = strutil.ConvertToInt(offset)
	}

	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}

	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	records, err := handler.usageMetadataService.List(ctx, query)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("list query failed: %v", err.Error())
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}

	var listResponse = []UsageRecordResponse{}
	for _, record := range records {
		listResponse = append(listResponse, newUsageRecordResponse(record))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID handles the GET request to retrieve a usage record by ID
// @Summary Retrieve a usage record by ID
// @Description Fetch a single recorded llm invocation by ID.
// @Tags Usage
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} UsageRecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /usage/{id} [get]
func (handler *usageHandler) GetMetadataByID(ctx *gin.Context) {
	recordID := ctx.Param("id")

	record, err := handler.usageMetadataService.GetByID(ctx, recordID)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("usage record with id %s not found", recordID)
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, newUsageRecordResponse(record))
}

func newUsageRecordResponse(record *usage.Record) UsageRecordResponse {
	return UsageRecordResponse{
		ID:              record.ID,
		ClientID:        record.ClientID,
		Operation:       record.Operation,
		Provider:        record.Provider,
		Model:           record.Model,
		InputTokens:     record.InputTokens,
		OutputTokens:    record.OutputTokens,
		DurationMs:      record.DurationMs,
		Status:          record.Status,
		ErrorMessage:    record.ErrorMessage,
		DateTimeCreated: record.DateTimeCreated,
	}
}
