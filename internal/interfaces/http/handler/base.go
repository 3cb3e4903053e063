package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
	"github.com/dealerdesk/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.SuccessResponse(data))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.SuccessResponse(data))
}

// List sends a 200 response with data and pagination meta
func (h *BaseHandler) List(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.ListResponse(data, total, page, pageSize))
}

// BadRequest sends a 400 response for malformed input
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeBadRequest, err.Error()))
}

// HandleError maps service errors to HTTP responses. Domain errors carry
// their own code; a handful of sentinel and typed errors from the
// infrastructure layer are translated here.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.ErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var mappingErr *accounting.MappingMissingError
	if errors.As(err, &mappingErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse(dto.ErrCodeMappingMissing, mappingErr.Error()))
		return
	}

	var apiErr *accounting.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse(dto.ErrCodeProviderAPIFailure, apiErr.Error()))
		return
	}

	switch {
	case errors.Is(err, vehicle.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse(dto.ErrCodeNotFound, "Registration number not found in the vehicle registry"))
	case errors.Is(err, vehicle.ErrRegistryUnavailable):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse(dto.ErrCodeProviderAPIFailure, "Vehicle registry is unavailable"))
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(dto.ErrCodeInternalError, "Internal server error"))
	}
}

// companyID returns the authenticated company from the request context
func (h *BaseHandler) companyID(c *gin.Context) uuid.UUID {
	return middleware.GetCompanyID(c)
}

// parseIDParam parses a UUID path parameter, responding 400 on failure
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeBadRequest, "Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, responding 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeInvalidInput, err.Error()))
		return false
	}
	return true
}

// bindListQuery binds pagination query parameters, responding 400 on failure
func (h *BaseHandler) bindListQuery(c *gin.Context, target *dto.ListRequest) bool {
	if err := c.ShouldBindQuery(target); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeInvalidInput, err.Error()))
		return false
	}
	return true
}
