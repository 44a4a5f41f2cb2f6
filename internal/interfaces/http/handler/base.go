// Package handler holds the gin handlers of the HTTP API
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"github.com/paragon/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response for a body or query that could not be bound
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID, details))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Malformed request", requestID))
}

// HandleError converts a service error into a response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := dto.FromError(err, middleware.GetRequestID(c))
	c.JSON(status, body)
}

// bindID binds the :id path parameter
func (h *BaseHandler) bindID(c *gin.Context) (int64, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err)
		return 0, false
	}
	return req.ID, true
}
