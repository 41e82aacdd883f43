package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkarchive/internal/core/apperror"
	"linkarchive/pkg/records"
)

// MaxBodyBytes limits request bodies carrying record collections.
const MaxBodyBytes = 32 << 20

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindRecords reads a JSON object or array body, zstd-compressed when
// Content-Encoding says so.
func (h *BaseHandler) BindRecords(c *gin.Context) ([]records.Record, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("cannot read request body", err))
		return nil, false
	}

	list, err := records.Decode(body, c.GetHeader("Content-Encoding"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("invalid request body", err).WithDetail("error", err.Error()))
		return nil, false
	}
	return list, true
}

// Error registers the error on the Gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
