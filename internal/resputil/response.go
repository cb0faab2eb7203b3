package resputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response documents the failure envelope for swagger. Success payloads keep
// the historical field layout (projects, comment, data, ...) at the top level
// next to the success flag, so handlers pass them as gin.H.
type Response[T any] struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
	Data    T         `json:"data,omitempty"`
}

func wrapSuccess(c *gin.Context, httpCode int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(httpCode, body)
}

// Success writes a 200 with success=true plus the given fields.
func Success(c *gin.Context, fields gin.H) {
	wrapSuccess(c, http.StatusOK, fields)
}

// Created writes a 201 with success=true plus the given fields.
func Created(c *gin.Context, fields gin.H) {
	wrapSuccess(c, http.StatusCreated, fields)
}

// Error writes a 500 failure envelope.
func Error(c *gin.Context, msg string, code ErrorCode) {
	HTTPError(c, http.StatusInternalServerError, msg, code)
}

// HTTPError writes a failure envelope with an explicit HTTP status.
func HTTPError(c *gin.Context, httpCode int, msg string, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"success": false,
		"message": msg,
		"code":    code,
	})
}
