package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yardline/service-rental/internal/domain"
)

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": message}})
}

// Paginated writes a 200 response with items plus pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Error maps a domain error to its HTTP status. Unknown errors become an
// opaque 500 so internals never leak to clients.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "internal server error"}})
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeConflict, domain.CodeInvalidState, domain.CodeConcurrency:
		status = http.StatusConflict
	case domain.CodeInsufficientCoverage:
		status = http.StatusUnprocessableEntity
	case domain.CodeForbidden:
		status = http.StatusForbidden
	}

	body := gin.H{"code": string(de.Code), "message": de.Message}
	if len(de.Details) > 0 {
		body["details"] = de.Details
	}
	c.JSON(status, gin.H{"error": body})
}
