package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"famtasks/internal/service"
)

// statusForCode maps a domain error code to an HTTP status. The domain layer
// never formats responses itself; this is the whole transport mapping.
func statusForCode(code service.Code) int {
	switch code {
	case service.CodeValidation, service.CodeInvalidStatus, service.CodeInvalidPriority,
		service.CodePastDueDate, service.CodeSubtaskCycle, service.CodeMaxSubtasks:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeTaskNotFound, service.CodeUserNotFound, service.CodeFamilyNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error as JSON, keeping the stable code in the
// body so clients can branch on it.
func respondError(c *gin.Context, err error) {
	var de *service.Error
	if errors.As(err, &de) {
		c.JSON(statusForCode(de.Code), gin.H{"code": string(de.Code), "error": de.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"code": string(service.CodeInternal), "error": "Internal server error"})
}
