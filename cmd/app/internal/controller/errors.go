package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/service"
)

var errBadID = errors.New("invalid id")

// respondError maps service errors to an HTTP status. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, errBadID):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, message = http.StatusForbidden, service.ErrUnauthorized.Error()
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, service.ErrNotFound.Error()
	case errors.Is(err, service.ErrUsernameTaken):
		status, message = http.StatusConflict, service.ErrUsernameTaken.Error()
	case errors.Is(err, service.ErrAIUnavailable):
		status, message = http.StatusServiceUnavailable, service.ErrAIUnavailable.Error()
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}
