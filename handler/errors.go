package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"libms/service"
)

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrAlreadyReturned):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
