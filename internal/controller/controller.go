// Package controller holds what the route controllers share: mapping service
// errors to responses and parsing path ids.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidForm), errors.Is(err, service.ErrUnknownChallengeType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Server errors are logged
// and their details withheld.
func RespondError(c *gin.Context, err error, message string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
		return
	}
	log.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}

// RespondBindError answers a request whose body failed to bind.
func RespondBindError(c *gin.Context, err error) {
	log.Warn().Err(err).Str("path", c.FullPath()).Msg("Failed to bind request")
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
