package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/patisserie-shop/storefront/internal/domain/errors"
)

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	var rejected *domainErrors.RejectedError
	switch {
	case errors.As(err, &rejected):
		message := rejected.Reason
		if message == "" {
			message = "transition rejected"
		}
		c.JSON(http.StatusConflict, gin.H{"message": message})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrUnauthenticated):
		c.Status(http.StatusUnauthorized)
	case errors.Is(err, domainErrors.ErrUnauthorized):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrUnavailable):
		c.Status(http.StatusBadGateway)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
