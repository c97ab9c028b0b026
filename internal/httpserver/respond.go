package httpserver

import (
	"errors"
	"net/http"

	"cvs-storefront/internal/domain"
	adminsvc "cvs-storefront/internal/service/admin"
	catalogsvc "cvs-storefront/internal/service/catalog"
	ordersvc "cvs-storefront/internal/service/order"
	"github.com/gin-gonic/gin"
)

// respondError translates service errors to HTTP statuses. Anything not
// recognized becomes a 500 without leaking the internal message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidContactInfo),
		errors.Is(err, domain.ErrInvalidPartnerPayload),
		errors.Is(err, ordersvc.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingPickupPoint):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, catalogsvc.ErrCategoryNotEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, adminsvc.ErrInvalidCredentials),
		errors.Is(err, adminsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
