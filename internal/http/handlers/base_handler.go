// README: Base handler utilities (JSON helpers, error mapping, role checks).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/http/middleware"
	"quickbite/internal/modules/assignment"
	"quickbite/internal/modules/cart"
	"quickbite/internal/modules/catalog"
	"quickbite/internal/modules/order"
	"quickbite/internal/modules/partner"
	"quickbite/internal/modules/payment"
	"quickbite/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrValidation),
		errors.Is(err, order.ErrMissingLocation),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, order.ErrMixedRestaurants),
		errors.Is(err, order.ErrRestaurantBlocked),
		errors.Is(err, cart.ErrValidation),
		errors.Is(err, catalog.ErrValidation),
		errors.Is(err, partner.ErrValidation),
		errors.Is(err, partner.ErrAddressNotFound):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, catalog.ErrFoodNotFound),
		errors.Is(err, partner.ErrNotFound),
		errors.Is(err, assignment.ErrPartnerNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrConflict),
		errors.Is(err, partner.ErrHasActiveOrder):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrNoPartnerAvailable):
		// Not a failure: the order keeps waiting for a partner.
		writeError(c, http.StatusAccepted, err.Error())
	case errors.Is(err, payment.ErrVerificationFailed):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// requireRole aborts with 403 unless the caller has one of the roles.
// Admin tokens pass every check.
func requireRole(c *gin.Context, roles ...string) bool {
	if middleware.CallerIsAdmin(c) {
		return true
	}
	role := middleware.CallerRole(c)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	writeError(c, http.StatusForbidden, "forbidden: role not allowed")
	return false
}

func requireAdmin(c *gin.Context) bool {
	if middleware.CallerIsAdmin(c) {
		return true
	}
	writeError(c, http.StatusForbidden, "forbidden: admin only")
	return false
}

func requester(c *gin.Context) order.Requester {
	return order.Requester{
		ID:      types.ID(middleware.CallerUID(c)),
		Role:    middleware.CallerRole(c),
		IsAdmin: middleware.CallerIsAdmin(c),
	}
}
