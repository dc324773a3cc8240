package api

import (
	"errors"
	"net/http"

	"cruise-booking/internal/handler/httperr"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

var errMissingPaymentNo = errs.New("payment number is required")

// abortDomainError translates usecase sentinels into HTTP responses. Every
// handler funnels its command errors through here so a given failure always
// looks the same on the wire.
func abortDomainError(c *gin.Context, err error) {
	var insufficient *commands.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient inventory", gin.H{
			"cabinTypeId": insufficient.CabinTypeID,
			"voyageId":    insufficient.VoyageID,
			"requested":   insufficient.Requested,
		})
		return
	}

	switch {
	case errors.Is(err, errs.ErrVoyageNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Voyage not found", nil)
	case errors.Is(err, errs.ErrCabinTypeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Cabin type not found", nil)
	case errors.Is(err, errs.ErrPriceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Price not found for cabin type", nil)
	case errors.Is(err, errs.ErrInventoryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Inventory not found", nil)
	case errors.Is(err, errs.ErrHoldNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Hold not found", nil)
	case errors.Is(err, errs.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
	case errors.Is(err, errs.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
	case errors.Is(err, errs.ErrVoyageNotOpen):
		httperr.AbortWithError(c, http.StatusConflict, err, "Voyage is not open for booking", nil)
	case errors.Is(err, errs.ErrInsufficientInventory):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient inventory", nil)
	case errors.Is(err, errs.ErrHoldExpired):
		httperr.AbortWithError(c, http.StatusConflict, err, "Hold has expired", nil)
	case errors.Is(err, errs.ErrHoldConsumed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Hold already consumed", nil)
	case errors.Is(err, errs.ErrOrderExpired):
		httperr.AbortWithError(c, http.StatusConflict, err, "Order has expired", nil)
	case errors.Is(err, errs.ErrInvalidStateTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Operation not allowed in current state", nil)
	case errors.Is(err, errs.ErrAmountMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment amount does not match order", nil)
	case errors.Is(err, errs.ErrInvalidSignature):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid callback signature", nil)
	case errors.Is(err, errs.ErrPaymentGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment provider unavailable", nil)
	case errors.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed", nil)
	case infra.IsKind(err, infra.KindNotFound):
		// Read-side repositories surface raw repository errors.
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}
