package api

import (
	"net/http"

	"cruise-booking/internal/domain/payment"
	reqdto "cruise-booking/internal/handler/dto/request"
	resdto "cruise-booking/internal/handler/dto/response"
	"cruise-booking/internal/usecase/commands"
	"cruise-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Initiate payment
// @Description Open a settlement attempt for a pending order
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.CreatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.PaymentInitiatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	p, err := h.paymentCommands.InitiatePayment(c.Request.Context(), orderID, payment.Method(req.Method))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromInitiatedPayment(p))
}

// @Summary Payment callback
// @Description Apply a signed settlement notification from the payment provider
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentCallbackRequest true "Provider notification"
// @Success 200 {object} resdto.CallbackAckResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.paymentCommands.HandleCallback(c.Request.Context(), req)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.CallbackAckResponse{
		PaymentNo: result.PaymentNo,
		Result:    "ok",
		Duplicate: result.Duplicate,
	})
}

// @Summary Poll payment
// @Description Ask the gateway for the payment outcome, settling it if resolved
// @Tags payments
// @Produce json
// @Param paymentNo path string true "Payment number"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Router /payments/{paymentNo}/poll [post]
func (h *PaymentHandler) Poll(c *gin.Context) {
	paymentNo := c.Param("paymentNo")
	if paymentNo == "" {
		abortBadRequest(c, errMissingPaymentNo, "Payment number is required")
		return
	}

	status, err := h.paymentCommands.PollPayment(c.Request.Context(), paymentNo)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentNo": paymentNo,
		"status":    status.String(),
	})
}

// @Summary Get payment
// @Description Get payment detail by payment number
// @Tags payments
// @Produce json
// @Param paymentNo path string true "Payment number"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Router /payments/{paymentNo} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentNo := c.Param("paymentNo")
	if paymentNo == "" {
		abortBadRequest(c, errMissingPaymentNo, "Payment number is required")
		return
	}

	view, err := h.paymentQueries.GetByPaymentNo(c.Request.Context(), paymentNo)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}
