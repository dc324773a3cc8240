package api

import (
	"net/http"
	"strconv"

	reqdto "cruise-booking/internal/handler/dto/request"
	resdto "cruise-booking/internal/handler/dto/response"
	"cruise-booking/internal/usecase/commands"
	"cruise-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Create order
// @Description Price the requested cabins, hold inventory and create an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 201 {object} resdto.OrderCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	userID, err := optionalUserID(c)
	if err != nil {
		abortBadRequest(c, err, "Invalid user ID format")
		return
	}

	o, err := h.orderCommands.CreateOrder(c.Request.Context(), req, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreatedOrder(o))
}

// @Summary Get order
// @Description Get order detail by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List orders, optionally filtered by status, order number or user
// @Tags orders
// @Produce json
// @Param status query string false "Order status"
// @Param order_no query string false "Order number"
// @Param user_id query string false "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := queries.OrderListFilter{
		Status:  c.Query("status"),
		OrderNo: c.Query("order_no"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			abortBadRequest(c, err, "Invalid user ID format")
			return
		}
		filter.UserID = &id
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.orderQueries.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	response := make([]*resdto.OrderListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromOrderListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Cancel order
// @Description Cancel an unpaid order and release its hold
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.CancelOrderRequest true "Cancel request"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	if err := h.orderCommands.CancelOrder(c.Request.Context(), id, req.Reason); err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Submit passengers
// @Description Attach the full passenger manifest to an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.SubmitPassengersRequest true "Passenger manifest"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/{id}/passengers [post]
func (h *OrderHandler) SubmitPassengers(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.SubmitPassengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	if err := h.orderCommands.SubmitPassengers(c.Request.Context(), id, req); err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Request refund
// @Description Request a refund for a paid or confirmed order before departure
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.RefundRequest true "Refund request"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/refund [post]
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	if err := h.orderCommands.RequestRefund(c.Request.Context(), id, req.Reason); err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Process refund
// @Description Move a requested refund into processing
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/refund/process [post]
func (h *OrderHandler) ProcessRefund(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.orderCommands.ProcessRefund(c.Request.Context(), id); err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Complete refund
// @Description Finish a processing refund and mark the payment refunded
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/refund/complete [post]
func (h *OrderHandler) CompleteRefund(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.orderCommands.CompleteRefund(c.Request.Context(), id); err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortBadRequest(c, err, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUserID reads the caller identity forwarded by the edge gateway.
// Guest checkout is allowed, so an absent header is not an error.
func optionalUserID(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
