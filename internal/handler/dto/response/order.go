package response

import (
	"time"

	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNo       string              `json:"orderNo"`
	UserID        *uuid.UUID          `json:"userId,omitempty"`
	CruiseID      uuid.UUID           `json:"cruiseId"`
	CruiseName    string              `json:"cruiseName"`
	VoyageID      uuid.UUID           `json:"voyageId"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"totalCents"`
	DiscountCents int64               `json:"discountCents"`
	PaidCents     int64               `json:"paidCents"`
	ContactName   string              `json:"contactName"`
	ContactPhone  string              `json:"contactPhone"`
	ContactEmail  string              `json:"contactEmail,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Passengers    []PassengerResponse `json:"passengers"`
	ExpireAt      time.Time           `json:"expireAt"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
	ConfirmedAt   *time.Time          `json:"confirmedAt,omitempty"`
	CancelReason  string              `json:"cancelReason,omitempty"`
	RefundReason  string              `json:"refundReason,omitempty"`
	RefundedAt    *time.Time          `json:"refundedAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	CabinTypeID   uuid.UUID `json:"cabinTypeId"`
	CabinTypeName string    `json:"cabinTypeName"`
	VoyageID      uuid.UUID `json:"voyageId"`
	Quantity      int       `json:"quantity"`
	AdultCount    int       `json:"adultCount"`
	ChildCount    int       `json:"childCount"`
	InfantCount   int       `json:"infantCount"`
	SubtotalCents int64     `json:"subtotalCents"`
}

type PassengerResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderItemID uuid.UUID `json:"orderItemId"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Type        string    `json:"type"`
	Complete    bool      `json:"complete"`
}

type OrderListResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderNo    string    `json:"orderNo"`
	CruiseName string    `json:"cruiseName"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	ExpireAt   time.Time `json:"expireAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrderCreatedResponse is the slim acknowledgement returned right after
// placing an order, before the client navigates to payment.
type OrderCreatedResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderNo        string    `json:"orderNo"`
	Status         string    `json:"status"`
	TotalCents     int64     `json:"totalCents"`
	DiscountCents  int64     `json:"discountCents"`
	AmountDueCents int64     `json:"amountDueCents"`
	ExpireAt       time.Time `json:"expireAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromOrderView(rm *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromOrderListItem(rm *queries.OrderListItem) *OrderListResponse {
	resp := &OrderListResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromCreatedOrder(o *order.Order) *OrderCreatedResponse {
	return &OrderCreatedResponse{
		ID:             o.ID(),
		OrderNo:        o.OrderNo(),
		Status:         o.Status().String(),
		TotalCents:     o.TotalCents(),
		DiscountCents:  o.DiscountCents(),
		AmountDueCents: o.AmountDue(),
		ExpireAt:       o.ExpireAt(),
		CreatedAt:      o.CreatedAt(),
	}
}
