package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type OrderView struct {
	ID             uuid.UUID          `json:"id"`
	OrderNo        string             `json:"order_no"`
	UserID         *uuid.UUID         `json:"user_id,omitempty"`
	CruiseID       uuid.UUID          `json:"cruise_id"`
	CruiseName     string             `json:"cruise_name"`
	VoyageID       uuid.UUID          `json:"voyage_id"`
	Status         string             `json:"status"`
	TotalCents     int64              `json:"total_cents"`
	DiscountCents  int64              `json:"discount_cents"`
	PaidCents      int64              `json:"paid_cents"`
	ContactName    string             `json:"contact_name"`
	ContactPhone   string             `json:"contact_phone"`
	ContactEmail   string             `json:"contact_email,omitempty"`
	Items          []OrderItemView    `json:"items"`
	Passengers     []PassengerView    `json:"passengers"`
	ExpireAt       time.Time          `json:"expire_at"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	ConfirmedAt    *time.Time         `json:"confirmed_at,omitempty"`
	CancelReason   string             `json:"cancel_reason,omitempty"`
	RefundReason   string             `json:"refund_reason,omitempty"`
	RefundedAt     *time.Time         `json:"refunded_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type OrderItemView struct {
	ID            uuid.UUID `json:"id"`
	CabinTypeID   uuid.UUID `json:"cabin_type_id"`
	CabinTypeName string    `json:"cabin_type_name"`
	VoyageID      uuid.UUID `json:"voyage_id"`
	Quantity      int       `json:"quantity"`
	AdultCount    int       `json:"adult_count"`
	ChildCount    int       `json:"child_count"`
	InfantCount   int       `json:"infant_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

type PassengerView struct {
	ID          uuid.UUID `json:"id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Type        string    `json:"type"`
	Complete    bool      `json:"complete"`
}

type OrderListItem struct {
	ID         uuid.UUID `json:"id"`
	OrderNo    string    `json:"order_no"`
	CruiseName string    `json:"cruise_name"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	ExpireAt   time.Time `json:"expire_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderListFilter struct {
	Status  string
	UserID  *uuid.UUID
	OrderNo string
}

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, filter OrderListFilter, limit, offset int) ([]*OrderListItem, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindFiltered(ctx context.Context, filter OrderListFilter, limit, offset int32) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *orderQueriesImpl) List(ctx context.Context, filter OrderListFilter, limit, offset int) ([]*OrderListItem, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.FindFiltered(ctx, filter, int32(limit), int32(offset))
}
