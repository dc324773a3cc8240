package request

import (
	"strings"

	"cruise-booking/internal/domain/order"

	"github.com/google/uuid"
)

type OrderItemRequest struct {
	CabinTypeID uuid.UUID `json:"cabin_type_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	AdultCount  int       `json:"adult_count" binding:"required,min=1"`
	ChildCount  int       `json:"child_count" binding:"min=0"`
	InfantCount int       `json:"infant_count" binding:"min=0"`
}

type PassengerRequest struct {
	Name           string `json:"name" binding:"required"`
	Surname        string `json:"surname" binding:"required"`
	Gender         string `json:"gender" binding:"required,oneof=M F"`
	BirthDate      string `json:"birth_date" binding:"required"`
	Nationality    string `json:"nationality"`
	IDNumber       string `json:"id_number"`
	PassportNumber string `json:"passport_number"`
	Phone          string `json:"phone"`
	Type           string `json:"type" binding:"required,oneof=adult child infant"`
}

func (p PassengerRequest) ToDomain(itemID uuid.UUID) order.Passenger {
	return order.Passenger{
		ID:             uuid.New(),
		OrderItemID:    itemID,
		Name:           strings.TrimSpace(p.Name),
		Surname:        strings.TrimSpace(p.Surname),
		Gender:         p.Gender,
		BirthDate:      p.BirthDate,
		Nationality:    p.Nationality,
		IDNumber:       strings.TrimSpace(p.IDNumber),
		PassportNumber: strings.TrimSpace(p.PassportNumber),
		Phone:          p.Phone,
		Type:           order.PassengerType(p.Type),
	}
}

type CreateOrderRequest struct {
	VoyageID     uuid.UUID          `json:"voyage_id" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Passengers   []PassengerRequest `json:"passengers" binding:"omitempty,dive"`
	ContactName  string             `json:"contact_name" binding:"required"`
	ContactPhone string             `json:"contact_phone" binding:"required"`
	ContactEmail string             `json:"contact_email" binding:"omitempty,email"`
}

func (r CreateOrderRequest) Contact() order.Contact {
	return order.Contact{
		Name:  strings.TrimSpace(r.ContactName),
		Phone: strings.TrimSpace(r.ContactPhone),
		Email: strings.TrimSpace(r.ContactEmail),
	}
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type SubmitPassengersRequest struct {
	Passengers []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}
