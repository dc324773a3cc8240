//go:build unit || e2e

package builder

import (
	"time"

	domorder "cruise-booking/internal/domain/order"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	UserID        *uuid.UUID
	CruiseID      uuid.UUID
	VoyageID      uuid.UUID
	HoldSetID     uuid.UUID
	Items         []domorder.Item
	Passengers    []domorder.Passenger
	Contact       domorder.Contact
	TotalCents    int64
	DiscountCents int64
	Now           time.Time
	HoldTTL       time.Duration
}

func NewOrderBuilder() *OrderBuilder {
	userID := uuid.New()
	itemID := uuid.New()
	return &OrderBuilder{
		UserID:    &userID,
		CruiseID:  uuid.New(),
		VoyageID:  uuid.New(),
		HoldSetID: uuid.New(),
		Items: []domorder.Item{
			{
				ID:            itemID,
				CabinTypeID:   uuid.New(),
				VoyageID:      uuid.New(),
				Quantity:      1,
				AdultCount:    2,
				ChildCount:    1,
				InfantCount:   0,
				SubtotalCents: 295000,
			},
		},
		Passengers: []domorder.Passenger{
			NewPassenger(itemID, domorder.PassengerTypeAdult),
			NewPassenger(itemID, domorder.PassengerTypeAdult),
			NewPassenger(itemID, domorder.PassengerTypeChild),
		},
		Contact: domorder.Contact{
			Name:  "Jordan Reyes",
			Phone: "+1-555-0123",
			Email: "jordan@example.com",
		},
		TotalCents:    295000,
		DiscountCents: 0,
		Now:           time.Now(),
		HoldTTL:       15 * time.Minute,
	}
}

func NewPassenger(itemID uuid.UUID, typ domorder.PassengerType) domorder.Passenger {
	return domorder.Passenger{
		ID:             uuid.New(),
		OrderItemID:    itemID,
		Name:           "Alex",
		Surname:        "Reyes",
		Gender:         "F",
		BirthDate:      "1990-04-12",
		Nationality:    "US",
		PassportNumber: "X1234567",
		Type:           typ,
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) BuildDomain() (*domorder.Order, error) {
	return domorder.NewOrder(
		b.UserID,
		b.CruiseID,
		b.VoyageID,
		b.HoldSetID,
		b.Items,
		b.Passengers,
		b.Contact,
		b.TotalCents,
		b.DiscountCents,
		b.Now,
		b.HoldTTL,
	)
}
