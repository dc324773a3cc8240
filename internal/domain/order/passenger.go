package order

import (
	"errors"

	"github.com/google/uuid"
)

var ErrIncompletePassenger = errors.New("passenger record incomplete")

// Passenger carries the identity data required before an order can be
// confirmed. A record is complete once name, gender, birth date and one
// travel document (national ID or passport) are present.
type Passenger struct {
	ID             uuid.UUID
	OrderItemID    uuid.UUID
	Name           string
	Surname        string
	Gender         string
	BirthDate      string
	Nationality    string
	IDNumber       string
	PassportNumber string
	Phone          string
	Type           PassengerType
}

func (p Passenger) IsComplete() bool {
	if p.Name == "" || p.Surname == "" || p.Gender == "" || p.BirthDate == "" {
		return false
	}
	if !p.Type.IsValid() {
		return false
	}
	return p.IDNumber != "" || p.PassportNumber != ""
}

func (p Passenger) Validate() error {
	if !p.IsComplete() {
		return ErrIncompletePassenger
	}
	return nil
}
