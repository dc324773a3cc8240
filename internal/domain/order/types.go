package order

// Status is the closed set of order lifecycle states. Transitions outside
// the table below are rejected, never silently applied.
type Status string

const (
	StatusCreated          Status = "created"
	StatusPendingPayment   Status = "pending_payment"
	StatusPaid             Status = "paid"
	StatusConfirmed        Status = "confirmed"
	StatusPendingDeparture Status = "pending_departure"
	StatusDeparted         Status = "departed"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
	StatusRefundRequested  Status = "refund_requested"
	StatusRefundProcessing Status = "refund_processing"
	StatusRefunded         Status = "refunded"
)

var transitions = map[Status][]Status{
	StatusCreated:          {StatusPendingPayment, StatusCancelled},
	StatusPendingPayment:   {StatusPaid, StatusCancelled},
	StatusPaid:             {StatusConfirmed, StatusRefundRequested, StatusCancelled},
	StatusConfirmed:        {StatusPendingDeparture, StatusRefundRequested},
	StatusPendingDeparture: {StatusDeparted},
	StatusDeparted:         {StatusCompleted},
	StatusCompleted:        {},
	StatusCancelled:        {},
	StatusRefundRequested:  {StatusRefundProcessing},
	StatusRefundProcessing: {StatusRefunded},
	StatusRefunded:         {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether s -> to is in the transition table.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PassengerType distinguishes fare classes; infants are exempt from port
// and service fees.
type PassengerType string

const (
	PassengerTypeAdult  PassengerType = "adult"
	PassengerTypeChild  PassengerType = "child"
	PassengerTypeInfant PassengerType = "infant"
)

func (t PassengerType) IsValid() bool {
	switch t {
	case PassengerTypeAdult, PassengerTypeChild, PassengerTypeInfant:
		return true
	default:
		return false
	}
}
