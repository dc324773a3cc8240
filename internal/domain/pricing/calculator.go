package pricing

import (
	"errors"
)

var (
	ErrNegativeFare    = errors.New("fare components must be non-negative")
	ErrNoFeePayers     = errors.New("line must include at least one adult")
	ErrNegativeCounts  = errors.New("passenger counts must be non-negative")
	ErrInvalidFactor   = errors.New("adjustment factor must be positive")
	ErrNegativeAmounts = errors.New("computed amount is negative")
)

// Price is the published fare card for one cabin type on one voyage, in
// integer cents. Fees apply per fee-paying passenger; infants are exempt.
type Price struct {
	AdultFareCents  int64
	ChildFareCents  int64
	InfantFareCents int64
	PortFeeCents    int64
	ServiceFeeCents int64
}

func (p Price) Validate() error {
	if p.AdultFareCents < 0 || p.ChildFareCents < 0 || p.InfantFareCents < 0 ||
		p.PortFeeCents < 0 || p.ServiceFeeCents < 0 {
		return ErrNegativeFare
	}
	return nil
}

// LineInput is one order line handed to the calculator.
type LineInput struct {
	Price    Price
	Adults   int
	Children int
	Infants  int
}

// Adjustment scales the fare portion of a line. Basis points keep the
// arithmetic in integers; 10000 means unchanged. Fees are never adjusted.
type Adjustment struct {
	MarkupBps   int64
	DiscountBps int64
}

// Identity is the no-op adjustment.
var Identity = Adjustment{MarkupBps: 10000, DiscountBps: 10000}

func (a Adjustment) Validate() error {
	if a.MarkupBps <= 0 || a.DiscountBps <= 0 {
		return ErrInvalidFactor
	}
	return nil
}

// LineSubtotal prices a single line: per-head fares plus port and service
// fees for each adult and child. Infants ride fee-exempt. The markup and
// discount factors apply to the fare portion only.
func LineSubtotal(in LineInput, adj Adjustment) (int64, error) {
	if err := in.Price.Validate(); err != nil {
		return 0, err
	}
	if err := adj.Validate(); err != nil {
		return 0, err
	}
	if in.Adults < 0 || in.Children < 0 || in.Infants < 0 {
		return 0, ErrNegativeCounts
	}
	if in.Adults == 0 {
		return 0, ErrNoFeePayers
	}

	fares := int64(in.Adults)*in.Price.AdultFareCents +
		int64(in.Children)*in.Price.ChildFareCents +
		int64(in.Infants)*in.Price.InfantFareCents
	fares = fares * adj.MarkupBps / 10000
	fares = fares * adj.DiscountBps / 10000

	feePayers := int64(in.Adults + in.Children)
	fees := feePayers * (in.Price.PortFeeCents + in.Price.ServiceFeeCents)

	total := fares + fees
	if total < 0 {
		return 0, ErrNegativeAmounts
	}
	return total, nil
}

// Total prices a whole order. Lines are summed independently so a quote for
// mixed cabin types is just the sum of its parts.
func Total(lines []LineInput, adj Adjustment) (int64, error) {
	var total int64
	for _, in := range lines {
		sub, err := LineSubtotal(in, adj)
		if err != nil {
			return 0, err
		}
		total += sub
	}
	return total, nil
}
