package inventory

// HoldStatus tracks the lifecycle of a capacity hold. A hold leaves
// `active` exactly once: into `consumed` when the order settles, or into
// `abandoned` on cancellation or expiry sweep.
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusConsumed  HoldStatus = "consumed"
	HoldStatusAbandoned HoldStatus = "abandoned"
)

func (s HoldStatus) String() string {
	return string(s)
}

func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusActive, HoldStatusConsumed, HoldStatusAbandoned:
		return true
	default:
		return false
	}
}

func (s HoldStatus) IsTerminal() bool {
	return s == HoldStatusConsumed || s == HoldStatusAbandoned
}
